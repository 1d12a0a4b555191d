package server

import (
	"github.com/cruisecg/SEOAnalysisTools/internal/app"
	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig tunes the orchestrator backing this server. Nil uses
	// app.DefaultConfig.
	AppConfig *app.Config

	// Logger receives request and handler logs. Nil uses a stdout logger.
	Logger logging.Logger
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		AppConfig:  app.DefaultConfig(),
	}
}
