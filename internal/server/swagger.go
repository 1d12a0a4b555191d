package server

//go:generate swag init -g internal/server/server.go -o docs

// @title SEO Analysis API
// @version 0.1
// @description Interactive documentation for the SEO analysis task API.
// @contact.name SEOAnalysisTools Maintainers
// @contact.url https://github.com/cruisecg/SEOAnalysisTools
// @BasePath /
