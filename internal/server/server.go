// Package server exposes the analysis orchestrator over HTTP and WebSocket.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/cruisecg/SEOAnalysisTools/docs" // registers the swagger spec
	"github.com/cruisecg/SEOAnalysisTools/internal/app"
	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

// Server is the HTTP + WebSocket API surface for the analysis service.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
}

// NewServer wraps an orchestrator with the API routes.
func NewServer(cfg Config, orch *app.Orchestrator) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server requires an orchestrator")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       chi.NewRouter(),
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/tasks", s.optionsHandler("POST"))
	r.Options("/api/tasks/{taskID}", s.optionsHandler("GET"))
	r.Options("/api/weights", s.optionsHandler("GET, PUT"))

	// Tasks
	r.Post("/api/tasks", s.handleSubmitTask)
	r.Get("/api/tasks/{taskID}", s.handleGetTask)

	// Scoring weights
	r.Get("/api/weights", s.handleGetWeights)
	r.Put("/api/weights", s.handlePutWeights)

	// WebSocket task progress
	r.Get("/ws/tasks/{taskID}", s.handleTaskWS)

	r.Get("/api/health", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Client-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator.
func (s *Server) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// clientFrom identifies the submitting party. Callers may pin an explicit id
// through the X-Client-ID header; otherwise the remote address is used.
func clientFrom(r *http.Request, tier string) app.Client {
	id := r.Header.Get("X-Client-ID")
	if id == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			id = host
		} else {
			id = r.RemoteAddr
		}
	}

	t := app.Tier(tier)
	if t != app.TierRegistered {
		t = app.TierAnonymous
	}
	return app.Client{ID: id, Tier: t}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

// handleSubmitTask godoc
// @Summary Submit a URL for analysis
// @Accept json
// @Produce json
// @Param request body SubmitTaskRequest true "submission"
// @Success 202 {object} SubmitTaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/tasks [post]
func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var body SubmitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	client := clientFrom(r, body.Tier)
	taskID, err := s.orchestrator.Submit(r.Context(), client, body.URL)
	if err != nil {
		var rl *app.RateLimitedError
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			s.logger.Warn("rejected submission", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &rl):
			s.logger.Warn("rate limited submission", logging.Field{Key: "client_id", Value: client.ID})
			writeError(w, http.StatusTooManyRequests, rl.Error())
		default:
			s.logger.Error("submitting task", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.logger.Info("accepted submission",
		logging.Field{Key: "task_id", Value: taskID},
		logging.Field{Key: "client_id", Value: client.ID})
	writeJSON(w, http.StatusAccepted, SubmitTaskResponse{TaskID: taskID})
}

// handleGetTask godoc
// @Summary Get a task's current state and, once done, its score report
// @Produce json
// @Param taskID path string true "task id"
// @Success 200 {object} model.Task
// @Failure 404 {object} ErrorResponse
// @Router /api/tasks/{taskID} [get]
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.orchestrator.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, app.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		s.logger.Error("getting task", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleGetWeights godoc
// @Summary Get the scoring weights in effect
// @Produce json
// @Success 200 {object} model.Weights
// @Router /api/weights [get]
func (s *Server) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := s.orchestrator.Weights(r.Context())
	if err != nil {
		s.logger.Error("getting weights", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, weights)
}

// handlePutWeights godoc
// @Summary Replace the scoring weights used by subsequent analyses
// @Accept json
// @Produce json
// @Param request body WeightsRequest true "weights, must sum to 100"
// @Success 200 {object} model.Weights
// @Failure 400 {object} ErrorResponse
// @Router /api/weights [put]
func (s *Server) handlePutWeights(w http.ResponseWriter, r *http.Request) {
	var body WeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	weights := model.Weights{
		Technical:      body.Technical,
		Content:        body.Content,
		StructuredData: body.StructuredData,
		Performance:    body.Performance,
		Social:         body.Social,
	}
	if err := s.orchestrator.SetWeights(r.Context(), weights); err != nil {
		s.logger.Warn("rejected weights", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("updated weights")
	writeJSON(w, http.StatusOK, weights)
}

// handleHealth godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// --- WebSockets ---

// handleTaskWS streams status events for a task until it reaches a terminal
// state. The current status is sent first so late subscribers see at least
// one message.
func (s *Server) handleTaskWS(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.orchestrator.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, app.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	events, cancel := s.orchestrator.Watch(taskID)
	defer cancel()

	// Re-read after subscribing: a transition landing between the lookup
	// and the subscription would otherwise never reach this watcher.
	task, err = s.orchestrator.GetTask(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	current := app.TaskEvent{TaskID: task.ID, Status: task.Status, Error: task.ErrorMessage}
	if err := conn.WriteJSON(current); err != nil {
		return
	}
	if task.Status.Terminal() {
		return
	}

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected.
			return
		}
		if ev.Status.Terminal() {
			return
		}
	}
}
