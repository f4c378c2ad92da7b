// Package http serves the conversion API used by the popup, plus health and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"songbridge/internal/converter"
	"songbridge/internal/core"
	"songbridge/internal/flood"
)

const (
	// ConvertPath is the route the popup posts links to.
	ConvertPath = "/api/convert"
	// maxRequestBody bounds the size of a conversion request.
	maxRequestBody = 64 << 10
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
	serviceName     = "songbridge"
)

// Converter turns a music link into its alternatives.
type Converter interface {
	Convert(ctx context.Context, rawURL string) (*converter.Response, error)
}

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
	limiter *flood.Floodgate
}

type convertRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(config *core.ServerConfig, svc Converter, metrics *Metrics, logger *zap.Logger) *Server {
	limiter := flood.New(config.RateLimitPerMinute)
	metrics.ObserveRateLimiter(limiter)
	handler := setupRoutes(config, svc, metrics, limiter, logger)

	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, handler),
		metrics: metrics,
		limiter: limiter,
	}
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         config.Addr(),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func setupRoutes(config *core.ServerConfig, svc Converter, metrics *Metrics, limiter *flood.Floodgate,
	logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	limited := alice.New(rateLimitMiddleware(limiter, metrics, logger))
	mux.Handle(ConvertPath, limited.ThenFunc(convertHandler(svc, logger)))

	mux.HandleFunc("/healthz", healthzHandler)
	mux.HandleFunc("/readyz", readyzHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/", homeHandler(logger))

	standard := alice.New(
		recoverMiddleware(logger),
		requestIDMiddleware,
		loggingMiddleware(logger),
		corsMiddleware(config.AllowedOrigin),
	)
	return standard.Then(mux)
}

func convertHandler(svc Converter, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req convertRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		rawURL := strings.TrimSpace(req.URL)
		if rawURL == "" {
			writeError(w, http.StatusBadRequest, "URL is required")
			return
		}

		resp, err := svc.Convert(r.Context(), rawURL)
		if err != nil {
			var resolveErr *converter.ResolveError
			if errors.As(err, &resolveErr) {
				writeError(w, http.StatusBadRequest, resolveErr.Message)
				return
			}
			logger.Error("Conversion failed",
				zap.String("url", rawURL),
				zap.String("request_id", RequestID(r.Context())),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"` + serviceName + `"}`))
}

func readyzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready","service":"` + serviceName + `"}`))
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>songbridge</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">songbridge</h1>
    <p>Open a track from Spotify, Deezer or YouTube Music on the other platforms.</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>POST /api/convert</code> - Convert a track link</div>
    <div class="endpoint"><a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint"><a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint"><a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`)); err != nil {
			logger.Debug("Failed to write home page", zap.Error(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) Start(ctx context.Context) error {
	defer s.limiter.Stop()

	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr),
		zap.Int("rate_limit_per_minute", s.config.RateLimitPerMinute))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Handler returns the fully wired request handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
