// Package server exposes the take generator over HTTP next to the health and
// Prometheus endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/bristermitten/hot-takes/internal/common/errors"
	"github.com/bristermitten/hot-takes/internal/common/logger"
	"github.com/bristermitten/hot-takes/internal/common/metrics"
	"github.com/bristermitten/hot-takes/internal/common/observability"
	"github.com/bristermitten/hot-takes/internal/datastore"
	"github.com/bristermitten/hot-takes/internal/models"
)

const (
	RequestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

// TakeGenerator is the part of the generator the server needs.
type TakeGenerator interface {
	Generate(extra []string) (*models.HotTakeResult, error)
}

type Options struct {
	Address       string
	ReadTimeout   time.Duration
	Generator     TakeGenerator
	Store         datastore.Provider
	Logger        logger.Logger
	Observability *observability.Observability
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

type Server struct {
	opts   Options
	logger logger.Logger
	http   *http.Server
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = promhttp.Handler()
	}

	s := &Server{opts: opts, logger: opts.Logger}
	s.http = &http.Server{
		Addr:              opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: opts.ReadTimeout,
		ReadTimeout:       opts.ReadTimeout,
	}
	return s
}

// Handler returns the routed handler with request ids attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/take", s.handleTake)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", s.opts.MetricsHandler)
	return s.withRequestID(mux)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	s.logger.Info("Take server listening", map[string]interface{}{"address": ln.Addr().String()})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("Take server stopped", nil)
	return nil
}

type ctxKey struct{}

// RequestID returns the id attached to the request context, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) handleTake(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	extra := r.URL.Query()["extra"]
	start := time.Now()
	result, err := s.opts.Generator.Generate(extra)
	elapsed := time.Since(start)

	metrics.RecordTake(metrics.SurfaceHTTP, result, err, elapsed)
	s.opts.Observability.RecordDuration(r.Context(), elapsed, metrics.SurfaceHTTP)

	log := s.logger.WithFields(map[string]interface{}{"requestId": RequestID(r.Context())})
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		s.opts.Observability.RecordTake(r.Context(), metrics.SurfaceHTTP, string(stdErr.Code))
		log.Error("Take generation failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		writeJSON(w, http.StatusInternalServerError, stdErr)
		return
	}

	s.opts.Observability.RecordTake(r.Context(), metrics.SurfaceHTTP, "success")
	log.Debug("Served take", map[string]interface{}{"images": len(result.Images)})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleReady reports ready once there is at least one template to pick from.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	if s.opts.Store != nil {
		if data := s.opts.Store.Data(); data == nil || len(data.Takes) == 0 {
			status, code = "no takes loaded", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
