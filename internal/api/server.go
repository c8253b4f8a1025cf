package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/khanhnv2901/netrax/internal/api/middleware"
	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"go.uber.org/zap"
)

const maxRequestBody = 1 << 20

// Snapshot describes a stored graph. Graph is only set on single lookups.
type Snapshot struct {
	ID        string           `json:"id"`
	Domain    string           `json:"domain"`
	CreatedAt time.Time        `json:"created_at"`
	NodeCount int              `json:"node_count"`
	LinkCount int              `json:"link_count"`
	Graph     *sitegraph.Graph `json:"graph,omitempty"`
}

type HealthService interface {
	Check(ctx context.Context) error
	Ready(ctx context.Context) error
}

type JobService interface {
	StartGraph(ctx context.Context, req GraphRequest) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]Job, error)
	Subscribe() (chan Job, func())
}

type SnapshotService interface {
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)
}

type Config struct {
	Health      HealthService
	Jobs        JobService
	Snapshots   SnapshotService
	AuthToken   string
	JobLimit    int
	Logger      *zap.Logger
	CORSOrigins []string // Allowed CORS origins (empty = allow all)
	RateLimit   int      // Requests per second per IP (0 = disabled)
	RateBurst   int
}

type Server struct {
	cfg      Config
	mux      *http.ServeMux
	limiters *rateLimiterMap
	handler  http.Handler
}

func NewServer(cfg Config) *Server {
	srv := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		limiters: newRateLimiterMap(),
	}
	srv.routes()
	srv.handler = middleware.RequestID(srv.withLogging(srv.withRateLimit(srv.withCORS(srv.mux))))
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.limiters.Close()
}

func (s *Server) routes() {
	s.mux.Handle("/api/v1/health", s.withAuth(http.HandlerFunc(s.handleHealth)))
	s.mux.Handle("/api/v1/ready", s.withAuth(http.HandlerFunc(s.handleReady)))
	s.mux.Handle("/api/v1/graphs", s.withAuth(http.HandlerFunc(s.handleGraphs)))
	s.mux.Handle("/api/v1/jobs", s.withAuth(http.HandlerFunc(s.handleJobs)))
	s.mux.Handle("/api/v1/jobs/", s.withAuth(http.HandlerFunc(s.handleJobByID)))
	s.mux.Handle("/api/v1/jobs-stream", s.withAuth(http.HandlerFunc(s.handleJobStream)))
	s.mux.Handle("/api/v1/snapshots", s.withAuth(http.HandlerFunc(s.handleSnapshots)))
	s.mux.Handle("/api/v1/snapshots/", s.withAuth(http.HandlerFunc(s.handleSnapshotByID)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Check(r.Context()); err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Ready(r.Context()); err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("job service not available"))
		return
	}
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		s.writeError(w, r, http.StatusBadRequest, sharedErrors.ErrEmptyDomain)
		return
	}
	job, err := s.cfg.Jobs.StartGraph(r.Context(), req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("job service not available"))
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	limit := s.cfg.JobLimit
	if limit <= 0 {
		limit = 25
	}
	if q := r.URL.Query().Get("limit"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	jobs, err := s.cfg.Jobs.ListJobs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("job service not available"))
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	id, ok := pathID(r, "/api/v1/jobs/")
	if !ok {
		s.writeError(w, r, http.StatusNotFound, errors.New("job ID required"))
		return
	}
	job, err := s.cfg.Jobs.GetJob(r.Context(), id)
	if err != nil || job == nil {
		s.writeError(w, r, http.StatusNotFound, sharedErrors.ErrJobNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("job service not available"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	updates, unsubscribe := s.cfg.Jobs.Subscribe()
	defer unsubscribe()
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case job, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(job)
			if err != nil {
				s.requestLogger(r).Error("failed to marshal job", zap.Error(err))
				continue
			}
			for _, chunk := range [][]byte{[]byte("event: job\ndata: "), payload, []byte("\n\n")} {
				if !s.writeStreamChunk(w, r, chunk) {
					return
				}
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Snapshots == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("snapshot service not available"))
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	items, err := s.cfg.Snapshots.ListSnapshots(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSnapshotByID(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Snapshots == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("snapshot service not available"))
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	id, ok := pathID(r, "/api/v1/snapshots/")
	if !ok {
		s.writeError(w, r, http.StatusNotFound, errors.New("snapshot ID required"))
		return
	}
	snap, err := s.cfg.Snapshots.GetSnapshot(r.Context(), id)
	switch {
	case errors.Is(err, sharedErrors.ErrSnapshotNotFound):
		s.writeError(w, r, http.StatusNotFound, sharedErrors.ErrSnapshotNotFound)
		return
	case errors.Is(err, sharedErrors.ErrInvalidSnapshot):
		s.writeError(w, r, http.StatusBadRequest, sharedErrors.ErrInvalidSnapshot)
		return
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// pathID returns the single path segment following prefix.
func pathID(r *http.Request, prefix string) (string, bool) {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == r.URL.Path || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Auth-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			s.writeError(w, r, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	// 5xx details stay in the server log.
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}
	return s.cfg.Logger.With(
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func (s *Server) writeStreamChunk(w http.ResponseWriter, r *http.Request, data []byte) bool {
	if _, err := w.Write(data); err != nil {
		s.requestLogger(r).Debug("stream closed", zap.Error(err))
		return false
	}
	return true
}
