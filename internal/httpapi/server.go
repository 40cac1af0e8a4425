package httpapi

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tasks-api/internal/model"
)

type TaskService interface {
	List(ctx context.Context, search string) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Create(ctx context.Context, title, description string) (model.Task, error)
	Update(ctx context.Context, id string, title, description *string) (model.Task, error)
	ToggleComplete(ctx context.Context, id string) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

const defaultRequestTimeout = 3 * time.Second

type Server struct {
	service        TaskService
	logger         *zap.Logger
	requestTimeout time.Duration
	mux            *http.ServeMux
	handler        http.Handler
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{http.MethodGet, "/healthz", s.handleHealth},
		{http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP},

		{http.MethodGet, "/tasks", s.handleListTasks},
		{http.MethodPost, "/tasks", s.handleCreateTask},
		{http.MethodGet, "/tasks/{id}", s.handleGetTask},
		{http.MethodPut, "/tasks/{id}", s.handleUpdateTask},
		{http.MethodDelete, "/tasks/{id}", s.handleDeleteTask},
		{http.MethodPatch, "/tasks/{id}/complete", s.handleToggleComplete},
	}
}

func NewServer(service TaskService, opts ...Option) *Server {
	srv := &Server{
		service:        service,
		logger:         zap.NewNop(),
		requestTimeout: defaultRequestTimeout,
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	for _, rt := range srv.routes() {
		srv.mux.HandleFunc(rt.method+" "+rt.pattern, rt.handler)
	}
	srv.handler = srv.withMiddleware(http.HandlerFunc(srv.dispatch))

	return srv
}

// dispatch serves routed requests through the mux and answers the rest with
// a JSON 404, or a JSON 405 listing the methods the path does accept.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if _, pattern := s.mux.Handler(r); pattern != "" {
		s.mux.ServeHTTP(w, r)
		return
	}

	if allowed := s.allowedMethods(r); len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) allowedMethods(r *http.Request) []string {
	var allowed []string
	for _, rt := range s.routes() {
		if slices.Contains(allowed, rt.method) {
			continue
		}
		alt := r.Clone(r.Context())
		alt.Method = rt.method
		if _, pattern := s.mux.Handler(alt); pattern != "" {
			allowed = append(allowed, rt.method)
		}
	}
	return allowed
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
