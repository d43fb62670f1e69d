// SPDX-License-Identifier: MIT

// Package server exposes a fitted estimator as a read-only JSON API.
//
// Routes:
//
//	GET /v1/fit                    fit id, timestamp, groups and stages
//	GET /v1/matrices               ?group=<label> | ?stage=<value> | neither for global
//	GET /v1/matrices/global
//	GET /v1/matrices/groups/{label}
//	GET /v1/matrices/stages/{value}
//	GET /metrics                   Prometheus exposition
//	GET /healthz
//
// Status codes: 503 before the first fit, 404 for unobserved keys,
// 400 for malformed stage values or conflicting selectors.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/katalvlaran/rollrate/estimator"
	"github.com/katalvlaran/rollrate/matrix"
)

// Querier is the read side of an estimator.
type Querier interface {
	Matrix(key estimator.Key) (*matrix.Dense, error)
	Labels(key estimator.Key) ([]int, error)
	Counts(key estimator.Key) (*matrix.Dense, error)
	Groups() []string
	Stages() []int
	FitID() uuid.UUID
	FittedAt() time.Time
	Fitted() bool
}

var _ Querier = (*estimator.Estimator)(nil)

// Option configures the handler.
type Option func(*Server)

// WithLogger logs requests and failures to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer serves g on /metrics (prometheus.DefaultGatherer otherwise).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// Server holds the handler dependencies.
type Server struct {
	q        Querier
	logger   *zap.Logger
	gatherer prometheus.Gatherer
}

// MatrixResponse is the body of every matrix route.
type MatrixResponse struct {
	Key    string      `json:"key"`
	Labels []int       `json:"labels"`
	Matrix [][]float64 `json:"matrix"`
	Counts [][]float64 `json:"counts"`
}

// FitResponse is the body of /v1/fit.
type FitResponse struct {
	ID       uuid.UUID `json:"id"`
	FittedAt time.Time `json:"fitted_at"`
	Groups   []string  `json:"groups"`
	Stages   []int     `json:"stages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// errBadStage marks an unparsable stage value.
var errBadStage = errors.New("server: stage must be an integer")

// NewHandler builds the router over q.
func NewHandler(q Querier, opts ...Option) http.Handler {
	s := &Server{q: q, logger: zap.NewNop(), gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/fit", s.fit)
		r.Get("/matrices", s.selectMatrix)
		r.Get("/matrices/global", func(w http.ResponseWriter, r *http.Request) {
			s.writeMatrix(w, estimator.Global())
		})
		r.Get("/matrices/groups/{label}", func(w http.ResponseWriter, r *http.Request) {
			s.writeMatrix(w, estimator.Group(chi.URLParam(r, "label")))
		})
		r.Get("/matrices/stages/{value}", func(w http.ResponseWriter, r *http.Request) {
			v, err := strconv.Atoi(chi.URLParam(r, "value"))
			if err != nil {
				s.writeError(w, errBadStage)
				return
			}
			s.writeMatrix(w, estimator.Stage(v))
		})
	})

	return r
}

func (s *Server) fit(w http.ResponseWriter, _ *http.Request) {
	if !s.q.Fitted() {
		s.writeError(w, estimator.ErrNotFitted)
		return
	}
	s.writeJSON(w, http.StatusOK, FitResponse{
		ID:       s.q.FitID(),
		FittedAt: s.q.FittedAt(),
		Groups:   nonNil(s.q.Groups()),
		Stages:   nonNil(s.q.Stages()),
	})
}

func (s *Server) selectMatrix(w http.ResponseWriter, r *http.Request) {
	var sel estimator.Selector
	query := r.URL.Query()
	if query.Has("group") {
		g := query.Get("group")
		sel.Group = &g
	}
	if query.Has("stage") {
		v, err := strconv.Atoi(query.Get("stage"))
		if err != nil {
			s.writeError(w, errBadStage)
			return
		}
		sel.Stage = &v
	}
	key, err := sel.Key()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeMatrix(w, key)
}

func (s *Server) writeMatrix(w http.ResponseWriter, key estimator.Key) {
	m, err := s.q.Matrix(key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	labels, err := s.q.Labels(key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	counts, err := s.q.Counts(key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MatrixResponse{
		Key:    key.String(),
		Labels: nonNil(labels),
		Matrix: m.ToRows(),
		Counts: counts.ToRows(),
	})
}

// statusOf maps estimator errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, estimator.ErrNotFitted):
		return http.StatusServiceUnavailable
	case errors.Is(err, estimator.ErrUnknownKey):
		return http.StatusNotFound
	case errors.Is(err, estimator.ErrInvalidSelector), errors.Is(err, errBadStage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("response encode failed", zap.Error(err))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
