// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	repository "github.com/okian/gradebook/internal/adapters/repository"
	service "github.com/okian/gradebook/internal/app"
	"github.com/okian/gradebook/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StudentDependencies
	LeaderboardDependencies
	HistoryDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	studentsHandler    *StudentsHandler
	leaderboardHandler *LeaderboardHandler
	historyHandler     *HistoryHandler
	logger             logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /leaderboard?limit.
func NewServer(deps Dependencies, maxLimit int, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		studentsHandler:    NewStudentsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		historyHandler:     NewHistoryHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger)
	}

	mux.HandleFunc("GET /healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", wrap(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /students", wrap(s.studentsHandler.HandleCreate, "students"))
	mux.HandleFunc("GET /students", wrap(s.studentsHandler.HandleList, "students"))
	mux.HandleFunc("GET /students/{key}", wrap(s.studentsHandler.HandleGet, "student"))
	mux.HandleFunc("PUT /students/{key}", wrap(s.studentsHandler.HandleReplace, "student"))
	mux.HandleFunc("DELETE /students/{key}", wrap(s.studentsHandler.HandleDelete, "student"))
	mux.HandleFunc("POST /students/{key}/fees", wrap(s.studentsHandler.HandlePayFee, "fees"))

	mux.HandleFunc("GET /leaderboard", wrap(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /topper", wrap(s.leaderboardHandler.HandleGetTopper, "topper"))

	mux.HandleFunc("POST /sort", wrap(s.historyHandler.HandleSort, "sort"))
	mux.HandleFunc("POST /undo", wrap(s.historyHandler.HandleUndo, "undo"))
	mux.HandleFunc("POST /redo", wrap(s.historyHandler.HandleRedo, "redo"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		err = WrapKind(op, ErrInternal, err)
	} else {
		err = Wrap(op, err)
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return http.StatusConflict, "duplicate_key"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrInvalidRecord):
		return http.StatusBadRequest, "invalid_record"
	case errors.Is(err, repository.ErrNothingToUndo):
		return http.StatusConflict, "nothing_to_undo"
	case errors.Is(err, repository.ErrNothingToRedo):
		return http.StatusConflict, "nothing_to_redo"
	case errors.Is(err, ErrLimitExceeded), errors.Is(err, service.ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrInvalidPayment):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// pathKey parses the {key} path segment.
func pathKey(r *http.Request) (int, error) {
	raw := r.PathValue("key")
	key, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid key %q", ErrBadRequest, raw)
	}
	return key, nil
}
