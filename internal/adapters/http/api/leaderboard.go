package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/gradebook/internal/domain/types"
)

// LeaderboardDependencies defines the interface for ranking queries.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) ([]types.Entry, error)
	TopK(ctx context.Context, k int) ([]types.Entry, error)
	Topper(ctx context.Context) (types.Student, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard and GET /leaderboard?limit=N.
// Without a limit the full ranking is returned.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		entries, err := h.deps.Leaderboard(r.Context())
		if err != nil {
			writeFailure(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 0 {
		writeFailure(w, op, fmt.Errorf("%w: limit %q", ErrBadRequest, limitStr))
		return
	}
	if n > h.maxLimit {
		writeFailure(w, op, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, n, h.maxLimit))
		return
	}
	entries, err := h.deps.TopK(r.Context(), n)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetTopper handles GET /topper.
func (h *LeaderboardHandler) HandleGetTopper(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_topper"
	student, err := h.deps.Topper(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}
