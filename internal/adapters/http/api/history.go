package api

import (
	"context"
	"net/http"
)

// HistoryDependencies defines the interface for collection-wide mutations
// and their undo/redo.
type HistoryDependencies interface {
	SortPersist(ctx context.Context) error
	Undo(ctx context.Context) error
	Redo(ctx context.Context) error
}

// HistoryHandler handles /sort, /undo and /redo.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleSort handles POST /sort.
func (h *HistoryHandler) HandleSort(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "api.sort", h.deps.SortPersist)
}

// HandleUndo handles POST /undo.
func (h *HistoryHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "api.undo", h.deps.Undo)
}

// HandleRedo handles POST /redo.
func (h *HistoryHandler) HandleRedo(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "api.redo", h.deps.Redo)
}

func (h *HistoryHandler) run(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) error) {
	if err := fn(r.Context()); err != nil {
		writeFailure(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
