package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/okian/gradebook/internal/domain/types"
)

// StudentDependencies defines the interface for student record operations.
type StudentDependencies interface {
	Add(ctx context.Context, in types.StudentInput) (types.Student, error)
	Find(ctx context.Context, key int) (types.Student, error)
	Replace(ctx context.Context, in types.StudentInput) (types.Student, error)
	Remove(ctx context.Context, key int) error
	List(ctx context.Context) ([]types.Student, error)
	ListByKey(ctx context.Context) ([]types.Student, error)
	PayFee(ctx context.Context, key int, amount decimal.Decimal) (types.Student, error)
}

// StudentsHandler handles /students requests.
type StudentsHandler struct {
	deps StudentDependencies
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(deps StudentDependencies) *StudentsHandler {
	return &StudentsHandler{deps: deps}
}

// HandleCreate handles POST /students.
func (h *StudentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_student"
	var in types.StudentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, op, err)
		return
	}
	student, err := h.deps.Add(r.Context(), in)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/students/%d", student.Key))
	writeJSON(w, http.StatusCreated, student)
}

// HandleList handles GET /students. ?order=key lists by ascending key
// instead of stored order.
func (h *StudentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_students"
	var (
		students []types.Student
		err      error
	)
	switch order := r.URL.Query().Get("order"); order {
	case "", "stored":
		students, err = h.deps.List(r.Context())
	case "key":
		students, err = h.deps.ListByKey(r.Context())
	default:
		err = fmt.Errorf("%w: order %q", ErrBadRequest, order)
	}
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// HandleGet handles GET /students/{key}.
func (h *StudentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_student"
	key, err := pathKey(r)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	student, err := h.deps.Find(r.Context(), key)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// HandleReplace handles PUT /students/{key}. A key in the body, if any,
// must match the path.
func (h *StudentsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_student"
	key, err := pathKey(r)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	var in types.StudentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, op, err)
		return
	}
	if in.Key != 0 && in.Key != key {
		writeFailure(w, op, fmt.Errorf("%w: body key %d does not match path key %d", ErrBadRequest, in.Key, key))
		return
	}
	in.Key = key

	student, err := h.deps.Replace(r.Context(), in)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// HandleDelete handles DELETE /students/{key}.
func (h *StudentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_student"
	key, err := pathKey(r)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if err := h.deps.Remove(r.Context(), key); err != nil {
		writeFailure(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePayFee handles POST /students/{key}/fees with {"amount": "..."}.
func (h *StudentsHandler) HandlePayFee(w http.ResponseWriter, r *http.Request) {
	const op = "api.pay_fee"
	key, err := pathKey(r)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	student, err := h.deps.PayFee(r.Context(), key, req.Amount)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}
