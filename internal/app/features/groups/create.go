// internal/app/features/groups/create.go
package groups

import (
	"net/http"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/system/matchmaking"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type createRequest struct {
	AssignmentID string `json:"assignmentId"`
	StudentID    string `json:"studentId"`
}

// HandleCreateGroup handles POST /groups.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req); err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create group")
	defer cancel()

	g, err := h.Svc.CreateGroup(ctx, req.AssignmentID, req.StudentID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, g)
}

type joinRequest struct {
	StudentID    string `json:"studentId"`
	AssignmentID string `json:"assignmentId"`
}

// HandleJoinGroup handles POST /groups/{id}/join.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decode(w, r, &req); err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "join group")
	defer cancel()

	g, err := h.Svc.JoinGroup(ctx, req.StudentID, chi.URLParam(r, "id"), req.AssignmentID)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, g)
}

type matchmakeRequest struct {
	AssignmentID string `json:"assignmentId"`
	StudentID    string `json:"studentId"`
	Email        string `json:"email"`
}

// HandleMatchmake handles POST /groups/matchmake. A queued request answers
// 202; the request that completes a batch answers 201 with the new group.
func (h *Handler) HandleMatchmake(w http.ResponseWriter, r *http.Request) {
	var req matchmakeRequest
	if err := decode(w, r, &req); err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "matchmake")
	defer cancel()

	res, err := h.Svc.Matchmake(ctx, req.AssignmentID, req.StudentID, req.Email)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	status := http.StatusAccepted
	if res.Status == matchmaking.StatusGrouped {
		status = http.StatusCreated
	}
	uierrors.WriteJSON(w, status, res)
}
