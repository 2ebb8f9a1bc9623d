// internal/app/features/groups/view.go
package groups

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/system/calendar"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

// ServeGroup handles GET /groups/{id}.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get group")
	defer cancel()

	g, err := h.Svc.Group(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, g)
}

// ServeMembers handles GET /groups/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get members")
	defer cancel()

	m, err := h.Svc.Members(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m)
}

// ServeCalendar handles GET /groups/{id}/calendar.ics.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group calendar")
	defer cancel()

	id := chi.URLParam(r, "id")
	g, err := h.Svc.Group(ctx, id)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	opts := calendar.Options{Location: h.CalendarLocation, Now: time.Now()}
	if h.BaseURL != "" {
		opts.URL = h.BaseURL + "/groups/" + id
	}
	ics, err := calendar.Build(g, opts)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="group-`+id+`.ics"`)
	_, _ = w.Write([]byte(ics))
}

// ServeAssignmentGroups handles GET /assignments/{id}/groups[?open=true].
func (h *Handler) ServeAssignmentGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list assignment groups")
	defer cancel()

	openOnly := query.Get(r, "open") == "true"
	groups, err := h.Svc.AssignmentGroups(ctx, chi.URLParam(r, "id"), openOnly)
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, groups)
}
