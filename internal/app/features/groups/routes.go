// internal/app/features/groups/routes.go
package groups

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted at /groups.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// CREATE / MATCHMAKE
	r.Post("/", h.HandleCreateGroup)
	r.Post("/matchmake", h.HandleMatchmake)

	// VIEW
	r.Get("/{id}", h.ServeGroup)
	r.Get("/{id}/members", h.ServeMembers)
	r.Get("/{id}/calendar.ics", h.ServeCalendar)

	// JOIN
	r.Post("/{id}/join", h.HandleJoinGroup)

	// BOOKINGS
	r.Get("/{id}/bookings", h.ServeBookings)
	r.Post("/{id}/bookings", h.HandleRecordBooking)

	return r
}

// AssignmentRoutes returns the router mounted at /assignments.
func AssignmentRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}/groups", h.ServeAssignmentGroups)
	return r
}
