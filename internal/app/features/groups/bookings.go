// internal/app/features/groups/bookings.go
package groups

import (
	"net/http"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/formation"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// bookingRequest carries either one day's window or a whole week.
//
//	{"memberId":"s1","day":"monday","startTime":3,"endTime":5}
//	{"memberId":"s1","week":{"monday":{"startTime":3,"endTime":5}}}
type bookingRequest struct {
	MemberID  string       `json:"memberId"`
	Day       string       `json:"day"`
	StartTime *int         `json:"startTime"`
	EndTime   *int         `json:"endTime"`
	Week      *models.Week `json:"week"`
}

// HandleRecordBooking handles POST /groups/{id}/bookings.
func (h *Handler) HandleRecordBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decode(w, r, &req); err != nil {
		h.Err.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "record booking")
	defer cancel()

	id := chi.URLParam(r, "id")
	var (
		res formation.BookingResult
		err error
	)
	switch {
	case req.Week != nil && req.Day == "":
		res, err = h.Svc.RecordWeek(ctx, id, req.MemberID, *req.Week)
	case req.Week == nil && req.Day != "" && req.StartTime != nil && req.EndTime != nil:
		slot := models.TimeSlot{StartTime: *req.StartTime, EndTime: *req.EndTime}
		res, err = h.Svc.RecordBooking(ctx, id, req.MemberID, req.Day, slot)
	default:
		err = apperr.Invalid("send either day with startTime and endTime, or week")
	}
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

// ServeBookings handles GET /groups/{id}/bookings.
func (h *Handler) ServeBookings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list bookings")
	defer cancel()

	list, err := h.Svc.Bookings(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.Err.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}
