// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	notificationstore "github.com/dalemusser/groupwork/internal/app/store/notifications"
	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxLimit caps the ?limit query parameter.
const maxLimit = 100

// Lister reads a recipient's notifications.
type Lister interface {
	ListForRecipient(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
}

// Handler serves a student's notification feed.
type Handler struct {
	Store Lister
	Err   *uierrors.ErrorLogger
	Log   *zap.Logger
}

func NewHandler(store Lister, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Err: errLog, Log: logger}
}

// ServeList handles GET /notifications/{userId}[?limit=n]. The newest
// notifications come first; the default page size is 25.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		h.Err.BadRequest(w, "userId is required")
		return
	}

	limit := int64(notificationstore.DefaultListLimit)
	if v := query.Get(r, "limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > maxLimit {
			h.Err.BadRequest(w, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list notifications")
	defer cancel()

	list, err := h.Store.ListForRecipient(ctx, userID, limit)
	if err != nil {
		h.Err.Write(w, r, apperr.Store("list notifications", err))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

// Routes returns the router mounted at /notifications.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{userId}", h.ServeList)
	return r
}
