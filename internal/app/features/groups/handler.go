// internal/app/features/groups/handler.go
package groups

import (
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/formation"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	Svc *formation.Service
	Err *uierrors.ErrorLogger
	Log *zap.Logger

	// CalendarLocation is the zone booking hours are read in when exporting
	// a schedule. Nil means UTC.
	CalendarLocation *time.Location
	// BaseURL links calendar events back to the group; optional.
	BaseURL string
}

// NewHandler constructs a groups Handler. It is called from the bootstrap
// BuildHandler function once the orchestrator is wired.
func NewHandler(svc *formation.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Err: errLog,
		Log: logger,
	}
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("invalid JSON body: %v", err)
	}
	return nil
}
