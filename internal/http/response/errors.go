package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
)

// RespondForError maps the engine's error taxonomy to HTTP statuses.
func RespondForError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidAction):
		RespondError(c, http.StatusBadRequest, "invalid_action", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrStorageUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "storage_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
