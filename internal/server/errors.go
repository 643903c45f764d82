package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/pipeline"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Not-found is a distinct user-facing category: the id is gone and
// retrying cannot bring it back. A still-running job is a conflict: the
// same request succeeds once the run finishes.
func HTTPStatus(err error) int {
	var notFound *store.NotFoundError
	var notReady *pipeline.NotReadyError
	var validation *ErrValidation
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &notReady):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
