package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ramonehamilton/moba-draft/internal/api/response"
	"github.com/ramonehamilton/moba-draft/internal/draft"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrCharacterNotFound):
		response.NotFound(w, err)
	case errors.Is(err, draft.ErrInvalidSlot):
		response.BadRequest(w, err)
	case errors.Is(err, draft.ErrNoSelection), errors.Is(err, draft.ErrUnavailable):
		response.Conflict(w, err)
	default:
		response.InternalError(w, err)
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := v.Struct(dst); err != nil {
		response.BadRequest(w, validationError(err))
		return false
	}
	return true
}

// validationError flattens validator errors into one readable message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}
