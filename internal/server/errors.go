package server

import (
	"errors"
	"net/http"

	"github.com/skillforge/skillforge/internal/db"
	"github.com/skillforge/skillforge/internal/matching"
)

// ErrEmailAlreadyExists indicates a candidate email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "email already registered: " + e.Email
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Malformed identities map to 400 and are never conflated with 404.
func HTTPStatus(err error) int {
	var invalidID *db.InvalidIDError
	var emailExists *ErrEmailAlreadyExists
	switch {
	case errors.As(err, &invalidID):
		return http.StatusBadRequest
	case errors.Is(err, matching.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &emailExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
