// Package handler implements the HTTP surface: auth, professor CRUD and
// reservation CRUD. Handlers bind request DTOs, delegate to services
// and map typed errors onto HTTP statuses; they contain no scheduling
// logic themselves.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unilab/lab-reservation-api/internal/apperr"
)

// respondError renders a typed error as JSON with the status its kind
// maps to. Untyped errors come out as a generic 500 so internals never
// leak to clients.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	return c.JSON(kind.HTTPStatus(), echo.Map{
		"message":    apperr.MessageOf(err),
		"error_type": string(kind),
	})
}

// errUnauthenticated is returned by professorID when the middleware did
// not leave a usable identity in the context.
var errUnauthenticated = errors.New("no authenticated professor in context")

// professorID extracts the authenticated professor's ID stored by the
// JWT middleware. JWT numeric claims decode as float64; tokens from
// other issuers may carry the subject as a string.
func professorID(c echo.Context) (uint64, error) {
	switch t := c.Get("professor_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errUnauthenticated
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}
