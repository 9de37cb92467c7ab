package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, InvalidEmail.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, InvalidOperation.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, InvalidCredentials.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, DatabaseError.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Kind("BOGUS").HTTPStatus())
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(DatabaseError, "should vanish", nil))
}

func TestKindOfAndMessageOf(t *testing.T) {
	err := New(NotFound, "reservation not found")
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, "reservation not found", MessageOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.Equal(t, "reservation not found", MessageOf(wrapped))

	plain := errors.New("driver: bad connection")
	assert.Equal(t, DatabaseError, KindOf(plain))
	assert.Equal(t, "internal server error", MessageOf(plain))
}

func TestIsMatchesByKind(t *testing.T) {
	err := Wrap(InvalidOperation, "slot taken", errors.New("1062"))
	assert.True(t, errors.Is(err, &Error{Kind: InvalidOperation}))
	assert.False(t, errors.Is(err, &Error{Kind: NotFound}))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(DatabaseError, "failed to list", errors.New("timeout"))
	assert.Contains(t, err.Error(), "DATABASE_ERROR")
	assert.Contains(t, err.Error(), "timeout")
	assert.Equal(t, "timeout", errors.Unwrap(err).Error())
}
