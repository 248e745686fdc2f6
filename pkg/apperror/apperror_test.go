package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("panjar request not found")))
	assert.Equal(t, http.StatusForbidden, StatusOf(Forbidden("not a verifier")))
	assert.Equal(t, http.StatusConflict, StatusOf(Conflict("budget exhausted")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(Unprocessable("bad id")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("db down")))
}

func TestStatusOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading request: %w", NotFound("panjar request not found"))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}

func TestMessageFormatting(t *testing.T) {
	err := Conflict("cannot move request from '%s' to '%s'", "pending", "approved")
	assert.Equal(t, "cannot move request from 'pending' to 'approved'", err.Error())
}
