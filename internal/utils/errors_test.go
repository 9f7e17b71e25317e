package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("bad").StatusCode)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("missing").StatusCode)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("boom").StatusCode)
}

func TestWrapInternalErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapInternalError("Failed to save", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to save: disk full", err.Error())

	var appErr *AppError
	assert.True(t, errors.As(error(err), &appErr))
	assert.Equal(t, "Failed to save", appErr.Message)
}
