package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestCloneMatchesTemplate(t *testing.T) {
	err := Clone(ErrNotFound, "nominee 4 not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "nominee 4 not found", err.Error())
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorKeepsTyped(t *testing.T) {
	wrapped := Wrap(sql.ErrNoRows, ErrNotFound.Code, ErrNotFound.Status, "missing")
	assert.Same(t, wrapped, FromError(wrapped))
}

func TestFromErrorMapsDeadlineAndNoRows(t *testing.T) {
	timeout := FromError(fmt.Errorf("load totals: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, timeout.Status)

	missing := FromError(fmt.Errorf("find nominee: %w", sql.ErrNoRows))
	assert.True(t, errors.Is(missing, ErrNotFound))
}

func TestWithFieldsCopies(t *testing.T) {
	err := ErrValidation.WithFields(map[string]string{"score": "Score must be at most 5"})
	assert.Equal(t, "Score must be at most 5", err.Fields["score"])
	assert.Nil(t, ErrValidation.Fields)
}
