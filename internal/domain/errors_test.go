package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	assert.ErrorIs(t, ErrEmailAlreadyExists, ErrEmailAlreadyExists)
	assert.NotErrorIs(t, ErrEmailAlreadyExists, ErrInvalidToken)
}

func TestErrorIsSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load account abc: %w", ErrNotFound)

	assert.ErrorIs(t, wrapped, ErrNotFound)

	var domErr *Error
	assert.True(t, errors.As(wrapped, &domErr))
	assert.Equal(t, "1004", domErr.Code)
	assert.Equal(t, 404, domErr.Status)
}

func TestWithMessageKeepsIdentity(t *testing.T) {
	specific := ErrInvalidInput.WithMessage("field %q is required", "email")

	assert.ErrorIs(t, specific, ErrInvalidInput)
	assert.Equal(t, `field "email" is required`, specific.Message)
	assert.Equal(t, ErrInvalidInput.Code, specific.Code)
	assert.Equal(t, ErrInvalidInput.Status, specific.Status)
	// The original is untouched.
	assert.Equal(t, "Invalid input", ErrInvalidInput.Message)
}
