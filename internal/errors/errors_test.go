package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error in field 'url': URL is required", NewValidationError("url", "URL is required").Error())
	assert.Equal(t, "validation error: bad input", NewValidationError("", "bad input").Error())
}

func TestGetValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError("expires_at", "must be in the future"))

	assert.True(t, IsValidationError(err))
	validationErr := GetValidationError(err)
	require.NotNil(t, validationErr)
	assert.Equal(t, "expires_at", validationErr.Field)

	assert.Nil(t, GetValidationError(ErrURLNotFound))
}

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("list: %w", NewDatabaseError("failed to list URLs", cause))

	businessErr := GetBusinessError(err)
	require.NotNil(t, businessErr)
	assert.Equal(t, "DATABASE_ERROR", businessErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to list URLs: connection reset", businessErr.Error())
}

func TestShortCodeGenerationError(t *testing.T) {
	businessErr := GetBusinessError(ErrShortCodeGeneration)
	require.NotNil(t, businessErr)
	assert.Equal(t, "SHORT_CODE_GENERATION", businessErr.Code)
	assert.Nil(t, errors.Unwrap(ErrShortCodeGeneration))
}
