package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationf(t *testing.T) {
	err := Validationf("quantity must be positive, got %d", -1)

	assert.True(t, IsValidation(err))
	assert.Equal(t, "quantity must be positive, got -1", err.Error())
	assert.False(t, IsTransient(err))
	assert.False(t, IsNotFound(err))
}

func TestNotFound(t *testing.T) {
	err := NotFound("product", "p1")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "product p1 not found", err.Error())
}

func TestTransientWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Transient(cause)

	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)
}

func TestTransientNil(t *testing.T) {
	assert.NoError(t, Transient(nil))
}

func TestTransientSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("retries exhausted after 5 attempts: %w", Transient(errors.New("busy")))

	assert.True(t, IsTransient(err))
}

func TestConflictf(t *testing.T) {
	err := Conflictf("product %s is referenced by completed orders", "p1")

	assert.True(t, IsConflict(err))
	assert.False(t, IsValidation(err))
}

func TestKindsDoNotOverlap(t *testing.T) {
	assert.False(t, IsValidation(ErrForbidden))
	assert.False(t, IsNotFound(ErrForbidden))
	assert.False(t, IsTransient(ErrForbidden))
	assert.False(t, IsConflict(ErrForbidden))
}
