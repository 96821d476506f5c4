package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/Sima922/clouds-pos/pkg/apperr"
)

func TestClassifyTransientCodes(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		err := Classify(&pq.Error{Code: pq.ErrorCode(code), Message: "contention"})
		assert.True(t, apperr.IsTransient(err), "code %s must classify as transient", code)
	}
}

func TestClassifyFatalCodesPassThrough(t *testing.T) {
	fatal := &pq.Error{Code: "23505", Message: "duplicate key"}
	err := Classify(fatal)

	assert.False(t, apperr.IsTransient(err))
	assert.ErrorIs(t, err, fatal)
}

func TestClassifyNonDriverErrors(t *testing.T) {
	plain := errors.New("connection refused")

	assert.ErrorIs(t, Classify(plain), plain)
	assert.NoError(t, Classify(nil))
}

func TestClassifySeesWrappedDriverErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to decrement stock: %w", &pq.Error{Code: "40P01"})

	assert.True(t, apperr.IsTransient(Classify(wrapped)))
}

func TestConstraintPredicates(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))

	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete: %w", &pq.Error{Code: "23503"})))
	assert.False(t, IsForeignKeyViolation(errors.New("nope")))
}
