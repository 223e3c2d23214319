package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantsSurviveWrapping(t *testing.T) {
	v := fmt.Errorf("create: %w", &ValidationError{Message: "first_name cannot be null", Type: TypeNotNull, Path: "first_name"})
	nf := fmt.Errorf("update: %w", NewNotFound("customer", 42))
	st := NewStore("list customers", errors.New("connection refused"))

	assert.True(t, IsValidation(v))
	assert.False(t, IsNotFound(v))

	assert.True(t, IsNotFound(nf))
	assert.Equal(t, "update: customer 42 not found", nf.Error())

	assert.False(t, IsValidation(st))
	assert.EqualError(t, errors.Unwrap(st), "connection refused")
	assert.Equal(t, "list customers: connection refused", st.Error())
}
