package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsParsableAndOrdered(t *testing.T) {
	prev := New()
	_, err := ulid.ParseStrict(prev)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		next := New()
		assert.Less(t, prev, next)
		prev = next
	}
}
