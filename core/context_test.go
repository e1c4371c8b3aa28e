package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSuppressHeader tests header suppression defaults and propagation.
func TestSuppressHeader(t *testing.T) {
	t.Run("default shows headers", func(t *testing.T) {
		assert.False(t, shouldSuppressHeader(context.Background()))
	})

	t.Run("suppression set", func(t *testing.T) {
		ctx := WithSuppressHeader(context.Background())
		assert.True(t, shouldSuppressHeader(ctx))
	})

	t.Run("child contexts inherit suppression", func(t *testing.T) {
		parent := WithSuppressHeader(context.Background())
		child := context.WithValue(parent, contextKey("unrelated"), 1)
		assert.True(t, shouldSuppressHeader(child))
	})

	t.Run("base context stays unsuppressed", func(t *testing.T) {
		base := context.Background()
		_ = WithSuppressHeader(base)
		assert.False(t, shouldSuppressHeader(base))
	})
}
