package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedTokenGenerator_ReturnsSameToken(t *testing.T) {
	gen := NewFixedTokenGenerator("test-run-123")

	// Multiple calls return same token
	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
}

func TestFixedTokenGenerator_EmptyTokenDefault(t *testing.T) {
	gen := NewFixedTokenGenerator("")

	// Empty token uses default
	assert.Equal(t, "test-run-default", gen.Generate())
}

func TestFixedTokenGenerator_CustomToken(t *testing.T) {
	gen := NewFixedTokenGenerator("01234567-89ab-cdef-0123-456789abcdef")

	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", gen.Generate())
}

func TestFixedTokenGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedTokenGenerator("thread-safe-token")

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				token := gen.Generate()
				assert.Equal(t, "thread-safe-token", token)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
