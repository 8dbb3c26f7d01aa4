package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSet(t *testing.T) {
	s := NewMemoryStore(10)

	_, ok := s.Get("customer:1")
	assert.False(t, ok)

	s.Set("customer:1", "Juan Dela Cruz")
	v, ok := s.Get("customer:1")
	require.True(t, ok)
	assert.Equal(t, "Juan Dela Cruz", v)

	// Overwrite does not grow the store
	s.Set("customer:1", "Juan D. Cruz")
	v, _ = s.Get("customer:1")
	assert.Equal(t, "Juan D. Cruz", v)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreBounded(t *testing.T) {
	s := NewMemoryStore(5)
	for i := 0; i < 50; i++ {
		s.Set(fmt.Sprintf("branch:%d", i), "Branch")
	}
	assert.LessOrEqual(t, s.Len(), 5)
}
