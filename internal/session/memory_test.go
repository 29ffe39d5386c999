package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain"
)

func TestMemoryLifecycle(t *testing.T) {
	m := NewMemory()

	_, ok := m.Current()
	assert.False(t, ok)

	require.NoError(t, m.Start(domain.Identity{UserID: 1, Name: "Ann"}))
	id, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), id.UserID)
	assert.Equal(t, "Ann", id.Name)

	// a later Start replaces the prior identity
	require.NoError(t, m.Start(domain.Identity{UserID: 2, Name: "Bob"}))
	id, _ = m.Current()
	assert.Equal(t, int64(2), id.UserID)

	require.NoError(t, m.End())
	_, ok = m.Current()
	assert.False(t, ok)

	// End while anonymous is a no-op
	require.NoError(t, m.End())
	_, ok = m.Current()
	assert.False(t, ok)
}
