package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdminChecker(t *testing.T) {
	_, err := NewAdminChecker(0)
	assert.Error(t, err)

	ac, err := NewAdminChecker(-100123)
	require.NoError(t, err)
	assert.Equal(t, int64(-100123), ac.AdminID())
}

func TestIsAdmin(t *testing.T) {
	ac, err := NewAdminChecker(42)
	require.NoError(t, err)

	ok, err := ac.IsAdmin(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ac.IsAdmin(context.Background(), 43)
	require.NoError(t, err)
	assert.False(t, ok)
}
