package compat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/homestead/internal/version"
)

func TestNewRegistry_Empty(t *testing.T) {
	_, err := NewRegistry(nil)
	require.ErrorIs(t, err, ErrEmptyRegistry)

	_, err = NewRegistry([]Change{})
	require.ErrorIs(t, err, ErrEmptyRegistry)
}

func TestNewRegistry_Unsorted(t *testing.T) {
	_, err := NewRegistry([]Change{
		{Version: "0.0.30", Message: "first"},
		{Version: "0.0.26", Message: "out of order"},
	})
	require.Error(t, err)
	var unsorted *UnsortedRegistryError
	require.ErrorAs(t, err, &unsorted)
	require.Equal(t, 1, unsorted.Index)
	require.Equal(t, "0.0.30", unsorted.Prev)
	require.Equal(t, "0.0.26", unsorted.Next)
}

func TestNewRegistry_EqualAdjacentVersionsAllowed(t *testing.T) {
	reg, err := NewRegistry([]Change{
		{Version: "0.0.26", Message: "one"},
		{Version: "0.0.26", Message: "two shipped in the same release"},
		{Version: "0.0.30", Message: "three"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())
}

func TestNewRegistry_MalformedEntry(t *testing.T) {
	_, err := NewRegistry([]Change{
		{Version: "0.0.x!", Message: "broken"},
	})
	require.Error(t, err)
	var malformed *version.MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestRegistry_LatestVersion(t *testing.T) {
	reg := newTestRegistry(t)

	latest, err := reg.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, "0.0.41", latest)
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	reg := newTestRegistry(t)

	all := reg.All()
	all[0].Version = "9.9.9"

	again := reg.All()
	require.Equal(t, "0.0.26", again[0].Version, "mutating the copy must not affect the registry")
}
