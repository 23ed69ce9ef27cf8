package counts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/store"
)

func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
}

func TestGetDefaultsToZero(t *testing.T) {
	openTestDB(t)

	n, err := Get(PublishedNotes, "CodeForces")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUpdateInsertsThenAdds(t *testing.T) {
	openTestDB(t)

	require.NoError(t, Update(PublishedNotes, "CodeForces", 1))
	require.NoError(t, Update(PublishedNotes, "CodeForces", 1))
	require.NoError(t, Update(PublishedNotes, "CodeForces", -1))

	n, err := Get(PublishedNotes, "CodeForces")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestUpdateHierarchyTouchesEveryLevel(t *testing.T) {
	openTestDB(t)

	scope := "CodeForces#00001500#A"
	require.NoError(t, UpdateHierarchy(PublishedNotes, scope, 1))

	for _, level := range []string{"CodeForces#00001500#A", "CodeForces#00001500", "CodeForces", "!"} {
		n, err := Get(PublishedNotes, level)
		require.NoError(t, err)
		require.Equal(t, int64(1), n, "scope %s", level)
	}

	// reversal leaves every level at zero
	require.NoError(t, UpdateHierarchy(PublishedNotes, scope, -1))
	for _, level := range []string{"CodeForces#00001500#A", "CodeForces#00001500", "CodeForces", "!"} {
		n, err := Get(PublishedNotes, level)
		require.NoError(t, err)
		require.Zero(t, n, "scope %s", level)
	}
}

func TestHierarchiesDoNotCrossPlatforms(t *testing.T) {
	openTestDB(t)

	require.NoError(t, UpdateHierarchy(PublishedNotes, "CodeForces#00001500#A", 1))
	require.NoError(t, UpdateHierarchy(PublishedNotes, "AtCoder#00000123@abc123#A", 1))

	n, err := Get(PublishedNotes, "CodeForces")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = Get(PublishedNotes, "!")
	require.NoError(t, err)
	require.Equal(t, int64(2), n, "the global sentinel aggregates across platforms")
}
