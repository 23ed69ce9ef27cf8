package notes_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/catalog"
	"cpnotes/pkg/counts"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/likes"
	"cpnotes/pkg/notes"
	"cpnotes/pkg/store"
	"cpnotes/pkg/users"
)

func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	auth.Init("test-secret")

	require.NoError(t, catalog.PutContest("CodeForces", "00001500", "Educational Round 99"))
	require.NoError(t, catalog.PutProblem("CodeForces", "00001500#A", "Dominoes", "https://codeforces.com/contest/1500/problem/A", "easy"))
	require.NoError(t, catalog.PutProblem("CodeForces", "00001500#B", "Graph Coloring", "", "medium"))
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.Sign(username, time.Minute)
	require.NoError(t, err)
	return tok
}

func publishedCounts(t *testing.T) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for _, scope := range []string{"!", "CodeForces", "CodeForces#00001500", "CodeForces#00001500#A"} {
		n, err := counts.Get(counts.PublishedNotes, scope)
		require.NoError(t, err)
		out[scope] = n
	}
	return out
}

func TestPublishDefaultsTitleAndWalksCounters(t *testing.T) {
	setup(t)
	alice := token(t, "alice")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "", 2, "use a greedy pairing", true, false, alice))

	note, err := notes.Get("alice", "CodeForces", "1500#A", "")
	require.NoError(t, err)
	require.Equal(t, "Notes for Dominoes", note.Title)
	require.Equal(t, "Educational Round 99", note.ContestName)
	require.Zero(t, note.LikeCount)

	for scope, n := range publishedCounts(t) {
		require.Equal(t, int64(1), n, "scope %q", scope)
	}
}

func TestUnpublishedNoteHiddenFromOthers(t *testing.T) {
	setup(t)
	alice := token(t, "alice")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "draft", 0, "wip", false, false, alice))

	_, err := notes.Get("alice", "CodeForces", "1500#A", token(t, "bob"))
	require.ErrorIs(t, err, errs.ErrNoteNotFound)

	note, err := notes.Get("alice", "CodeForces", "1500#A", alice)
	require.NoError(t, err)
	require.Equal(t, "draft", note.Title)

	for scope, n := range publishedCounts(t) {
		require.Zero(t, n, "scope %q", scope)
	}
}

func TestPublishFlipAdjustsCounters(t *testing.T) {
	setup(t)
	alice := token(t, "alice")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "t", 0, "v1", true, false, alice))
	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "t", 0, "v2", false, true, alice))
	for scope, n := range publishedCounts(t) {
		require.Zero(t, n, "scope %q", scope)
	}

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "t", 0, "v3", true, true, alice))
	for scope, n := range publishedCounts(t) {
		require.Equal(t, int64(1), n, "scope %q", scope)
	}
}

func TestEditFallsBackToInsert(t *testing.T) {
	setup(t)
	alice := token(t, "alice")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#B", "t", 1, "content", true, true, alice))

	note, err := notes.Get("alice", "CodeForces", "1500#B", "")
	require.NoError(t, err)
	require.Equal(t, "t", note.Title)
	n, err := counts.Get(counts.PublishedNotes, "CodeForces#00001500#B")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestDuplicateCreateIsNoOp(t *testing.T) {
	setup(t)
	alice := token(t, "alice")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "first", 0, "v1", true, false, alice))
	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "second", 0, "v2", true, false, alice))

	note, err := notes.Get("alice", "CodeForces", "1500#A", "")
	require.NoError(t, err)
	require.Equal(t, "first", note.Title)
	n, err := counts.Get(counts.PublishedNotes, "!")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestUnknownProblemRejected(t *testing.T) {
	setup(t)
	alice := token(t, "alice")

	err := notes.AddOrEdit("alice", "CodeForces", "9999#Z", "", 0, "c", true, false, alice)
	require.ErrorIs(t, err, errs.ErrProblemNotFound)
}

func TestLikeLifecycleAndContribution(t *testing.T) {
	setup(t)
	alice := token(t, "alice")
	bob := token(t, "bob")
	carol := token(t, "carol")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "", 0, "c", true, false, alice))

	require.NoError(t, likes.SetLikedStatus("bob", "alice", "CodeForces", "1500#A", true, bob))
	require.NoError(t, likes.SetLikedStatus("carol", "alice", "CodeForces", "1500#A", true, carol))

	note, err := notes.Get("alice", "CodeForces", "1500#A", "")
	require.NoError(t, err)
	require.Equal(t, int64(2), note.LikeCount)
	contribution, err := users.GetContribution("alice")
	require.NoError(t, err)
	require.Equal(t, int64(8), contribution)

	// re-like is a no-op delta
	require.NoError(t, likes.SetLikedStatus("bob", "alice", "CodeForces", "1500#A", true, bob))
	note, err = notes.Get("alice", "CodeForces", "1500#A", "")
	require.NoError(t, err)
	require.Equal(t, int64(2), note.LikeCount)

	require.NoError(t, likes.SetLikedStatus("bob", "alice", "CodeForces", "1500#A", false, bob))
	note, err = notes.Get("alice", "CodeForces", "1500#A", "")
	require.NoError(t, err)
	require.Equal(t, int64(1), note.LikeCount)
	contribution, err = users.GetContribution("alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), contribution)

	status, err := likes.GetLikedStatus("carol", "alice", "CodeForces", "1500#A", carol)
	require.NoError(t, err)
	require.Equal(t, int64(1), status)
	status, err = likes.GetLikedStatus("bob", "alice", "CodeForces", "1500#A", bob)
	require.NoError(t, err)
	require.Zero(t, status)

	count, err := likes.LikeCount("alice", "CodeForces", "1500#A")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestLikeCountOnMissingNote(t *testing.T) {
	setup(t)

	_, err := likes.LikeCount("alice", "CodeForces", "1500#A")
	require.ErrorIs(t, err, errs.ErrNoteNotFound)
}

func TestDeleteUnwindsAggregates(t *testing.T) {
	setup(t)
	alice := token(t, "alice")
	bob := token(t, "bob")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "", 0, "c", true, false, alice))
	require.NoError(t, likes.SetLikedStatus("bob", "alice", "CodeForces", "1500#A", true, bob))

	require.NoError(t, notes.Delete("alice", "CodeForces", "1500#A", alice))

	_, err := notes.Get("alice", "CodeForces", "1500#A", alice)
	require.ErrorIs(t, err, errs.ErrNoteNotFound)
	for scope, n := range publishedCounts(t) {
		require.Zero(t, n, "scope %q", scope)
	}
	contribution, err := users.GetContribution("alice")
	require.NoError(t, err)
	require.Zero(t, contribution)

	rows, err := store.QueryByPartition(store.LikesTable,
		keys.LikeTarget("alice", "CodeForces", "00001500#A"), store.QueryOptions{})
	require.NoError(t, err)
	require.Empty(t, rows)

	// deleting again converges without error
	require.NoError(t, notes.Delete("alice", "CodeForces", "1500#A", alice))
}

func TestUpdateLikeCountOnMissingNote(t *testing.T) {
	setup(t)

	applied, err := notes.UpdateLikeCount("alice", "CodeForces", "00001500#A", 1)
	require.NoError(t, err)
	require.False(t, applied)
}

func TestLikeUnpublishedNoteRejected(t *testing.T) {
	setup(t)
	alice := token(t, "alice")
	bob := token(t, "bob")

	require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#A", "", 0, "c", false, false, alice))
	err := likes.SetLikedStatus("bob", "alice", "CodeForces", "1500#A", true, bob)
	require.ErrorIs(t, err, errs.ErrNoteNotFound)
}

func TestAddRequiresMatchingToken(t *testing.T) {
	setup(t)
	bob := token(t, "bob")

	err := notes.AddOrEdit("alice", "CodeForces", "1500#A", "", 0, "c", true, false, bob)
	require.ErrorIs(t, err, errs.ErrNotLoggedIn)
}
