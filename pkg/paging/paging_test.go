package paging_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/catalog"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/notes"
	"cpnotes/pkg/paging"
	"cpnotes/pkg/store"
)

var problemCodes = []string{"A", "B", "C", "D", "E", "F", "G"}

func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	auth.Init("test-secret")

	require.NoError(t, catalog.PutContest("CodeForces", "00001500", "Educational Round 99"))
	for _, code := range problemCodes {
		require.NoError(t, catalog.PutProblem("CodeForces", "00001500#"+code, "Problem "+code, "", "easy"))
	}

	alice, err := auth.Sign("alice", time.Minute)
	require.NoError(t, err)
	for i, code := range problemCodes {
		published := i < 6 // G stays a draft
		require.NoError(t, notes.AddOrEdit("alice", "CodeForces", "1500#"+code,
			fmt.Sprintf("note %s", code), 0, "c", published, false, alice))
		time.Sleep(2 * time.Millisecond)
	}
}

func TestGlobalListingPages(t *testing.T) {
	setup(t)

	page, err := paging.ListPage(paging.Scope{}, 1, 4)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Notes, 4)

	// newest activity first: G was never published, so F leads
	require.Equal(t, "note F", page.Notes[0].Title)

	page2, err := paging.ListPage(paging.Scope{}, 2, 4)
	require.NoError(t, err)
	require.Len(t, page2.Notes, 2)
	require.Equal(t, "note A", page2.Notes[1].Title)
}

func TestPageOutOfRange(t *testing.T) {
	setup(t)

	_, err := paging.ListPage(paging.Scope{}, 3, 4)
	require.ErrorIs(t, err, errs.ErrPageNotFound)
	_, err = paging.ListPage(paging.Scope{}, 0, 4)
	require.ErrorIs(t, err, errs.ErrPageNotFound)
}

func TestFilterWithoutPlatformRejected(t *testing.T) {
	setup(t)

	_, err := paging.ListPage(paging.Scope{ContestID: "1500"}, 1, 4)
	require.Equal(t, errs.KindBadInput, errs.KindOf(err))
	_, err = paging.ListPage(paging.Scope{ProblemID: "1500#B"}, 1, 4)
	require.Equal(t, errs.KindBadInput, errs.KindOf(err))
}

func TestEmptyScopeHasOneEmptyPage(t *testing.T) {
	setup(t)

	page, err := paging.ListPage(paging.Scope{Platform: "AtCoder"}, 1, 4)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalPages)
	require.Empty(t, page.Notes)

	_, err = paging.ListPage(paging.Scope{Platform: "AtCoder"}, 2, 4)
	require.ErrorIs(t, err, errs.ErrPageNotFound)
}

func TestScopedListings(t *testing.T) {
	setup(t)

	platform, err := paging.ListPage(paging.Scope{Platform: "CodeForces"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, platform.Notes, 6)

	contest, err := paging.ListPage(paging.Scope{Platform: "CodeForces", ContestID: "1500"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, contest.Notes, 6)

	problem, err := paging.ListPage(paging.Scope{Platform: "CodeForces", ProblemID: "1500#B"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, problem.Notes, 1)
	require.Equal(t, "note B", problem.Notes[0].Title)
}

func TestListingsExcludeDrafts(t *testing.T) {
	setup(t)

	page, err := paging.ListPage(paging.Scope{Platform: "CodeForces"}, 1, 10)
	require.NoError(t, err)
	for _, n := range page.Notes {
		require.True(t, n.Published)
		require.NotEqual(t, "note G", n.Title)
	}
}

func TestListingsOmitContent(t *testing.T) {
	setup(t)

	page, err := paging.ListPage(paging.Scope{}, 1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, page.Notes)
	for _, n := range page.Notes {
		require.Empty(t, n.Content)
	}
}
