package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, Close()) })
}

func noteRecord(user, sk, activity string, published bool) Record {
	pub := int64(0)
	pubPrefix := "0"
	if published {
		pub = 1
		pubPrefix = "1"
	}
	return Record{
		"username":     user,
		"sk":           sk,
		"title":        "t",
		"published":    pub,
		"likeCount":    int64(0),
		"activityTime": activity,
		"platformKey":  pubPrefix + "#CodeForces",
		"publishedKey": pubPrefix,
	}
}

func TestInsertIfAbsentDuplicateIsNotAnError(t *testing.T) {
	openTestDB(t)

	rec := noteRecord("alice", "CodeForces#00000001#A", "2024-01-01T00:00:00.000Z", true)
	inserted, err := InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)
	require.False(t, inserted, "duplicate insert must report a failed precondition, not an error")
}

func TestQueryByKeyExactAndPrefix(t *testing.T) {
	openTestDB(t)

	for i, sk := range []string{"CodeForces#00000001#A", "CodeForces#00000001#B", "AtCoder#00000009#A"} {
		rec := noteRecord("alice", sk, fmt.Sprintf("2024-01-01T00:00:0%d.000Z", i), true)
		_, err := InsertIfAbsent(NotesTable, rec)
		require.NoError(t, err)
	}

	rows, err := QueryByKey(NotesTable, "alice", "CodeForces#00000001#A", true)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = QueryByKey(NotesTable, "alice", "CodeForces#", false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = QueryByKey(NotesTable, "alice", "TopCoder#", false)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestUpdateAdditiveUpsertsFromZeroBaseline(t *testing.T) {
	openTestDB(t)

	prev, applied, err := UpdateAdditive(CountsTable, "NOTES", "CodeForces", map[string]int64{"count": 3}, UpdateOptions{})
	require.NoError(t, err)
	require.True(t, applied)
	require.Nil(t, prev, "fresh counter has no previous record")

	prev, applied, err = UpdateAdditive(CountsTable, "NOTES", "CodeForces", map[string]int64{"count": -1}, UpdateOptions{})
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, int64(3), prev.Int("count"))

	rec, err := GetItem(CountsTable, "NOTES", "CodeForces")
	require.NoError(t, err)
	require.Equal(t, int64(2), rec.Int("count"))
}

func TestUpdateRequireExistsIsTriState(t *testing.T) {
	openTestDB(t)

	prev, applied, err := UpdateSet(NotesTable, "alice", "CodeForces#00000001#A",
		Record{"title": "x"}, UpdateOptions{RequireExists: true})
	require.NoError(t, err, "missing item is a precondition outcome, not a fault")
	require.False(t, applied)
	require.Nil(t, prev)

	rec := noteRecord("alice", "CodeForces#00000001#A", "2024-01-01T00:00:00.000Z", true)
	_, err = InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)

	prev, applied, err = UpdateSet(NotesTable, "alice", "CodeForces#00000001#A",
		Record{"title": "x"}, UpdateOptions{RequireExists: true})
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, "t", prev.String("title"))
}

func TestUpdateEqualityCondition(t *testing.T) {
	openTestDB(t)

	rec := noteRecord("alice", "CodeForces#00000001#A", "2024-01-01T00:00:00.000Z", true)
	_, err := InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)

	_, applied, err := UpdateSet(NotesTable, "alice", "CodeForces#00000001#A",
		Record{"title": "y"},
		UpdateOptions{RequireExists: true, Condition: map[string]any{"published": 0}})
	require.NoError(t, err)
	require.False(t, applied)

	_, applied, err = UpdateSet(NotesTable, "alice", "CodeForces#00000001#A",
		Record{"title": "y"},
		UpdateOptions{RequireExists: true, Condition: map[string]any{"published": 1}})
	require.NoError(t, err)
	require.True(t, applied)
}

func TestSecondaryIndexFollowsUpdates(t *testing.T) {
	openTestDB(t)

	rec := noteRecord("alice", "CodeForces#00000001#A", "2024-01-01T00:00:00.000Z", false)
	_, err := InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)

	rows, err := QueryByPartition(NotesTable, "0#CodeForces", QueryOptions{Index: NotesPlatformIndex})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// flip the publish flag; the item must move between index partitions
	_, applied, err := UpdateSet(NotesTable, "alice", "CodeForces#00000001#A",
		Record{"published": int64(1), "platformKey": "1#CodeForces", "publishedKey": "1"},
		UpdateOptions{RequireExists: true})
	require.NoError(t, err)
	require.True(t, applied)

	rows, err = QueryByPartition(NotesTable, "0#CodeForces", QueryOptions{Index: NotesPlatformIndex})
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = QueryByPartition(NotesTable, "1#CodeForces", QueryOptions{Index: NotesPlatformIndex})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alice", rows[0].String("username"))
}

func TestIndexProjectionDropsUnlistedAttributes(t *testing.T) {
	openTestDB(t)

	rec := noteRecord("alice", "CodeForces#00000001#A", "2024-01-01T00:00:00.000Z", true)
	rec["content"] = "secret body"
	_, err := InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)

	rows, err := QueryByPartition(NotesTable, "1#CodeForces", QueryOptions{Index: NotesPlatformIndex})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].Has("content"), "content is not projected into listing indexes")
}

func TestDeleteRecordReturnsPrevious(t *testing.T) {
	openTestDB(t)

	rec := noteRecord("alice", "CodeForces#00000001#A", "2024-01-01T00:00:00.000Z", true)
	_, err := InsertIfAbsent(NotesTable, rec)
	require.NoError(t, err)

	prev, err := DeleteRecord(NotesTable, "alice", "CodeForces#00000001#A")
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.Equal(t, "t", prev.String("title"))

	prev, err = DeleteRecord(NotesTable, "alice", "CodeForces#00000001#A")
	require.NoError(t, err)
	require.Nil(t, prev)

	rows, err := QueryByPartition(NotesTable, "1#CodeForces", QueryOptions{Index: NotesPlatformIndex})
	require.NoError(t, err)
	require.Empty(t, rows, "index rows are removed with the record")
}

func TestPageAtOffset(t *testing.T) {
	openTestDB(t)

	for i := 0; i < 7; i++ {
		rec := Record{"pk": "NOTE#alice#CodeForces#00000001#A#LIKE", "username": fmt.Sprintf("voter%02d", i)}
		_, err := InsertIfAbsent(LikesTable, rec)
		require.NoError(t, err)
	}

	page1, err := PageAtOffset(LikesTable, "NOTE#alice#CodeForces#00000001#A#LIKE", 1, 3, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.Equal(t, "voter00", page1[0].String("username"))

	page3, err := PageAtOffset(LikesTable, "NOTE#alice#CodeForces#00000001#A#LIKE", 3, 3, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, page3, 1)
	require.Equal(t, "voter06", page3[0].String("username"))

	page4, err := PageAtOffset(LikesTable, "NOTE#alice#CodeForces#00000001#A#LIKE", 4, 3, QueryOptions{})
	require.NoError(t, err)
	require.Empty(t, page4)
}

func TestDeleteAllUnderPartition(t *testing.T) {
	openTestDB(t)

	for i := 0; i < 60; i++ {
		rec := Record{"pk": "NOTE#alice#CodeForces#00000001#A#LIKE", "username": fmt.Sprintf("voter%03d", i)}
		_, err := InsertIfAbsent(LikesTable, rec)
		require.NoError(t, err)
	}
	_, err := InsertIfAbsent(LikesTable, Record{"pk": "NOTE#bob#CodeForces#00000001#A#LIKE", "username": "carol"})
	require.NoError(t, err)

	require.NoError(t, DeleteAllUnderPartition(LikesTable, "NOTE#alice#CodeForces#00000001#A#LIKE"))

	rows, err := QueryByPartition(LikesTable, "NOTE#alice#CodeForces#00000001#A#LIKE", QueryOptions{})
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = QueryByPartition(LikesTable, "NOTE#bob#CodeForces#00000001#A#LIKE", QueryOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1, "other partitions are untouched")
}
