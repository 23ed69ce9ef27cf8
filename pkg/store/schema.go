package store

import "fmt"

// IndexSchema declares a secondary index: an alternate partition/sort key
// projection of the same table. Rows missing the index partition attribute
// are simply absent from the index (sparse index).
type IndexSchema struct {
	Name         string
	PartitionKey string
	SortKey      string
	// Projection limits which attributes are copied into index rows; nil
	// copies everything.
	Projection []string
}

// TableSchema declares a table's key attributes and indexes. A table with
// an empty SortKey holds singleton rows keyed by partition only.
type TableSchema struct {
	Name         string
	PartitionKey string
	SortKey      string
	Indexes      []IndexSchema
}

func (t TableSchema) index(name string) (IndexSchema, error) {
	for _, ix := range t.Indexes {
		if ix.Name == name {
			return ix, nil
		}
	}
	return IndexSchema{}, fmt.Errorf("table %s has no index %s", t.Name, name)
}

// Table and index names. The full layout is declared here, the way the
// original deployment declared its tables in one stack definition.
const (
	NotesTable    = "notes"
	LikesTable    = "likes"
	CommentsTable = "comments"
	CountsTable   = "counts"
	UsersTable    = "users"
	ProblemsTable = "problems"
	ContestsTable = "contests"

	NotesPlatformIndex = "notes-platform"
	NotesContestIndex  = "notes-contest"
	NotesProblemIndex  = "notes-problem"
	NotesRecentIndex   = "notes-recent"
	CommentsCommonIndex = "comments-common"
)

var noteListProjection = []string{
	"username", "sk", "title", "solvedState", "published",
	"problemName", "problemCode", "contestName", "contestCode",
	"likeCount", "editedTime", "activityTime",
}

var tables = map[string]TableSchema{
	NotesTable: {
		Name:         NotesTable,
		PartitionKey: "username",
		SortKey:      "sk",
		Indexes: []IndexSchema{
			{Name: NotesPlatformIndex, PartitionKey: "platformKey", SortKey: "activityTime", Projection: noteListProjection},
			{Name: NotesContestIndex, PartitionKey: "contestKey", SortKey: "activityTime", Projection: noteListProjection},
			{Name: NotesProblemIndex, PartitionKey: "problemKey", SortKey: "activityTime", Projection: noteListProjection},
			{Name: NotesRecentIndex, PartitionKey: "publishedKey", SortKey: "activityTime", Projection: noteListProjection},
		},
	},
	LikesTable: {
		Name:         LikesTable,
		PartitionKey: "pk",
		SortKey:      "username",
	},
	CommentsTable: {
		Name:         CommentsTable,
		PartitionKey: "commentId",
		Indexes: []IndexSchema{
			{Name: CommentsCommonIndex, PartitionKey: "commonIndexPk", SortKey: "commonIndexSk"},
		},
	},
	CountsTable: {
		Name:         CountsTable,
		PartitionKey: "countType",
		SortKey:      "sk",
	},
	UsersTable: {
		Name:         UsersTable,
		PartitionKey: "username",
	},
	ProblemsTable: {
		Name:         ProblemsTable,
		PartitionKey: "platform",
		SortKey:      "sk",
	},
	ContestsTable: {
		Name:         ContestsTable,
		PartitionKey: "platform",
		SortKey:      "sk",
	},
}

func schemaOf(table string) (TableSchema, error) {
	s, ok := tables[table]
	if !ok {
		return TableSchema{}, fmt.Errorf("unknown table %q", table)
	}
	return s, nil
}
