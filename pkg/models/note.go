package models

import (
	"fmt"

	"cpnotes/pkg/keys"
	"cpnotes/pkg/store"
)

// Note is the aggregate root record. Problem and contest display data is
// denormalized into the row so listings never join against the catalog,
// and the publish-prefixed index partition keys are precomputed on every
// write.
type Note struct {
	Username    string `json:"username"`
	NoteID      string `json:"noteId"` // platform#problemId, stored form
	Title       string `json:"title"`
	SolvedState int64  `json:"solvedState"`
	Content     string `json:"content,omitempty"`
	Published   bool   `json:"published"`

	ProblemName string `json:"problemName"`
	ProblemCode string `json:"problemCode"`
	ContestName string `json:"contestName"`
	ContestCode string `json:"contestCode"`
	Link        string `json:"link,omitempty"`

	LikeCount    int64  `json:"likeCount"`
	EditedTime   string `json:"editedTime"`
	ActivityTime string `json:"activityTime"`
}

// Platform returns the platform segment of the note id.
func (n Note) Platform() string {
	for i := 0; i < len(n.NoteID); i++ {
		if n.NoteID[i] == '#' {
			return n.NoteID[:i]
		}
	}
	return n.NoteID
}

// DBProblemID returns the stored problem id segment of the note id.
func (n Note) DBProblemID() string {
	for i := 0; i < len(n.NoteID); i++ {
		if n.NoteID[i] == '#' {
			return n.NoteID[i+1:]
		}
	}
	return ""
}

// ToRecord flattens the note into its stored shape, including the
// publish-prefixed secondary index partition keys.
func (n Note) ToRecord() store.Record {
	published := int64(0)
	if n.Published {
		published = 1
	}
	platform := n.Platform()
	dbProblemID := n.DBProblemID()
	contestKey := dbProblemID
	if i := lastIndexByte(dbProblemID, '#'); i >= 0 {
		contestKey = dbProblemID[:i]
	}
	return store.Record{
		"username":    n.Username,
		"sk":          n.NoteID,
		"title":       n.Title,
		"solvedState": n.SolvedState,
		"content":     n.Content,
		"published":   published,

		"problemName": n.ProblemName,
		"problemCode": n.ProblemCode,
		"contestName": n.ContestName,
		"contestCode": n.ContestCode,
		"link":        n.Link,

		"likeCount":    n.LikeCount,
		"editedTime":   n.EditedTime,
		"activityTime": n.ActivityTime,

		"platformKey":  keys.IndexPartition(n.Published, platform),
		"contestKey":   keys.IndexPartition(n.Published, platform+keys.FieldSep+contestKey),
		"problemKey":   keys.IndexPartition(n.Published, platform+keys.FieldSep+dbProblemID),
		"publishedKey": keys.PublishedPrefix(n.Published),
	}
}

// NoteFromRecord rebuilds a note from its stored shape.
func NoteFromRecord(rec store.Record) (Note, error) {
	if rec.String("username") == "" || rec.String("sk") == "" {
		return Note{}, fmt.Errorf("note record missing key attributes")
	}
	return Note{
		Username:     rec.String("username"),
		NoteID:       rec.String("sk"),
		Title:        rec.String("title"),
		SolvedState:  rec.Int("solvedState"),
		Content:      rec.String("content"),
		Published:    rec.Int("published") != 0,
		ProblemName:  rec.String("problemName"),
		ProblemCode:  rec.String("problemCode"),
		ContestName:  rec.String("contestName"),
		ContestCode:  rec.String("contestCode"),
		Link:         rec.String("link"),
		LikeCount:    rec.Int("likeCount"),
		EditedTime:   rec.String("editedTime"),
		ActivityTime: rec.String("activityTime"),
	}, nil
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}
