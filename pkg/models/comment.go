package models

import (
	"fmt"

	"cpnotes/pkg/store"
)

// Comment is a row of a note's flat thread partition. Roots carry no
// RootID; replies point at their root and at the comment they answer.
type Comment struct {
	CommentID    string `json:"commentId"`
	CreationTime string `json:"creationTime"`
	Username     string `json:"username"`
	Content      string `json:"content"`
	LikeCount    int64  `json:"likeCount"`
	EditedTime   string `json:"editedTime,omitempty"`
	Deleted      bool   `json:"deleted,omitempty"`

	RootID  string `json:"rootId,omitempty"`
	ReplyTo string `json:"replyTo,omitempty"`

	// thread partition and composite ordering key
	CommonIndexPk string `json:"-"`
	CommonIndexSk string `json:"-"`

	Replies []Comment `json:"replies,omitempty"`
}

// ToRecord flattens the comment into its stored shape.
func (c Comment) ToRecord() store.Record {
	deleted := int64(0)
	if c.Deleted {
		deleted = 1
	}
	rec := store.Record{
		"commentId":     c.CommentID,
		"creationTime":  c.CreationTime,
		"username":      c.Username,
		"content":       c.Content,
		"likeCount":     c.LikeCount,
		"deleted":       deleted,
		"commonIndexPk": c.CommonIndexPk,
		"commonIndexSk": c.CommonIndexSk,
	}
	if c.EditedTime != "" {
		rec["editedTime"] = c.EditedTime
	}
	if c.RootID != "" {
		rec["rootId"] = c.RootID
	}
	if c.ReplyTo != "" {
		rec["replyTo"] = c.ReplyTo
	}
	return rec
}

// CommentFromRecord rebuilds a comment from its stored shape.
func CommentFromRecord(rec store.Record) (Comment, error) {
	if rec.String("commentId") == "" {
		return Comment{}, fmt.Errorf("comment record missing commentId")
	}
	return Comment{
		CommentID:     rec.String("commentId"),
		CreationTime:  rec.String("creationTime"),
		Username:      rec.String("username"),
		Content:       rec.String("content"),
		LikeCount:     rec.Int("likeCount"),
		EditedTime:    rec.String("editedTime"),
		Deleted:       rec.Int("deleted") != 0,
		RootID:        rec.String("rootId"),
		ReplyTo:       rec.String("replyTo"),
		CommonIndexPk: rec.String("commonIndexPk"),
		CommonIndexSk: rec.String("commonIndexSk"),
	}, nil
}
