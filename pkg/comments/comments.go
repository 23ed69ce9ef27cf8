// Package comments stores a note's thread as a flat partition. Roots
// carry an ascending creation-time sort key terminated by a high
// sentinel; replies reuse their root's creation time with an inverted
// timestamp suffix, so one ascending scan yields chronological roots
// with newest-first replies grouped under each.
package comments

import (
	"github.com/google/uuid"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/models"
	"cpnotes/pkg/notes"
	"cpnotes/pkg/store"
)

// AddRootComment starts a new thread root under the referenced note and
// returns the new comment id.
func AddRootComment(username, noteAuthor, platform, problemID, content, tokenString string) (string, error) {
	dbProblemID, err := gate(username, noteAuthor, platform, problemID, tokenString)
	if err != nil {
		return "", err
	}

	commentID := uuid.NewString()
	now := keys.NowISO()
	comment := models.Comment{
		CommentID:     commentID,
		CreationTime:  now,
		Username:      username,
		Content:       content,
		CommonIndexPk: keys.ThreadPartition(noteAuthor, platform, dbProblemID),
		CommonIndexSk: now + keys.FieldSep + commentID + keys.FieldSep + keys.HighSentinel,
	}
	if err := insert(comment); err != nil {
		return "", err
	}
	return commentID, notes.RefreshActivity(noteAuthor, platform, dbProblemID)
}

// AddReply adds a reply under rootCommentID, answering inReplyToID
// (either the root itself or one of its replies). Nesting is capped at
// depth two; a mismatched root reference is NotFound.
func AddReply(username, noteAuthor, platform, problemID, rootCommentID, inReplyToID, content, tokenString string) (string, error) {
	dbProblemID, err := gate(username, noteAuthor, platform, problemID, tokenString)
	if err != nil {
		return "", err
	}

	root, err := getComment(rootCommentID)
	if err != nil {
		return "", err
	}
	threadPk := keys.ThreadPartition(noteAuthor, platform, dbProblemID)
	if root.RootID != "" || root.CommonIndexPk != threadPk {
		return "", errs.ErrCommentNotFound
	}
	if inReplyToID != rootCommentID {
		inReplyTo, err := getComment(inReplyToID)
		if err != nil {
			return "", err
		}
		if inReplyTo.RootID != rootCommentID {
			return "", errs.ErrCommentNotFound
		}
	}

	commentID := uuid.NewString()
	now := keys.NowISO()
	comment := models.Comment{
		CommentID:     commentID,
		CreationTime:  now,
		Username:      username,
		Content:       content,
		RootID:        rootCommentID,
		ReplyTo:       inReplyToID,
		CommonIndexPk: threadPk,
		CommonIndexSk: root.CreationTime + keys.FieldSep + rootCommentID + keys.FieldSep + keys.Invert(now),
	}
	if err := insert(comment); err != nil {
		return "", err
	}
	return commentID, notes.RefreshActivity(noteAuthor, platform, dbProblemID)
}

// ListThread returns the note's roots in ascending creation order, each
// with its replies newest-first.
//
// The scan order puts a root's replies before the root itself (inverted
// suffixes sort below the high sentinel), so replies are buffered by root
// id and attached when their root shows up.
func ListThread(noteAuthor, platform, problemID string) ([]models.Comment, error) {
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNoteNotFound, err)
	}
	if err := notes.RequireExists(noteAuthor, platform, dbProblemID, true); err != nil {
		return nil, err
	}

	rows, err := store.QueryByPartition(store.CommentsTable,
		keys.ThreadPartition(noteAuthor, platform, dbProblemID),
		store.QueryOptions{Index: store.CommentsCommonIndex})
	if err != nil {
		return nil, err
	}

	roots := []models.Comment{}
	pending := map[string][]models.Comment{}
	for _, rec := range rows {
		c, err := models.CommentFromRecord(rec)
		if err != nil {
			return nil, err
		}
		c.CommonIndexPk, c.CommonIndexSk = "", ""
		if c.RootID == "" {
			c.Replies = pending[c.CommentID]
			delete(pending, c.CommentID)
			roots = append(roots, c)
			continue
		}
		pending[c.RootID] = append(pending[c.RootID], c)
	}
	return roots, nil
}

// Edit replaces a comment's content. Only the author may edit, and a
// soft-deleted comment stays frozen.
func Edit(username, commentID, content, tokenString string) error {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return err
	}
	c, err := getComment(commentID)
	if err != nil {
		return err
	}
	if c.Username != username {
		return errs.ErrNotLoggedIn
	}
	if c.Deleted {
		return errs.ErrCommentDeleted
	}
	_, applied, err := store.UpdateSet(store.CommentsTable, commentID, "",
		store.Record{"content": content, "editedTime": keys.NowISO()},
		store.UpdateOptions{
			RequireExists: true,
			Condition:     map[string]any{"deleted": int64(0)},
		})
	if err != nil {
		return err
	}
	if !applied {
		return errs.ErrCommentDeleted
	}
	return nil
}

// SoftDelete clears a comment's content and marks it deleted, keeping the
// row so replies still have their anchor. Repeating it is a no-op.
func SoftDelete(username, commentID, tokenString string) error {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return err
	}
	c, err := getComment(commentID)
	if err != nil {
		return err
	}
	if c.Username != username {
		return errs.ErrNotLoggedIn
	}
	_, _, err = store.UpdateSet(store.CommentsTable, commentID, "",
		store.Record{"content": "", "deleted": int64(1), "editedTime": keys.NowISO()},
		store.UpdateOptions{RequireExists: true})
	return err
}

func gate(username, noteAuthor, platform, problemID, tokenString string) (string, error) {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return "", err
	}
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return "", errs.Wrap(errs.ErrNoteNotFound, err)
	}
	if err := notes.RequireExists(noteAuthor, platform, dbProblemID, true); err != nil {
		return "", err
	}
	return dbProblemID, nil
}

func insert(c models.Comment) error {
	inserted, err := store.InsertIfAbsent(store.CommentsTable, c.ToRecord())
	if err != nil {
		return err
	}
	if !inserted {
		return errs.Internal("comment insert", errs.New(errs.KindConflict, "CommentIdCollision", "comment id already exists"))
	}
	return nil
}

func getComment(commentID string) (models.Comment, error) {
	rec, err := store.GetItem(store.CommentsTable, commentID, "")
	if err != nil {
		return models.Comment{}, err
	}
	if rec == nil {
		return models.Comment{}, errs.ErrCommentNotFound
	}
	return models.CommentFromRecord(rec)
}
