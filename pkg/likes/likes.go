// Package likes is the per-(note, voter) membership ledger. It never
// counts votes by scanning the partition: every toggle reports a ±1/0
// delta that the note repository folds into the denormalized like count.
package likes

import (
	"cpnotes/pkg/auth"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/notes"
	"cpnotes/pkg/store"
)

// SetLikedStatus records whether username likes the referenced note.
// Re-liking and re-unliking are idempotent: only a transition that
// actually inserted or removed a ledger row adjusts the note's count.
func SetLikedStatus(username, noteAuthor, platform, problemID string, liked bool, tokenString string) error {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return err
	}
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return errs.Wrap(errs.ErrNoteNotFound, err)
	}
	if err := notes.RequireExists(noteAuthor, platform, dbProblemID, true); err != nil {
		return err
	}

	target := keys.LikeTarget(noteAuthor, platform, dbProblemID)
	var delta int64
	if liked {
		inserted, err := store.InsertIfAbsent(store.LikesTable, store.Record{
			"pk":         target,
			"username":   username,
			"editedTime": keys.NowISO(),
		})
		if err != nil {
			return err
		}
		if inserted {
			delta = 1
		}
	} else {
		prev, err := store.DeleteRecord(store.LikesTable, target, username)
		if err != nil {
			return err
		}
		if prev != nil {
			delta = -1
		}
	}
	if delta == 0 {
		return nil
	}
	_, err = notes.UpdateLikeCount(noteAuthor, platform, dbProblemID, delta)
	return err
}

// GetLikedStatus reports 1 when username's like row exists, else 0.
func GetLikedStatus(username, noteAuthor, platform, problemID, tokenString string) (int64, error) {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return 0, err
	}
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return 0, errs.Wrap(errs.ErrNoteNotFound, err)
	}
	rec, err := store.GetItem(store.LikesTable, keys.LikeTarget(noteAuthor, platform, dbProblemID), username)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return 1, nil
}

// LikeCount reports the note's denormalized like counter. It reads the
// note row, never the ledger partition.
func LikeCount(noteAuthor, platform, problemID string) (int64, error) {
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return 0, errs.Wrap(errs.ErrNoteNotFound, err)
	}
	rec, err := store.GetItem(store.NotesTable, noteAuthor, keys.NoteID(platform, dbProblemID))
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, errs.ErrNoteNotFound
	}
	return rec.Int("likeCount"), nil
}

// DeleteAllLikes drops the whole ledger partition of a note. Used by the
// note deletion cascade and safe to repeat.
func DeleteAllLikes(noteAuthor, platform, dbProblemID string) error {
	return store.DeleteAllUnderPartition(store.LikesTable,
		keys.LikeTarget(noteAuthor, platform, dbProblemID))
}
