// Package notes is the aggregate root of the content repository: note
// CRUD, denormalization of catalog metadata into the note row, and the
// counter/contribution side effects of every lifecycle transition.
//
// Multiple store writes belonging to one action are not atomic. The
// authoritative row is always written first and the derived aggregates
// after, so a crash between steps leaves counters lagging reality by at
// most one request.
package notes

import (
	"go.uber.org/zap"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/catalog"
	"cpnotes/pkg/counts"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/logger"
	"cpnotes/pkg/models"
	"cpnotes/pkg/store"
	"cpnotes/pkg/users"
)

const defaultTitlePrefix = "Notes for "

// AddOrEdit saves a note. With overwrite unset it is a pure create:
// a duplicate (author, problem) pair is a no-op. With overwrite set the
// mutable fields are updated in place, falling back to a full insert when
// the note vanished underneath the edit.
func AddOrEdit(username, platform, problemID, title string, solvedState int64, content string, published, overwrite bool, tokenString string) error {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return err
	}

	info, err := catalog.GetProblemInfo(platform, problemID)
	if err != nil {
		return err
	}
	if title == "" {
		title = defaultTitlePrefix + info.Name
	}

	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return errs.Wrap(errs.ErrProblemNotFound, err)
	}
	now := keys.NowISO()
	note := models.Note{
		Username:     username,
		NoteID:       keys.NoteID(platform, dbProblemID),
		Title:        title,
		SolvedState:  solvedState,
		Content:      content,
		Published:    published,
		ProblemName:  info.Name,
		ProblemCode:  info.Code,
		ContestName:  info.ContestName,
		ContestCode:  info.ContestCode,
		Link:         info.Link,
		EditedTime:   now,
		ActivityTime: now,
	}

	if !overwrite {
		return create(note)
	}
	return edit(note)
}

func create(note models.Note) error {
	inserted, err := store.InsertIfAbsent(store.NotesTable, note.ToRecord())
	if err != nil {
		return err
	}
	if !inserted {
		// the note already exists; the client must edit explicitly
		return nil
	}
	if note.Published {
		return counts.UpdateHierarchy(counts.PublishedNotes, note.NoteID, 1)
	}
	return nil
}

func edit(note models.Note) error {
	rec := note.ToRecord()
	sets := store.Record{
		"title":        rec["title"],
		"solvedState":  rec["solvedState"],
		"content":      rec["content"],
		"published":    rec["published"],
		"editedTime":   rec["editedTime"],
		"activityTime": rec["activityTime"],
		"platformKey":  rec["platformKey"],
		"contestKey":   rec["contestKey"],
		"problemKey":   rec["problemKey"],
		"publishedKey": rec["publishedKey"],
	}
	prev, applied, err := store.UpdateSet(store.NotesTable, note.Username, note.NoteID,
		sets, store.UpdateOptions{RequireExists: true})
	if err != nil {
		return err
	}
	if !applied {
		// edited a note that no longer exists; recreate it
		return create(note)
	}

	wasPublished := prev.Int("published") != 0
	switch {
	case note.Published && !wasPublished:
		return counts.UpdateHierarchy(counts.PublishedNotes, note.NoteID, 1)
	case !note.Published && wasPublished:
		return counts.UpdateHierarchy(counts.PublishedNotes, note.NoteID, -1)
	}
	return nil
}

// UpdateLikeCount adds delta to the note's like count and forwards the
// cubic contribution delta to the author's score. It reports false when
// the note no longer exists, so a stale like toggle cannot resurrect
// deleted state.
func UpdateLikeCount(noteAuthor, platform, dbProblemID string, delta int64) (bool, error) {
	if delta == 0 {
		return true, nil
	}
	noteID := keys.NoteID(platform, dbProblemID)
	prev, applied, err := store.UpdateAdditive(store.NotesTable, noteAuthor, noteID,
		map[string]int64{"likeCount": delta}, store.UpdateOptions{RequireExists: true})
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	oldCount := prev.Int("likeCount")
	newCount := oldCount + delta
	if err := users.ApplyContribution(noteAuthor, cube(newCount)-cube(oldCount)); err != nil {
		return true, err
	}
	return true, nil
}

// RefreshActivity stamps the note's activity timestamp, pushing it to the
// front of the recency index.
func RefreshActivity(noteAuthor, platform, dbProblemID string) error {
	noteID := keys.NoteID(platform, dbProblemID)
	_, _, err := store.UpdateSet(store.NotesTable, noteAuthor, noteID,
		store.Record{"activityTime": keys.NowISO()}, store.UpdateOptions{RequireExists: true})
	return err
}

// Delete removes the author's note and unwinds every derived aggregate:
// the contribution earned from its likes, its publish counters, and its
// like ledger partition. The cascade runs even when the note row was
// already gone, so a retried delete converges.
func Delete(username, platform, problemID, tokenString string) error {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return err
	}
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return errs.Wrap(errs.ErrProblemNotFound, err)
	}
	noteID := keys.NoteID(platform, dbProblemID)

	prev, err := store.DeleteRecord(store.NotesTable, username, noteID)
	if err != nil {
		return err
	}
	if prev != nil {
		if likeCount := prev.Int("likeCount"); likeCount != 0 {
			if err := users.ApplyContribution(username, -cube(likeCount)); err != nil {
				return err
			}
		}
		if prev.Int("published") != 0 {
			if err := counts.UpdateHierarchy(counts.PublishedNotes, noteID, -1); err != nil {
				return err
			}
		}
	} else {
		logger.Log.Info("delete_missing_note",
			zap.String("username", username), zap.String("noteId", noteID))
	}
	return store.DeleteAllUnderPartition(store.LikesTable,
		keys.LikeTarget(username, platform, dbProblemID))
}

// Get returns the note, enforcing the visibility rule: an unpublished
// note is only visible to its author.
func Get(noteAuthor, platform, problemID, tokenString string) (models.Note, error) {
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return models.Note{}, errs.Wrap(errs.ErrNoteNotFound, err)
	}
	rec, err := store.GetItem(store.NotesTable, noteAuthor, keys.NoteID(platform, dbProblemID))
	if err != nil {
		return models.Note{}, err
	}
	if rec == nil {
		return models.Note{}, errs.ErrNoteNotFound
	}
	note, err := models.NoteFromRecord(rec)
	if err != nil {
		return models.Note{}, err
	}
	if !note.Published {
		if err := auth.VerifyUser(noteAuthor, tokenString); err != nil {
			return models.Note{}, errs.ErrNoteNotFound
		}
	}
	return note, nil
}

// Exists reports whether the note exists, optionally only counting
// published notes.
func Exists(noteAuthor, platform, dbProblemID string, publishedOnly bool) (bool, error) {
	rec, err := store.GetItem(store.NotesTable, noteAuthor, keys.NoteID(platform, dbProblemID))
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	if publishedOnly && rec.Int("published") == 0 {
		return false, nil
	}
	return true, nil
}

// RequireExists is the gate used by the like and comment stores before
// they allow actions on a note.
func RequireExists(noteAuthor, platform, dbProblemID string, publishedOnly bool) error {
	ok, err := Exists(noteAuthor, platform, dbProblemID, publishedOnly)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNoteNotFound
	}
	return nil
}

func cube(n int64) int64 {
	return n * n * n
}
