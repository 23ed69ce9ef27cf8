// Package paging turns a 1-based page number plus a listing filter into a
// bounded range query against one of the published-note indexes, using
// the counter service for totals instead of counting rows.
package paging

import (
	"cpnotes/pkg/counts"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/models"
	"cpnotes/pkg/store"
)

// Scope selects which published-note listing to page through. The zero
// value is the unfiltered global listing; narrower filters add fields
// top-down (Platform, then ContestID or ProblemID in display form).
type Scope struct {
	Platform  string
	ContestID string
	ProblemID string
}

// Page is one page of a listing plus the page count for the whole scope.
type Page struct {
	Notes      []models.Note `json:"notes"`
	TotalPages int64         `json:"totalPages"`
}

// resolve maps the scope onto its index, index partition, and counter
// scope key.
func (s Scope) resolve() (index, partition, counterScope string, err error) {
	switch {
	case s.Platform == "" && (s.ContestID != "" || s.ProblemID != ""):
		return "", "", "", errs.New(errs.KindBadInput, "BadListingScope",
			"Contest and problem filters require a platform!")
	case s.Platform == "":
		return store.NotesRecentIndex, keys.PublishedPrefix(true), keys.Sentinel, nil
	case s.ProblemID != "":
		dbProblemID, err := keys.InflateProblemID(s.ProblemID)
		if err != nil {
			return "", "", "", errs.Wrap(errs.ErrProblemNotFound, err)
		}
		scope := s.Platform + keys.FieldSep + dbProblemID
		return store.NotesProblemIndex, keys.IndexPartition(true, scope), scope, nil
	case s.ContestID != "":
		contestKey, err := keys.InflateContestID(s.ContestID)
		if err != nil {
			return "", "", "", errs.Wrap(errs.ErrContestNotFound, err)
		}
		scope := s.Platform + keys.FieldSep + contestKey
		return store.NotesContestIndex, keys.IndexPartition(true, scope), scope, nil
	default:
		return store.NotesPlatformIndex, keys.IndexPartition(true, s.Platform), s.Platform, nil
	}
}

// ListPage returns pageNumber of the scope's listing, newest activity
// first. A page past the computed total is PageOutOfRange; an empty scope
// still reports one (empty) page.
func ListPage(scope Scope, pageNumber, pageSize int) (Page, error) {
	index, partition, counterScope, err := scope.resolve()
	if err != nil {
		return Page{}, err
	}

	total, err := counts.Get(counts.PublishedNotes, counterScope)
	if err != nil {
		return Page{}, err
	}
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if pageNumber < 1 || int64(pageNumber) > totalPages {
		return Page{}, errs.ErrPageNotFound
	}

	rows, err := store.PageAtOffset(store.NotesTable, partition, pageNumber, pageSize,
		store.QueryOptions{Index: index, Descending: true})
	if err != nil {
		return Page{}, err
	}
	page := Page{Notes: []models.Note{}, TotalPages: totalPages}
	for _, rec := range rows {
		note, err := models.NoteFromRecord(rec)
		if err != nil {
			return Page{}, err
		}
		page.Notes = append(page.Notes, note)
	}
	return page, nil
}
