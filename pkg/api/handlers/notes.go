package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/logger"
	"cpnotes/pkg/notes"
	"cpnotes/pkg/paging"
	"cpnotes/pkg/utils"
	"cpnotes/pkg/validation"
)

// RegisterNotes registers the note CRUD and listing endpoints.
func RegisterNotes(r *mux.Router) {
	r.HandleFunc("/notes", listNotes).Methods(http.MethodGet)

	note := "/notes/{author}/{platform}/{contestId}/{problemCode}"
	r.HandleFunc(note, getNote).Methods(http.MethodGet)
	r.HandleFunc(note, saveNote).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc(note, deleteNote).Methods(http.MethodDelete)
}

func saveNote(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	var body struct {
		Title       string `json:"title"`
		SolvedState int64  `json:"solvedState"`
		Content     string `json:"content"`
		Published   bool   `json:"published"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateUsername(ref.Author); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidatePlatform(ref.Platform); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateNote(body.Title, body.Content); err != nil {
		utils.WriteErr(w, err)
		return
	}

	overwrite := r.Method == http.MethodPut
	err := notes.AddOrEdit(ref.Author, ref.Platform, ref.ProblemID,
		body.Title, body.SolvedState, body.Content, body.Published, overwrite, auth.BearerToken(r))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	logger.Log.Info("note_saved",
		zap.String("author", ref.Author),
		zap.String("platform", ref.Platform),
		zap.String("problem", ref.ProblemID),
		zap.Bool("overwrite", overwrite))
	writeOK(w)
}

func getNote(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	note, err := notes.Get(ref.Author, ref.Platform, ref.ProblemID, auth.BearerToken(r))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, note)
}

func deleteNote(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	if err := notes.Delete(ref.Author, ref.Platform, ref.ProblemID, auth.BearerToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}
	logger.Log.Info("note_deleted",
		zap.String("author", ref.Author),
		zap.String("platform", ref.Platform),
		zap.String("problem", ref.ProblemID))
	w.WriteHeader(http.StatusNoContent)
}

func listNotes(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	q := r.URL.Query()
	scope := paging.Scope{
		Platform:  q.Get("platform"),
		ContestID: q.Get("contestId"),
		ProblemID: q.Get("problemId"),
	}
	result, err := paging.ListPage(scope, page, deps.PageSize)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, result)
}
