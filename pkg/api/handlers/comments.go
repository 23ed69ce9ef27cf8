package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/comments"
	"cpnotes/pkg/utils"
	"cpnotes/pkg/validation"
)

// RegisterComments registers the thread endpoints under the note path
// plus direct edit/delete access by comment id.
func RegisterComments(r *mux.Router) {
	thread := "/notes/{author}/{platform}/{contestId}/{problemCode}/comments"
	r.HandleFunc(thread, listThread).Methods(http.MethodGet)
	r.HandleFunc(thread, addComment).Methods(http.MethodPost)

	r.HandleFunc("/comments/{id}", editComment).Methods(http.MethodPut)
	r.HandleFunc("/comments/{id}", deleteComment).Methods(http.MethodDelete)
}

func listThread(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	thread, err := comments.ListThread(ref.Author, ref.Platform, ref.ProblemID)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"comments": thread})
}

// addComment creates a root comment, or a reply when rootCommentId is
// set. inReplyTo defaults to the root when omitted.
func addComment(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	var body struct {
		Username      string `json:"username"`
		Content       string `json:"content"`
		RootCommentID string `json:"rootCommentId"`
		InReplyTo     string `json:"inReplyTo"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateUsername(body.Username); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateComment(body.Content); err != nil {
		utils.WriteErr(w, err)
		return
	}

	token := auth.BearerToken(r)
	var (
		id  string
		err error
	)
	if body.RootCommentID == "" {
		id, err = comments.AddRootComment(body.Username, ref.Author, ref.Platform, ref.ProblemID, body.Content, token)
	} else {
		inReplyTo := body.InReplyTo
		if inReplyTo == "" {
			inReplyTo = body.RootCommentID
		}
		id, err = comments.AddReply(body.Username, ref.Author, ref.Platform, ref.ProblemID,
			body.RootCommentID, inReplyTo, body.Content, token)
	}
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"commentId": id})
}

func editComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Username string `json:"username"`
		Content  string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateComment(body.Content); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := comments.Edit(body.Username, id, body.Content, auth.BearerToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}
	writeOK(w)
}

func deleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := comments.SoftDelete(body.Username, id, auth.BearerToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}
	writeOK(w)
}
