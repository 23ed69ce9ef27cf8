package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/likes"
	"cpnotes/pkg/utils"
	"cpnotes/pkg/validation"
)

// RegisterLikes registers the per-user like endpoints, nested under the
// note path so a like always names the note it targets.
func RegisterLikes(r *mux.Router) {
	like := "/notes/{author}/{platform}/{contestId}/{problemCode}/likes/{username}"
	r.HandleFunc(like, setLike).Methods(http.MethodPut)
	r.HandleFunc(like, getLike).Methods(http.MethodGet)
}

func setLike(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	username := mux.Vars(r)["username"]
	var body struct {
		Liked bool `json:"liked"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateUsername(username); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := likes.SetLikedStatus(username, ref.Author, ref.Platform, ref.ProblemID, body.Liked, auth.BearerToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}
	writeOK(w)
}

func getLike(w http.ResponseWriter, r *http.Request) {
	ref := noteRefFromPath(r)
	username := mux.Vars(r)["username"]
	status, err := likes.GetLikedStatus(username, ref.Author, ref.Platform, ref.ProblemID, auth.BearerToken(r))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int64{"liked": status})
}
