package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/users"
	"cpnotes/pkg/utils"
	"cpnotes/pkg/validation"
)

// RegisterUsers registers the profile and user-directory endpoints.
func RegisterUsers(r *mux.Router) {
	r.HandleFunc("/users", createUser).Methods(http.MethodPost)
	r.HandleFunc("/users", listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{username}", getProfile).Methods(http.MethodGet)
	r.HandleFunc("/users/{username}", updateProfile).Methods(http.MethodPut)
}

func createUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateUsername(body.Username); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := auth.VerifyUser(body.Username, auth.BearerToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}
	created, err := users.Create(body.Username, body.Email)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	_ = utils.JSONWrite(w, status, map[string]bool{"created": created})
}

func getProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	profile, err := users.GetProfile(r.Context(), deps.Blobs, deps.Bucket, username, auth.BearerToken(r))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, profile)
}

func updateProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	var body struct {
		AvatarData string `json:"avatarData"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateAvatar(body.AvatarData); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := users.UpdateProfile(r.Context(), deps.Blobs, deps.Bucket, username, body.AvatarData, auth.BearerToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}
	writeOK(w)
}

// listUsers serves the precomputed leaderboard pages from the blob
// cache, raw JSON straight through.
func listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	raw, err := users.GetUsers(r.Context(), deps.Blobs, deps.Bucket, page)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
