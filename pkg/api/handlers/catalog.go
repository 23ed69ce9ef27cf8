package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cpnotes/pkg/catalog"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/utils"
	"cpnotes/pkg/validation"
)

// RegisterCatalog registers the read-only platform catalog endpoints.
func RegisterCatalog(r *mux.Router) {
	r.HandleFunc("/platforms/{platform}/contests", listContests).Methods(http.MethodGet)
	r.HandleFunc("/platforms/{platform}/problems", listProblems).Methods(http.MethodGet)
	r.HandleFunc("/platforms/{platform}/users/{handle}", getPlatformUser).Methods(http.MethodGet)
}

func listContests(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	if err := validation.ValidatePlatform(platform); err != nil {
		utils.WriteErr(w, err)
		return
	}
	contests, err := catalog.GetContests(platform)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"contests": contests})
}

func listProblems(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	if err := validation.ValidatePlatform(platform); err != nil {
		utils.WriteErr(w, err)
		return
	}
	problems, err := catalog.GetProblems(platform)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"problems": problems})
}

// getPlatformUser proxies a handle lookup to the upstream judge. Only
// Codeforces is wired today.
func getPlatformUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if vars["platform"] != "CodeForces" || deps.Codeforces == nil {
		utils.WriteErr(w, errs.New(errs.KindBadInput, "BadPlatform", "Unknown platform!"))
		return
	}
	user, err := deps.Codeforces.GetUserInfo(r.Context(), vars["handle"])
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, user)
}
