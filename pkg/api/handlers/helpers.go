// Package handlers holds the HTTP handlers, one file per resource.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"cpnotes/pkg/blob"
	"cpnotes/pkg/catalog"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/utils"
)

// Deps carries the collaborators the handlers need.
type Deps struct {
	Blobs      blob.Store
	Bucket     string
	Codeforces *catalog.CodeforcesClient
	PageSize   int
	DevLogin   bool
	TokenTTL   time.Duration
}

var deps Deps

// Init installs the handler dependencies. Call once at startup before
// registering routes.
func Init(d Deps) {
	deps = d
}

// noteRef identifies a note from the request path:
// /{author}/{platform}/{contestId}/{problemCode}.
type noteRef struct {
	Author    string
	Platform  string
	ProblemID string
}

func noteRefFromPath(r *http.Request) noteRef {
	vars := mux.Vars(r)
	return noteRef{
		Author:    vars["author"],
		Platform:  vars["platform"],
		ProblemID: vars["contestId"] + keys.FieldSep + vars["problemCode"],
	}
}

// pageParam parses the page query value, defaulting to 1 when absent and
// rejecting anything that is not an integer.
func pageParam(r *http.Request) (int, error) {
	p := r.URL.Query().Get("page")
	if p == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, errs.New(errs.KindBadInput, "BadPageNumber", "Page must be an integer!")
	}
	return n, nil
}

// decodeBody decodes a JSON request body into v, mapping failures onto
// the BadInput taxonomy.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.New(errs.KindBadInput, "BadRequestBody", "Request body is not valid JSON!")
	}
	return nil
}

func writeOK(w http.ResponseWriter) {
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "ok"})
}
