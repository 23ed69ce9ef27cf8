package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cpnotes/pkg/store"
	"cpnotes/pkg/utils"
)

// RegisterHealth registers the liveness and readiness probes. These sit
// outside the versioned API so probes survive version bumps.
func RegisterHealth(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", readyz).Methods(http.MethodGet)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeOK(w)
}

func readyz(w http.ResponseWriter, _ *http.Request) {
	if !store.Ready() {
		utils.JSONError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{
		"status": "ok",
		"store":  store.GetMetrics(),
	})
}
