package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/logger"
	"cpnotes/pkg/utils"
	"cpnotes/pkg/validation"
)

// RegisterAuth registers the development token mint. It only mounts
// when dev login is enabled; production deployments get tokens from the
// real identity provider.
func RegisterAuth(r *mux.Router) {
	if !deps.DevLogin {
		return
	}
	logger.Log.Warn("dev_login_enabled")
	r.HandleFunc("/auth/dev-login", devLogin).Methods(http.MethodPost)
}

func devLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &body); err != nil {
		utils.WriteErr(w, err)
		return
	}
	if err := validation.ValidateUsername(body.Username); err != nil {
		utils.WriteErr(w, err)
		return
	}
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := auth.Sign(body.Username, ttl)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	logger.Log.Info("dev_login", zap.String("username", body.Username))
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"token": token})
}
