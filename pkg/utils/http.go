package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"cpnotes/pkg/errs"
	"cpnotes/pkg/logger"
)

// JSONError writes a JSON error response with the given status code and
// message. It ensures the Content-Type is set to application/json.
func JSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONWrite writes the provided value as JSON with the given status code.
func JSONWrite(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}

// WriteErr maps an application error onto the response: tagged errors
// keep their stable name and message, everything else is an opaque 500.
func WriteErr(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	name := errs.NameOf(err)
	if name == "" {
		logger.Log.Error("request_failed", zap.Error(err))
		JSONError(w, status, "Internal server error")
		return
	}
	message := err.Error()
	var e *errs.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": name, "message": message})
}
