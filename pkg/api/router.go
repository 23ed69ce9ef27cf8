// Package api assembles the HTTP surface: versioned resource routes,
// health probes, and the metrics endpoint.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cpnotes/pkg/api/handlers"
	"cpnotes/pkg/logger"
)

// Handler wires the handler dependencies and builds the full router.
// Resource routes live under /v1; probes and metrics sit at the root so
// they survive API version bumps.
func Handler(d handlers.Deps) http.Handler {
	handlers.Init(d)

	r := mux.NewRouter()
	handlers.RegisterHealth(r)
	r.Handle("/metrics", promhttp.Handler())

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterNotes(v1)
	handlers.RegisterLikes(v1)
	handlers.RegisterComments(v1)
	handlers.RegisterUsers(v1)
	handlers.RegisterCatalog(v1)
	handlers.RegisterAuth(v1)

	r.Use(accessLog)
	return r
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.String("headers", logger.SafeHeaders(r)))
		next.ServeHTTP(w, r)
	})
}

// CORS returns middleware answering preflights and stamping the allowed
// origin on responses. An empty origin list disables CORS entirely.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				_, ok := allowed[origin]
				if wildcard {
					ok = true
					origin = "*"
				}
				if ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
					h.Set("Vary", "Origin")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
