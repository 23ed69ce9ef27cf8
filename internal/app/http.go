package app

import (
	"net/http"

	"cpnotes/pkg/api"
	"cpnotes/pkg/api/handlers"
	"cpnotes/pkg/auth"
	"cpnotes/pkg/banner"
)

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "none" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "unknown" {
		verStr += " @ " + a.buildDate
	}
	banner.Print(a.eff, verStr)
}

// startHTTP builds the handler chain, starts the server in a goroutine
// and returns a channel carrying any server error.
func (a *App) startHTTP() <-chan error {
	cfg := a.eff.Config

	handler := api.Handler(handlers.Deps{
		Blobs:      a.blobs,
		Bucket:     cfg.Cache.Bucket,
		Codeforces: a.newCodeforcesClient(),
		PageSize:   cfg.PageSize(),
		DevLogin:   cfg.Auth.DevLogin,
		TokenTTL:   cfg.Auth.TokenTTL.Duration(),
	})

	if origins := cfg.Security.CORS.AllowedOrigins; len(origins) > 0 {
		handler = api.CORS(origins)(handler)
	}
	if cfg.Security.RateLimit.RPS > 0 {
		handler = auth.RateLimit(auth.LimitConfig{
			RPS:   cfg.Security.RateLimit.RPS,
			Burst: cfg.Security.RateLimit.Burst,
		})(handler)
	}

	a.srv = &http.Server{Addr: a.eff.Addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		cert := cfg.Server.TLS.CertFile
		key := cfg.Server.TLS.KeyFile
		if cert != "" && key != "" {
			errCh <- a.srv.ListenAndServeTLS(cert, key)
		} else {
			errCh <- a.srv.ListenAndServe()
		}
	}()
	return errCh
}
