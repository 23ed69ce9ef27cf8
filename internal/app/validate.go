package app

import (
	"fmt"
	"os"

	"cpnotes/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("no effective configuration")
	}

	if eff.DBPath == "" {
		return fmt.Errorf("database path is empty: set --db flag, CPNOTES_DB_PATH env, or server.db_path in config")
	}

	if eff.Config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is empty: writes cannot be verified without it (or set CPNOTES_JWT_SECRET)")
	}

	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "" && key == "") || (cert == "" && key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	if rl := eff.Config.Security.RateLimit; rl.RPS > 0 && rl.Burst <= 0 {
		return fmt.Errorf("security.rate_limit.burst must be positive when rps is set")
	}

	return nil
}
