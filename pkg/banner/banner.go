// Package banner prints the startup summary.
package banner

import (
	"fmt"

	"cpnotes/pkg/config"
)

const banner = `
 ██████╗██████╗ ███╗   ██╗ ██████╗ ████████╗███████╗███████╗
██╔════╝██╔══██╗████╗  ██║██╔═══██╗╚══██╔══╝██╔════╝██╔════╝
██║     ██████╔╝██╔██╗ ██║██║   ██║   ██║   █████╗  ███████╗
██║     ██╔═══╝ ██║╚██╗██║██║   ██║   ██║   ██╔══╝  ╚════██║
╚██████╗██║     ██║ ╚████║╚██████╔╝   ██║   ███████╗███████║
 ╚═════╝╚═╝     ╚═╝  ╚═══╝ ╚═════╝    ╚═╝   ╚══════╝╚══════╝
`

// Print renders the banner with the effective runtime settings and a
// short production-readiness checklist.
func Print(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	dbPath := eff.DBPath
	if dbPath == "" && eff.Config != nil {
		dbPath = eff.Config.Server.DBPath
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("GET  /v1/notes?platform=&contestId=&problemId=&page= - paged note listings")
	fmt.Println("POST /v1/notes/{author}/{platform}/{contest}/{problem} - create a note")
	fmt.Println("GET  /v1/users/{username} - profile with contribution score")
	fmt.Println("GET  /v1/platforms/{platform}/contests - contest catalog")

	fmt.Println("\n== Production? ================================================")
	if eff.Config != nil && eff.Config.Auth.JWTSecret != "" {
		fmt.Println("- JWT secret: configured")
	} else {
		fmt.Println("- JWT secret: MISSING (required for any write)")
	}
	if eff.Config != nil && eff.Config.Auth.DevLogin {
		fmt.Println("- Dev login: ENABLED (disable in production)")
	}
	if eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}
	if eff.Config != nil && eff.Config.Security.RateLimit.RPS > 0 {
		fmt.Printf("- Rate limit: %.0f rps (burst %d)\n",
			eff.Config.Security.RateLimit.RPS, eff.Config.Security.RateLimit.Burst)
	} else {
		fmt.Println("- Rate limit: disabled")
	}
	if eff.Config != nil && eff.Config.Cache.RedisAddr != "" {
		fmt.Printf("- Blob cache: redis @ %s\n", eff.Config.Cache.RedisAddr)
	} else {
		fmt.Println("- Blob cache: in-memory (avatars lost on restart)")
	}

	fmt.Println("\n== Logs =======================================================")
}
