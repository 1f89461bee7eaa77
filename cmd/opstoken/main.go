// Command opstoken prints a bearer token for the ops HTTP API.
//
//	opstoken [subject]
//
// The token is signed with OPS_JWT_SECRET and expires after OPS_TOKEN_TTL.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"rsvpbot/config"
	"rsvpbot/internal/adapters/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.OpsJWTSecret == "" {
		slog.Error("OPS_JWT_SECRET is not set")
		os.Exit(1)
	}

	subject := "ops"
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}
	token, err := auth.NewJWT(cfg.OpsJWTSecret).Issue(subject, cfg.OpsTokenTTL)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
