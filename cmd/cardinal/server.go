package main

import (
	"context"

	"github.com/cardinal-network/identity-vault/infrastructure/logging"
	"github.com/cardinal-network/identity-vault/internal/web"
)

// cmdServer runs the admin/API server.
func cmdServer(ctx context.Context) error {
	manager, db, cfg, err := openVault(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := web.NewSessionCodec(cfg.ServerSecret)
	if err != nil {
		return err
	}

	log := logging.New("cardinal", cfg.LogLevel, cfg.LogFormat)
	server := web.NewServer(manager, sessions, log)
	return server.Run(cfg.ListenAddr)
}
