package commands

import (
	"context"

	"meshcast/config"

	log "github.com/sirupsen/logrus"
)

// RunInit writes a starter config file.
func RunInit(ctx context.Context, cfg *config.Config) {
	cfg.Gossip.PeriodSeconds = 5
	cfg.Network.Port = 8080

	if err := cfg.Save(); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
}
