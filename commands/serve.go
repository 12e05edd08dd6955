package commands

import (
	"context"
	"errors"
	"net"

	"meshcast/config"
	"meshcast/swarm/node"

	log "github.com/sirupsen/logrus"
)

// RunServe binds the loopback listener and runs the node until the context
// ends. Bind failures are fatal; everything past startup only ever drops
// individual connections.
func RunServe(ctx context.Context, cfg *config.Config) {
	l, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.ListenAddr(), err)
	}

	n, err := node.New(cfg, l)
	if err != nil {
		log.Fatalf("Failed to create node: %v", err)
	}

	if err := n.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Node stopped: %v", err)
	}
}
