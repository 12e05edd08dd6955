// Package node assembles the gossip overlay: listener, seed dialer,
// per-connection handlers, the periodic gossip emitter and the visible
// message feed, all sharing one peer directory and one relay hub.
package node

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"meshcast/config"
	"meshcast/helper/timer"
	"meshcast/net/relay"
	"meshcast/swarm/feed"
	"meshcast/swarm/peers"

	log "github.com/sirupsen/logrus"
)

type Node struct {
	Self      string
	Directory *peers.Directory
	Hub       *relay.Hub
	Feed      *feed.Feed

	// Interval between gossip ticks. Strictly periodic: no jitter, no
	// catch-up on missed ticks.
	Interval time.Duration

	listener net.Listener
	port     uint16
	seed     string
}

// New wires a node around an already-bound listener. The listener's address
// is the identity every other peer will know this node by; the deployment
// assumption is a single host, so the listener binds the loopback interface.
func New(cfg *config.Config, l net.Listener) (*Node, error) {
	tcpAddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("node: unsupported listener address %v", l.Addr())
	}

	self := tcpAddr.String()
	n := &Node{
		Self:      self,
		Directory: peers.New(self),
		Hub:       relay.NewHub(),
		Feed:      feed.New(self),
		Interval:  cfg.Period(),
		listener:  l,
		port:      uint16(tcpAddr.Port),
		seed:      cfg.Network.Connect,
	}

	log.Infof("My address is %q", self)
	return n, nil
}

// Run drives the node until the context is cancelled. The seed peer, when
// one is configured, is dialed exactly once before the concurrent loops
// start; a failed dial is not fatal and is never retried.
func (n *Node) Run(ctx context.Context) error {
	wg, cctx := errgroup.WithContext(ctx)

	// The feed must be subscribed before anything can publish.
	feedSub := n.Hub.Subscribe()

	if n.seed != "" {
		if err := n.dialSeed(cctx, n.seed); err != nil {
			log.Errorf("Failed to connect to the peer at %q: %v", n.seed, err)
		}
	}

	wg.Go(func() error {
		return n.acceptLoop(cctx)
	})

	wg.Go(func() error {
		return timer.RunWithTicker(cctx, &timer.Interval{Duration: n.Interval}, n.gossipTick)
	})

	wg.Go(func() error {
		return n.Feed.Run(cctx, feedSub)
	})

	return wg.Wait()
}
