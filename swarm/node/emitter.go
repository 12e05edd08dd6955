package node

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"meshcast/net/relay"
	"meshcast/swarm/protocol"

	log "github.com/sirupsen/logrus"
)

// gossipTick runs once per gossip period via the ticker in Run: originate one
// fresh message, then re-announce the local view of the mesh. Repeating the
// peer digest on every tick is how membership converges without a separate
// discovery protocol.
func (n *Node) gossipTick(ctx context.Context) error {
	known := n.Directory.Snapshot()

	msg := &protocol.Message{
		Content:   strconv.FormatUint(uint64(rand.Uint32()), 10),
		From:      n.Self,
		Timestamp: uint64(time.Now().Unix()),
	}
	line, err := protocol.EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("node: encoding gossip message: %w", err)
	}

	log.Infof("Sending message [%s] to %v", msg.Content, known)
	// Origin is the local address, which no link's peer address equals, so
	// the message reaches every link.
	n.Hub.Publish(relay.Item{Line: line, Origin: n.Self})

	digest := &protocol.PeerInfo{Port: n.port, KnownPeers: known}
	info, err := protocol.EncodePeerInfo(digest)
	if err != nil {
		return fmt.Errorf("node: encoding peer digest: %w", err)
	}
	for range known {
		n.Hub.Publish(relay.Item{Line: info, Origin: n.Self})
	}

	return nil
}
