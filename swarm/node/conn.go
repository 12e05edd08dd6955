package node

import (
	"bufio"
	"context"
	"io"
	"net"

	"meshcast/net/relay"
	"meshcast/swarm/protocol"

	log "github.com/sirupsen/logrus"
)

// startLink hands an established, handshaken link to its reader and writer
// duties. The two run independently: either may end without forcing the
// other, but a closed socket eventually fails both.
func (n *Node) startLink(ctx context.Context, conn net.Conn, peerAddr string, br *bufio.Reader) {
	done := make(chan struct{})

	// Thread the shutdown signal into both duties: closing the socket
	// unblocks the pending read and fails the next write.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go n.readLoop(conn, peerAddr, br, done)
	go n.writeLoop(ctx, conn, peerAddr)
}

// readLoop processes inbound lines in arrival order until EOF, an I/O error
// or a malformed line. Line framing cannot be resynchronized mid-stream, so a
// malformed line fails the whole link. Whatever ends the loop, the peer is
// pruned from the directory; this is the sole mechanism by which dead peers
// leave it.
func (n *Node) readLoop(conn net.Conn, peerAddr string, br *bufio.Reader, done chan struct{}) {
	defer close(done)
	defer conn.Close()

	for {
		line, err := br.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				log.Debugf("node: read from %s: %v", peerAddr, err)
			}
			break
		}

		env, err := protocol.Decode(line)
		if err != nil {
			log.Errorf("node: malformed line from %s, closing link: %v", peerAddr, err)
			break
		}

		switch env.Type {
		case protocol.TypeMessage:
			n.Directory.Insert(env.Message.From)
			n.Hub.Publish(relay.Item{Line: line, Origin: peerAddr})
		case protocol.TypePeerInfo:
			n.Directory.Merge(env.PeerInfo.KnownPeers)
		}
	}

	n.Directory.Remove(peerAddr)
}

// writeLoop relays every hub item that did not originate on this link. The
// first write failure ends the duty; the reader terminates independently on
// its own I/O condition.
func (n *Node) writeLoop(ctx context.Context, conn net.Conn, peerAddr string) {
	sub := n.Hub.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case it := <-sub.C():
			if it.Origin == peerAddr {
				continue
			}
			if _, err := conn.Write(it.Line); err != nil {
				log.Debugf("node: write to %s: %v", peerAddr, err)
				return
			}
		}
	}
}
