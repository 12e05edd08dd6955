package node

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"meshcast/swarm/protocol"

	log "github.com/sirupsen/logrus"
)

// dialSeed opens the one outbound link requested at startup and performs the
// dialing side of the handshake: the first line on the wire announces our
// listening port and current peer knowledge.
func (n *Node) dialSeed(ctx context.Context, seed string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", seed)
	if err != nil {
		return fmt.Errorf("dial %s: %w", seed, err)
	}

	hello := &protocol.PeerInfo{Port: n.port, KnownPeers: n.Directory.Snapshot()}
	line, err := protocol.EncodePeerInfo(hello)
	if err != nil {
		conn.Close()
		return err
	}
	if _, err := conn.Write(line); err != nil {
		conn.Close()
		return fmt.Errorf("handshake write to %s: %w", seed, err)
	}

	n.Directory.Insert(seed)
	log.Infof("Connected to the peer at %q", seed)
	log.Infof("Known peers: %v", n.Directory.Snapshot())

	n.startLink(ctx, conn, seed, bufio.NewReader(conn))
	return nil
}

// acceptLoop accepts inbound links until the context ends. Cancelling the
// context closes the listener, which unblocks Accept.
func (n *Node) acceptLoop(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := n.listener.Close(); err != nil {
			log.Debugf("node: closing listener %s: %v", n.listener.Addr(), err)
		}
	}()

	var tempDelay time.Duration // how long to sleep on accept failure
	for {
		conn, err := n.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				log.Warnf("node: accept error on %s: %v; retrying in %v", n.listener.Addr(), err, tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0
		go n.acceptPeer(ctx, conn)
	}
}

// acceptPeer performs the accepting side of the handshake. The first line
// must be a PeerInfo envelope; anything else drops the connection without
// touching the directory. A connection that never completes handshake never
// reaches the relay.
func (n *Node) acceptPeer(ctx context.Context, conn net.Conn) {
	br := bufio.NewReader(conn)
	line, err := br.ReadBytes('\n')
	if err != nil {
		log.Debugf("node: handshake read from %s: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	env, err := protocol.Decode(line)
	if err != nil || env.Type != protocol.TypePeerInfo {
		log.Debugf("node: dropping %s: first line is not peer info", conn.RemoteAddr())
		conn.Close()
		return
	}

	// The peer is addressable at its declared listening port, not at the
	// ephemeral source port of this socket.
	peerAddr := declaredAddr(conn.RemoteAddr(), env.PeerInfo.Port)

	n.Directory.Insert(peerAddr)
	n.Directory.Merge(env.PeerInfo.KnownPeers)

	log.Infof("Connected to the peer at %q", peerAddr)
	log.Infof("Known peers: %v", n.Directory.Snapshot())

	n.startLink(ctx, conn, peerAddr, br)
}

// declaredAddr rebuilds a peer's addressable endpoint from the socket's
// remote IP and the listening port the peer declared during handshake.
func declaredAddr(remote net.Addr, port uint16) string {
	host := "127.0.0.1"
	if tcp, ok := remote.(*net.TCPAddr); ok {
		host = tcp.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}
