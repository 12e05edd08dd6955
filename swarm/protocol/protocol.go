package protocol

// Envelope type tags carried on the wire.
const (
	TypeMessage  = "Message"
	TypePeerInfo = "PeerInfo"
)

// Message is one piece of application payload flooded through the mesh.
// From is the address the originator believes is its own listening address,
// Timestamp the origination time in seconds since the epoch.
type Message struct {
	Content   string `json:"content"`
	From      string `json:"from"`
	Timestamp uint64 `json:"timestamp"`
}

// PeerInfo announces a node's listening port together with its current view
// of the mesh. It is the mandatory first line on every new connection and is
// re-sent periodically so membership converges.
type PeerInfo struct {
	Port       uint16   `json:"port"`
	KnownPeers []string `json:"known_peers"`
}
