// Package protocol defines the wire types exchanged between peers and the
// line codec for them. Every envelope occupies exactly one newline-terminated
// line of JSON; JSON string escaping guarantees that a newline embedded in a
// message body never breaks the framing.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every decode failure.
var ErrMalformed = errors.New("protocol: malformed envelope")

type wireEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Envelope is one decoded wire line. Exactly one of Message or PeerInfo is
// non-nil, according to Type.
type Envelope struct {
	Type     string
	Message  *Message
	PeerInfo *PeerInfo
}

func encode(typ string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("protocol: encoding %s payload: %w", typ, err)
	}
	line, err := json.Marshal(&wireEnvelope{Type: typ, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("protocol: encoding %s envelope: %w", typ, err)
	}
	return append(line, '\n'), nil
}

// EncodeMessage serializes m as one wire line, trailing newline included.
func EncodeMessage(m *Message) ([]byte, error) {
	return encode(TypeMessage, m)
}

// EncodePeerInfo serializes p as one wire line, trailing newline included.
func EncodePeerInfo(p *PeerInfo) ([]byte, error) {
	return encode(TypePeerInfo, p)
}

// Decode parses one wire line into an Envelope. The trailing newline may be
// present or already trimmed.
func Decode(line []byte) (*Envelope, error) {
	var env wireEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformed)
	}

	switch env.Type {
	case TypeMessage:
		msg := &Message{}
		if err := json.Unmarshal(env.Data, msg); err != nil {
			return nil, fmt.Errorf("%w: bad %s payload: %v", ErrMalformed, env.Type, err)
		}
		return &Envelope{Type: TypeMessage, Message: msg}, nil
	case TypePeerInfo:
		info := &PeerInfo{}
		if err := json.Unmarshal(env.Data, info); err != nil {
			return nil, fmt.Errorf("%w: bad %s payload: %v", ErrMalformed, env.Type, err)
		}
		return &Envelope{Type: TypePeerInfo, PeerInfo: info}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, env.Type)
	}
}
