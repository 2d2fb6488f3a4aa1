package core

// Frame is a marshaled wire message.
type Frame []byte

// ConnID identifies one live transport session. Server-assigned, opaque,
// unique per active connection.
type ConnID string

// SignalConnection abstracts the signaling transport endpoint of one
// client. Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
