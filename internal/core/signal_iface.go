package core

// SignalConnection abstracts the messaging transport for one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Message) error
	Close()
}
