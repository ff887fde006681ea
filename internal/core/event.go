package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventComment notifies clients about a persisted comment. Used for
	// both the global and the room-scoped delivery.
	EventComment EventKind = iota
	// EventPresence carries an informational join/leave notice.
	EventPresence
	// EventError reports an operation failure to its initiator only.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Activity string
	Text     string
	Comment  *Comment
	Error    *CoreError
}
