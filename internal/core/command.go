package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin subscribes the client to an activity room.
	CommandJoin CommandKind = iota
	// CommandLeave unsubscribes the client from an activity room.
	CommandLeave
	// CommandSubmitComment submits a new comment for persistence and
	// broadcast.
	CommandSubmitComment
)

// Command represents an action requested by a client, already decoded from
// the wire protocol.
type Command struct {
	Kind     CommandKind
	Activity string
	Body     string
}
