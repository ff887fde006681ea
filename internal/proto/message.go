// Package proto defines the JSON wire protocol spoken over the /chat
// WebSocket endpoint.
package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin    = "join"
	InboundTypeLeave   = "leave"
	InboundTypeComment = "comment"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameComment  = "comment"
	EventNamePresence = "presence"
)

// JoinData requests to join or leave a specific activity room.
type JoinData struct {
	Activity string `json:"activity"`
}

// CommentData submits a new comment. Author, if sent, is ignored: the
// server stamps the authenticated user instead.
type CommentData struct {
	ActivityID string `json:"activity_id"`
	Body       string `json:"body"`
	Author     string `json:"author,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventComment delivers a persisted comment. Emitted once to every
// connection and once more to the members of the activity room.
type EventComment struct {
	ID         string `json:"id"`
	ActivityID string `json:"activity_id"`
	Author     string `json:"author"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"` // RFC 3339
}

// EventPresence is an informational join/leave notice.
type EventPresence struct {
	Activity string `json:"activity"`
	Text     string `json:"text"`
}

// Error describes a protocol-level error response. Fields carries
// per-field messages for validation failures.
type Error struct {
	Code   string            `json:"code"`
	Msg    string            `json:"msg"`
	Fields map[string]string `json:"fields,omitempty"`
}
