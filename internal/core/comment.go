package core

import (
	"context"
	"time"
)

// Comment is the canonical persisted comment as delivered to clients.
// The core only transports it; the comment processor owns its creation.
type Comment struct {
	ID         string
	ActivityID string
	Author     string
	Body       string
	CreatedAt  time.Time
}

// CommentRequest is a submission as received from a client. Author is
// overwritten by the hub with the connection's verified subject before the
// request reaches the processor; a client-supplied value is never trusted.
type CommentRequest struct {
	ActivityID string
	Body       string
	Author     string
}

// CommentProcessor validates and durably persists a comment, returning the
// canonical stored representation. Implemented outside the core.
type CommentProcessor interface {
	CreateComment(ctx context.Context, req CommentRequest) (Comment, error)
}
