package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered or guest user.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsGuest      bool
	SessionID    string // guest session tracking
	CreatedAt    time.Time
}

// Activity is the resource a chat room hangs off. Rooms are named by
// activity id; comments reference activities.
type Activity struct {
	ID          string // UUID
	Title       string
	Description string
	Category    string
	Date        time.Time
	City        string
	Venue       string
	CreatedAt   time.Time
}

// Comment is a persisted activity comment.
type Comment struct {
	ID         string // UUID
	ActivityID string
	Author     string // verified username of the submitter
	Body       string
	CreatedAt  time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with a hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// CreateGuestUser creates a temporary guest user with a session ID.
	CreateGuestUser(ctx context.Context, sessionID string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ActivityStore handles activity persistence.
type ActivityStore interface {
	// CreateActivity persists a new activity.
	CreateActivity(ctx context.Context, a *Activity) error

	// GetActivityByID retrieves an activity, or ErrNotFound.
	GetActivityByID(ctx context.Context, id string) (*Activity, error)

	// ListActivities lists all activities ordered by date.
	ListActivities(ctx context.Context) ([]*Activity, error)
}

// CommentStore handles comment persistence.
type CommentStore interface {
	// CreateComment persists a comment. The caller assigns the ID and
	// the server-side timestamp.
	CreateComment(ctx context.Context, c *Comment) error

	// GetCommentByID retrieves a comment, or ErrNotFound.
	GetCommentByID(ctx context.Context, id string) (*Comment, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	ActivityStore
	CommentStore

	// Close closes the underlying database connection.
	Close() error
}
