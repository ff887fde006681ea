package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Hub coordinates the connection registry, the room manager and the
// comment processor. It owns the persist-then-deliver sequence for new
// comments and the mutate-then-notify sequence for membership changes.
//
// One hub instance is created at server start and torn down at server
// stop; connection handlers receive it by reference.
type Hub struct {
	registry  *Registry
	rooms     *RoomManager
	processor CommentProcessor
	log       *zerolog.Logger

	// globalPresence announces every join to all connections instead of
	// just the room. Scope it to the room for a quieter system.
	globalPresence bool
}

// NewHub builds a hub around the given comment processor.
func NewHub(processor CommentProcessor, logger *zerolog.Logger, globalPresence bool) *Hub {
	return &Hub{
		registry:       NewRegistry(),
		rooms:          NewRoomManager(),
		processor:      processor,
		log:            logger,
		globalPresence: globalPresence,
	}
}

// Registry exposes the connection registry, mainly for tests and metrics.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Rooms exposes the room manager, mainly for tests.
func (h *Hub) Rooms() *RoomManager {
	return h.rooms
}

// Register adds a freshly authenticated connection with no memberships.
func (h *Hub) Register(c *Client) error {
	if err := h.registry.Register(c); err != nil {
		h.log.Error().Str("client_id", c.ID).Str("subject", c.Subject).Msg("duplicate connection refused")
		return fmt.Errorf("register client %s: %w", c.ID, err)
	}
	h.log.Debug().Str("client_id", c.ID).Str("subject", c.Subject).Msg("client registered")
	return nil
}

// Disconnect removes the connection from the registry and from every room
// it belonged to, notifying the remaining members of each. Idempotent:
// duplicate close notifications fall through without effect.
func (h *Hub) Disconnect(c *Client) {
	cl, ok := h.registry.Unregister(c.ID)
	if !ok {
		c.Close()
		return
	}

	affected := h.rooms.RemoveAll(cl)
	for room, remaining := range affected {
		h.deliver(remaining, &Event{
			Kind:     EventPresence,
			Activity: room,
			Text:     fmt.Sprintf("%s has left", cl.Subject),
		})
	}

	cl.Close()
	h.log.Debug().Str("client_id", cl.ID).Str("subject", cl.Subject).Int("rooms", len(affected)).Msg("client disconnected")
}

// Join subscribes the connection to an activity room and announces it to
// the other members. Joining is always explicit; rejoining an already
// joined room is a silent no-op.
func (h *Hub) Join(c *Client, activity string) {
	if activity == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "activity is required")})
		return
	}

	joined, others := h.rooms.Join(c, activity)
	if !joined {
		return
	}

	notice := &Event{
		Kind:     EventPresence,
		Activity: activity,
		Text:     fmt.Sprintf("%s has joined", c.Subject),
	}
	if h.globalPresence {
		h.deliver(h.registry.Snapshot(), notice)
	}
	h.deliver(others, notice)
}

// Leave unsubscribes the connection from a room and tells the remaining
// members. Leaving a room never joined is a no-op.
func (h *Hub) Leave(c *Client, activity string) {
	if activity == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "activity is required")})
		return
	}

	left, remaining := h.rooms.Leave(c, activity)
	if !left {
		return
	}

	h.deliver(remaining, &Event{
		Kind:     EventPresence,
		Activity: activity,
		Text:     fmt.Sprintf("%s has left", c.Subject),
	})
}

// SubmitComment runs the core protocol: stamp the verified author, persist
// through the processor, and only then broadcast the canonical comment to
// every connection and to the activity room. Both deliveries reuse the
// same event; room members receive the comment twice on purpose, matching
// the behavior existing clients rely on. Failures reach the submitter
// only; no partial broadcast ever happens.
func (h *Hub) SubmitComment(ctx context.Context, c *Client, req CommentRequest) {
	if _, ok := h.registry.Lookup(c.ID); !ok {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeUnauthorized, "connection is not registered")})
		return
	}

	// The transport-verified identity is authoritative; whatever the
	// client put in the author field is discarded.
	req.Author = c.Subject

	comment, err := h.processor.CreateComment(ctx, req)
	if err != nil {
		c.send(&Event{Kind: EventError, Error: h.classify(err)})
		return
	}

	ev := &Event{Kind: EventComment, Activity: comment.ActivityID, Comment: &comment}
	h.deliver(h.registry.Snapshot(), ev)
	h.deliver(h.rooms.Members(comment.ActivityID), ev)
}

// Shutdown disconnects every registered client. Called once at server stop.
func (h *Hub) Shutdown() {
	for _, c := range h.registry.Snapshot() {
		h.Disconnect(c)
	}
}

// deliver fans an event out to a member snapshot. Sends never block; a
// client that cannot keep up is treated as failed and disconnected, and
// delivery to the remaining recipients continues regardless.
func (h *Hub) deliver(targets []*Client, ev *Event) {
	for _, target := range targets {
		if target.send(ev) {
			continue
		}
		select {
		case <-target.Done():
			// Already closing; nothing to clean up here.
		default:
			h.log.Warn().Str("client_id", target.ID).Str("subject", target.Subject).Msg("event buffer overflow, dropping client")
			h.Disconnect(target)
		}
	}
}

func (h *Hub) classify(err error) *CoreError {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return &CoreError{
			Code:    ErrCodeValidationFailed,
			Message: "comment validation failed",
			Fields:  valErr.Fields,
		}
	}
	h.log.Error().Err(err).Msg("comment persistence failed")
	return coreError(ErrCodePersistenceUnavailable, "comment could not be saved, try again")
}
