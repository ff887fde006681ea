package core

import "sync"

const defaultEventBuffer = 32

// Client is a single authenticated connection as seen by the core layer.
// The Subject is fixed at handshake time and never changes afterwards.
type Client struct {
	ID      string
	Subject string
	Events  chan *Event

	done      chan struct{}
	closeOnce sync.Once

	// rooms is the set of activity rooms this client has joined.
	// Mutated only by the room manager under its lock.
	rooms map[string]struct{}
}

// NewClient constructs a client with a buffered event queue.
func NewClient(id, subject string, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &Client{
		ID:      id,
		Subject: subject,
		Events:  make(chan *Event, buffer),
		done:    make(chan struct{}),
		rooms:   make(map[string]struct{}),
	}
}

// send queues an event without blocking. It returns false when the client
// is closed or its buffer is full; a full buffer means the consumer has
// stalled and the hub drops the connection.
func (c *Client) send(ev *Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Events <- ev:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Close marks the client as finished. Safe to call multiple times.
// The Events channel is never closed so concurrent sends stay safe.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Done is closed once the client has been shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
