package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeProcessor implements CommentProcessor for hub tests.
type fakeProcessor struct {
	mu      sync.Mutex
	err     error
	created []CommentRequest
}

func (f *fakeProcessor) CreateComment(_ context.Context, req CommentRequest) (Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Comment{}, f.err
	}
	f.created = append(f.created, req)
	return Comment{
		ID:         fmt.Sprintf("c%d", len(f.created)),
		ActivityID: req.ActivityID,
		Author:     req.Author,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (f *fakeProcessor) requests() []CommentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CommentRequest(nil), f.created...)
}

func newTestHub(t *testing.T, processor CommentProcessor, globalPresence bool) *Hub {
	t.Helper()
	logger := zerolog.Nop()
	return NewHub(processor, &logger, globalPresence)
}

// mustEvent drains ch until an event of the wanted kind shows up.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// expectNoEvent asserts the queue is empty. Hub operations deliver before
// returning, so anything owed to the client is already buffered.
func expectNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	default:
	}
}

func drainEvents(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// countEvents empties the queue and counts events of the given kind.
func countEvents(ch <-chan *Event, kind EventKind) int {
	n := 0
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				n++
			}
		default:
			return n
		}
	}
}
