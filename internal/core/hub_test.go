package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func register(t *testing.T, hub *Hub, id, subject string) *Client {
	t.Helper()
	c := NewClient(id, subject, 0)
	if err := hub.Register(c); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
	return c
}

func TestJoinNotifiesOtherMembers(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")

	hub.Join(alice, "act-1")
	expectNoEvent(t, alice.Events) // nobody else present yet

	hub.Join(bob, "act-1")

	ev := mustEvent(t, alice.Events, EventPresence)
	if ev.Activity != "act-1" || !strings.Contains(ev.Text, "bob") {
		t.Fatalf("unexpected presence event: %+v", ev)
	}
	// Room-scoped presence excludes the joiner.
	expectNoEvent(t, bob.Events)
}

func TestJoinGlobalPresenceReachesNonMembers(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, true)

	alice := register(t, hub, "a", "alice")
	charlie := register(t, hub, "c", "charlie")

	hub.Join(alice, "act-1")

	ev := mustEvent(t, charlie.Events, EventPresence)
	if ev.Activity != "act-1" || !strings.Contains(ev.Text, "alice") {
		t.Fatalf("unexpected presence event: %+v", ev)
	}
}

func TestRejoinIsIdempotent(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")

	hub.Join(alice, "act-1")
	hub.Join(bob, "act-1")
	drainEvents(alice.Events)

	hub.Join(bob, "act-1")
	expectNoEvent(t, alice.Events)

	if !hub.Rooms().Contains(bob, "act-1") {
		t.Fatal("bob should still be a member")
	}
}

func TestLeaveNotifiesRemainingMembers(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	hub.Join(alice, "act-1")
	hub.Join(bob, "act-1")
	drainEvents(alice.Events)

	hub.Leave(bob, "act-1")

	ev := mustEvent(t, alice.Events, EventPresence)
	if !strings.Contains(ev.Text, "bob") || !strings.Contains(ev.Text, "left") {
		t.Fatalf("unexpected presence event: %+v", ev)
	}
	if hub.Rooms().Contains(bob, "act-1") {
		t.Fatal("bob should no longer be a member")
	}
}

func TestLeaveWithoutJoinIsNoop(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	hub.Join(alice, "act-1")

	hub.Leave(bob, "act-1")
	hub.Leave(bob, "ghost")

	expectNoEvent(t, alice.Events)
	expectNoEvent(t, bob.Events)
}

func TestSubmitCommentBroadcastsGloballyAndToRoom(t *testing.T) {
	processor := &fakeProcessor{}
	hub := newTestHub(t, processor, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	charlie := register(t, hub, "c", "charlie")
	hub.Join(alice, "act-1")
	hub.Join(bob, "act-1")
	drainEvents(alice.Events)

	hub.SubmitComment(context.Background(), alice, CommentRequest{
		ActivityID: "act-1",
		Body:       "hi",
		Author:     "mallory", // must be discarded
	})

	// Room members hear the comment twice: once via the global fan-out
	// and once via the room fan-out. Non-members hear it once.
	for name, c := range map[string]*Client{"alice": alice, "bob": bob} {
		ev := mustEvent(t, c.Events, EventComment)
		if ev.Comment.Body != "hi" || ev.Comment.Author != "alice" || ev.Comment.ActivityID != "act-1" {
			t.Fatalf("%s: unexpected comment event: %+v", name, ev.Comment)
		}
		if n := countEvents(c.Events, EventComment); n != 1 {
			t.Fatalf("%s: expected exactly one more delivery, got %d", name, n)
		}
	}

	ev := mustEvent(t, charlie.Events, EventComment)
	if ev.Comment.Author != "alice" {
		t.Fatalf("charlie: unexpected author %q", ev.Comment.Author)
	}
	if n := countEvents(charlie.Events, EventComment); n != 0 {
		t.Fatalf("charlie: expected single delivery, got %d extra", n)
	}

	reqs := processor.requests()
	if len(reqs) != 1 || reqs[0].Author != "alice" {
		t.Fatalf("processor saw unexpected requests: %+v", reqs)
	}
}

func TestSubmitCommentPersistFailureBroadcastsNothing(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("disk on fire")}
	hub := newTestHub(t, processor, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	hub.Join(alice, "act-1")
	hub.Join(bob, "act-1")
	drainEvents(alice.Events)

	hub.SubmitComment(context.Background(), alice, CommentRequest{ActivityID: "act-1", Body: "hi"})

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error.Code != ErrCodePersistenceUnavailable {
		t.Fatalf("expected persistence_unavailable, got %+v", ev.Error)
	}
	expectNoEvent(t, alice.Events)
	expectNoEvent(t, bob.Events)
}

func TestSubmitCommentValidationFailureReachesSenderOnly(t *testing.T) {
	processor := &fakeProcessor{err: &ValidationError{Fields: map[string]string{"body": "is required"}}}
	hub := newTestHub(t, processor, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	hub.Join(alice, "act-1")
	hub.Join(bob, "act-1")
	drainEvents(alice.Events)

	hub.SubmitComment(context.Background(), alice, CommentRequest{ActivityID: "act-1"})

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error.Code != ErrCodeValidationFailed || ev.Error.Fields["body"] != "is required" {
		t.Fatalf("unexpected error event: %+v", ev.Error)
	}
	expectNoEvent(t, bob.Events)
}

func TestSubmitCommentFromUnregisteredConnection(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	ghost := NewClient("g", "ghost", 0)
	hub.SubmitComment(context.Background(), ghost, CommentRequest{ActivityID: "act-1", Body: "hi"})

	ev := mustEvent(t, ghost.Events, EventError)
	if ev.Error.Code != ErrCodeUnauthorized {
		t.Fatalf("expected unauthorized, got %+v", ev.Error)
	}
}

func TestDisconnectRemovesFromEveryRoom(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	charlie := register(t, hub, "c", "charlie")
	hub.Join(alice, "act-1")
	hub.Join(alice, "act-2")
	hub.Join(bob, "act-1")
	hub.Join(charlie, "act-2")
	drainEvents(alice.Events)
	drainEvents(bob.Events)
	drainEvents(charlie.Events)

	hub.Disconnect(alice)

	for name, c := range map[string]*Client{"bob": bob, "charlie": charlie} {
		ev := mustEvent(t, c.Events, EventPresence)
		if !strings.Contains(ev.Text, "alice") || !strings.Contains(ev.Text, "left") {
			t.Fatalf("%s: unexpected presence event: %+v", name, ev)
		}
		// Exactly one notice per affected room.
		if n := countEvents(c.Events, EventPresence); n != 0 {
			t.Fatalf("%s: expected single left notice, got %d extra", name, n)
		}
	}

	if _, ok := hub.Registry().Lookup("a"); ok {
		t.Fatal("alice should be unregistered")
	}
	if len(hub.Rooms().Members("act-1")) != 1 || len(hub.Rooms().Members("act-2")) != 1 {
		t.Fatal("alice should be out of all rooms")
	}
}

func TestAbruptDisconnectLeavesNoGhostMembers(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	hub.Join(alice, "act-1")
	hub.Disconnect(alice)

	if members := hub.Rooms().Members("act-1"); len(members) != 0 {
		t.Fatalf("expected empty room, got %d members", len(members))
	}

	bob := register(t, hub, "b", "bob")
	hub.Join(bob, "act-1")
	expectNoEvent(t, bob.Events)

	if members := hub.Rooms().Members("act-1"); len(members) != 1 {
		t.Fatalf("expected bob alone, got %d members", len(members))
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	hub.Join(alice, "act-1")

	hub.Disconnect(alice)
	hub.Disconnect(alice) // duplicate close notification

	if n := hub.Registry().Len(); n != 0 {
		t.Fatalf("expected empty registry, got %d", n)
	}
}

func TestDuplicateRegistrationRefused(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	register(t, hub, "a", "alice")
	dup := NewClient("a", "impostor", 0)
	if err := hub.Register(dup); !errors.Is(err, ErrDuplicateConnection) {
		t.Fatalf("expected ErrDuplicateConnection, got %v", err)
	}
}

func TestSlowConsumerIsDropped(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	slow := NewClient("s", "slowpoke", 1)
	if err := hub.Register(slow); err != nil {
		t.Fatalf("register: %v", err)
	}
	bob := register(t, hub, "b", "bob")
	hub.Join(slow, "act-1")
	hub.Join(bob, "act-1") // fills slow's single-slot buffer with the presence notice

	hub.SubmitComment(context.Background(), bob, CommentRequest{ActivityID: "act-1", Body: "hi"})

	if _, ok := hub.Registry().Lookup("s"); ok {
		t.Fatal("slow client should have been dropped")
	}
	select {
	case <-slow.Done():
	default:
		t.Fatal("slow client should be closed")
	}

	// Delivery to the healthy member continued regardless.
	ev := mustEvent(t, bob.Events, EventComment)
	if ev.Comment.Body != "hi" {
		t.Fatalf("unexpected comment event: %+v", ev.Comment)
	}
}

func TestShutdownDisconnectsEveryone(t *testing.T) {
	hub := newTestHub(t, &fakeProcessor{}, false)

	alice := register(t, hub, "a", "alice")
	bob := register(t, hub, "b", "bob")
	hub.Join(alice, "act-1")
	hub.Join(bob, "act-1")

	hub.Shutdown()

	if n := hub.Registry().Len(); n != 0 {
		t.Fatalf("expected empty registry after shutdown, got %d", n)
	}
	for _, c := range []*Client{alice, bob} {
		select {
		case <-c.Done():
		default:
			t.Fatalf("client %s should be closed", c.ID)
		}
	}
}
