package core

import "testing"

func TestRoomMembershipStaysSymmetric(t *testing.T) {
	m := NewRoomManager()
	a := NewClient("a", "alice", 0)
	b := NewClient("b", "bob", 0)

	if joined, _ := m.Join(a, "r1"); !joined {
		t.Fatal("first join should succeed")
	}
	if joined, _ := m.Join(a, "r1"); joined {
		t.Fatal("second join should be a no-op")
	}
	m.Join(b, "r1")
	m.Join(a, "r2")

	if !m.Contains(a, "r1") || !m.Contains(a, "r2") || !m.Contains(b, "r1") {
		t.Fatal("memberships out of sync after joins")
	}

	if left, _ := m.Leave(a, "r1"); !left {
		t.Fatal("leave should succeed")
	}
	if m.Contains(a, "r1") {
		t.Fatal("membership out of sync after leave")
	}
	if left, _ := m.Leave(a, "r1"); left {
		t.Fatal("repeated leave should be a no-op")
	}
	if !m.Contains(b, "r1") {
		t.Fatal("bob's membership must survive alice leaving")
	}
}

func TestJoinReturnsOnlyOtherMembers(t *testing.T) {
	m := NewRoomManager()
	a := NewClient("a", "alice", 0)
	b := NewClient("b", "bob", 0)

	if _, others := m.Join(a, "r1"); len(others) != 0 {
		t.Fatalf("expected no other members, got %d", len(others))
	}
	_, others := m.Join(b, "r1")
	if len(others) != 1 || others[0] != a {
		t.Fatalf("expected alice as the only other member, got %v", others)
	}
}

func TestEmptyRoomIsDropped(t *testing.T) {
	m := NewRoomManager()
	a := NewClient("a", "alice", 0)

	m.Join(a, "r1")
	m.Leave(a, "r1")

	if len(m.Members("r1")) != 0 {
		t.Fatal("expected empty member snapshot")
	}
	if len(m.rooms) != 0 {
		t.Fatal("expected room entry to be dropped")
	}
}

func TestRemoveAllReportsRemainingPerRoom(t *testing.T) {
	m := NewRoomManager()
	a := NewClient("a", "alice", 0)
	b := NewClient("b", "bob", 0)
	c := NewClient("c", "charlie", 0)

	m.Join(a, "r1")
	m.Join(a, "r2")
	m.Join(a, "r3")
	m.Join(b, "r1")
	m.Join(c, "r2")

	affected := m.RemoveAll(a)
	if len(affected) != 3 {
		t.Fatalf("expected 3 affected rooms, got %d", len(affected))
	}
	if remaining := affected["r1"]; len(remaining) != 1 || remaining[0] != b {
		t.Fatalf("unexpected remaining members for r1: %v", remaining)
	}
	if remaining := affected["r2"]; len(remaining) != 1 || remaining[0] != c {
		t.Fatalf("unexpected remaining members for r2: %v", remaining)
	}
	if remaining := affected["r3"]; len(remaining) != 0 {
		t.Fatalf("expected r3 emptied, got %v", remaining)
	}
	if len(a.rooms) != 0 {
		t.Fatal("client room set should be empty after RemoveAll")
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	a := NewClient("a", "alice", 0)

	if err := r.Register(a); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(NewClient("a", "impostor", 0)); err == nil {
		t.Fatal("duplicate registration should fail")
	}

	got, ok := r.Lookup("a")
	if !ok || got != a {
		t.Fatal("lookup should return the registered client")
	}

	if _, ok := r.Unregister("a"); !ok {
		t.Fatal("unregister should report presence")
	}
	if _, ok := r.Unregister("a"); ok {
		t.Fatal("second unregister should be a no-op")
	}
	if _, ok := r.Lookup("a"); ok {
		t.Fatal("lookup after unregister should fail")
	}
}
