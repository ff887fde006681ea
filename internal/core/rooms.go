package core

import "sync"

// RoomManager tracks which clients belong to which activity rooms. It
// keeps two synchronized indexes (room to clients, client to rooms via
// Client.rooms) that are only ever mutated together under its lock, so the
// membership relation stays symmetric after every operation.
type RoomManager struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]struct{}
}

// NewRoomManager constructs a room manager with no rooms.
func NewRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds the client to a room, creating the room on first join.
// Rejoining a room the client already belongs to reports joined=false and
// changes nothing. The returned slice is a snapshot of the other members
// taken under the lock; callers notify them outside it.
func (m *RoomManager) Join(c *Client, room string) (joined bool, others []*Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		m.rooms[room] = members
	}
	if _, exists := members[c]; exists {
		return false, nil
	}

	members[c] = struct{}{}
	c.rooms[room] = struct{}{}

	others = make([]*Client, 0, len(members)-1)
	for member := range members {
		if member != c {
			others = append(others, member)
		}
	}
	return true, others
}

// Leave removes the reciprocal membership. Leaving a room never joined is
// a no-op. The returned slice snapshots the remaining members. The room
// entry is dropped once its last member leaves.
func (m *RoomManager) Leave(c *Client, room string) (left bool, remaining []*Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaveLocked(c, room)
}

// RemoveAll removes the client from every room it belonged to, returning
// the remaining members per affected room so the caller can fire one
// "member left" notice per room. Used on disconnect.
func (m *RoomManager) RemoveAll(c *Client) map[string][]*Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	affected := make(map[string][]*Client, len(c.rooms))
	for room := range c.rooms {
		if left, remaining := m.leaveLocked(c, room); left {
			affected[room] = remaining
		}
	}
	return affected
}

// Members returns a snapshot of the room's current members. An unknown
// room yields an empty slice.
func (m *RoomManager) Members(room string) []*Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := m.rooms[room]
	out := make([]*Client, 0, len(members))
	for member := range members {
		out = append(out, member)
	}
	return out
}

// Contains reports whether the client currently belongs to the room.
func (m *RoomManager) Contains(c *Client, room string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.rooms[room]
	if !ok {
		return false
	}
	_, inRoom := members[c]
	_, inClient := c.rooms[room]
	return inRoom && inClient
}

func (m *RoomManager) leaveLocked(c *Client, room string) (bool, []*Client) {
	members, ok := m.rooms[room]
	if !ok {
		return false, nil
	}
	if _, exists := members[c]; !exists {
		return false, nil
	}

	delete(members, c)
	delete(c.rooms, room)
	if len(members) == 0 {
		delete(m.rooms, room)
		return true, nil
	}

	remaining := make([]*Client, 0, len(members))
	for member := range members {
		remaining = append(remaining, member)
	}
	return true, remaining
}
