package signaling

import "iter"

// RoomTable is the room membership relation: roomId -> set of
// connection IDs, plus an explicit reverse index connId -> roomId so a
// connection's room is never guessed from transport internals. Rooms
// exist exactly while they have members. Like Registry, it is a plain
// table serialized by the Hub.
type RoomTable struct {
	members map[string]map[string]struct{}
	roomOf  map[string]string
}

// NewRoomTable returns an empty RoomTable.
func NewRoomTable() *RoomTable {
	return &RoomTable{
		members: make(map[string]map[string]struct{}),
		roomOf:  make(map[string]string),
	}
}

// Join adds connID to roomID, creating the room implicitly, and points
// the reverse index at roomID. It does not remove connID from any room
// it already occupies; the single-room policy belongs to the caller.
func (t *RoomTable) Join(roomID, connID string) {
	set, ok := t.members[roomID]
	if !ok {
		set = make(map[string]struct{})
		t.members[roomID] = set
	}
	set[connID] = struct{}{}
	t.roomOf[connID] = roomID
}

// Leave removes connID from roomID; the room is forgotten once its
// member set empties. Unknown room or member is a no-op.
func (t *RoomTable) Leave(roomID, connID string) {
	set, ok := t.members[roomID]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(t.members, roomID)
	}
	if t.roomOf[connID] == roomID {
		delete(t.roomOf, connID)
	}
}

// Members yields the connection IDs currently in roomID. The sequence
// is restartable and yields nothing for an unknown room.
func (t *RoomTable) Members(roomID string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for connID := range t.members[roomID] {
			if !yield(connID) {
				return
			}
		}
	}
}

// RoomOf returns the room connID currently occupies.
func (t *RoomTable) RoomOf(connID string) (string, bool) {
	roomID, ok := t.roomOf[connID]
	return roomID, ok
}

// IsMember reports whether connID is in roomID.
func (t *RoomTable) IsMember(roomID, connID string) bool {
	_, ok := t.members[roomID][connID]
	return ok
}

// Count returns the number of members in roomID.
func (t *RoomTable) Count(roomID string) int {
	return len(t.members[roomID])
}

// ActiveRooms returns the IDs of all rooms with at least one member.
func (t *RoomTable) ActiveRooms() []string {
	rooms := make([]string, 0, len(t.members))
	for id := range t.members {
		rooms = append(rooms, id)
	}
	return rooms
}
