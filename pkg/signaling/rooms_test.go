package signaling

import "testing"

func collectMembers(rt *RoomTable, roomID string) map[string]bool {
	got := make(map[string]bool)
	for id := range rt.Members(roomID) {
		got[id] = true
	}
	return got
}

func TestRoomTableJoin(t *testing.T) {
	rt := NewRoomTable()

	rt.Join("42", "a")

	if !rt.IsMember("42", "a") {
		t.Error("expected a to be a member of room 42")
	}
	if got := rt.Count("42"); got != 1 {
		t.Errorf("expected 1 member, got %d", got)
	}
	roomID, ok := rt.RoomOf("a")
	if !ok || roomID != "42" {
		t.Errorf("expected RoomOf(a) = 42, got %q (ok=%v)", roomID, ok)
	}
}

func TestRoomTableMembershipSet(t *testing.T) {
	rt := NewRoomTable()

	// N joins, M leaves: the member set is exactly the still-joined ids.
	joins := []string{"a", "b", "c", "d"}
	for _, id := range joins {
		rt.Join("42", id)
	}
	rt.Leave("42", "b")
	rt.Leave("42", "d")

	want := map[string]bool{"a": true, "c": true}
	got := collectMembers(rt, "42")
	if len(got) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(got))
	}
	for id := range want {
		if !got[id] {
			t.Errorf("expected %s to remain a member", id)
		}
	}
}

func TestRoomTableMembersRestartable(t *testing.T) {
	rt := NewRoomTable()
	rt.Join("42", "a")
	rt.Join("42", "b")

	first := collectMembers(rt, "42")
	second := collectMembers(rt, "42")

	if len(first) != 2 || len(second) != 2 {
		t.Errorf("expected both iterations to yield 2 members, got %d and %d", len(first), len(second))
	}
}

func TestRoomTableImplicitLifecycle(t *testing.T) {
	rt := NewRoomTable()

	if got := len(rt.ActiveRooms()); got != 0 {
		t.Errorf("expected no active rooms initially, got %d", got)
	}

	rt.Join("42", "a")
	if got := rt.ActiveRooms(); len(got) != 1 || got[0] != "42" {
		t.Errorf("expected active rooms [42], got %v", got)
	}

	// Last member out: the room ceases to exist.
	rt.Leave("42", "a")
	if got := len(rt.ActiveRooms()); got != 0 {
		t.Errorf("expected no active rooms after last leave, got %d", got)
	}
	if got := len(collectMembers(rt, "42")); got != 0 {
		t.Errorf("expected no members in forgotten room, got %d", got)
	}
}

func TestRoomTableLeaveClearsReverseIndex(t *testing.T) {
	rt := NewRoomTable()
	rt.Join("42", "a")
	rt.Leave("42", "a")

	if _, ok := rt.RoomOf("a"); ok {
		t.Error("expected reverse index entry to be cleared on leave")
	}

	// Leaving an unknown room or member must not panic or mutate state.
	rt.Leave("42", "a")
	rt.Leave("no-such-room", "a")
}

func TestRoomTableReverseIndexFollowsLatestJoin(t *testing.T) {
	rt := NewRoomTable()
	rt.Join("42", "a")
	rt.Join("99", "a")

	roomID, ok := rt.RoomOf("a")
	if !ok || roomID != "99" {
		t.Errorf("expected RoomOf(a) = 99 after second join, got %q", roomID)
	}
	// Leaving the old room must not disturb the newer reverse entry.
	rt.Leave("42", "a")
	roomID, ok = rt.RoomOf("a")
	if !ok || roomID != "99" {
		t.Errorf("expected RoomOf(a) = 99 after leaving old room, got %q", roomID)
	}
}
