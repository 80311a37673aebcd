package mocks

import (
	"context"
	"strings"

	"github.com/hivelock/chatadmin"
)

// RoomAdmin records the operations invoked on it and answers with canned
// results. Set Err to make every operation fail.
type RoomAdmin struct {
	RoomKind chatadmin.RoomKind
	Err      error

	Calls   []string
	Created []*chatadmin.Room
}

func NewRoomAdmin(kind chatadmin.RoomKind) *RoomAdmin {
	return &RoomAdmin{RoomKind: kind}
}

func (m *RoomAdmin) Kind() chatadmin.RoomKind { return m.RoomKind }

func (m *RoomAdmin) Create(ctx context.Context, name string, members []string, readOnly bool) (*chatadmin.Room, error) {
	m.Calls = append(m.Calls, "create "+name)
	if m.Err != nil {
		return nil, m.Err
	}
	room := &chatadmin.Room{
		ID:       "room-1",
		Name:     name,
		Kind:     m.RoomKind,
		ReadOnly: readOnly,
		Private:  m.RoomKind == chatadmin.GroupRoom,
		Members:  members,
	}
	m.Created = append(m.Created, room)
	return room, nil
}

func (m *RoomAdmin) AddOwner(ctx context.Context, roomID, userID string) error {
	return m.record("addOwner", roomID, userID)
}

func (m *RoomAdmin) SetDescription(ctx context.Context, roomID, description string) error {
	return m.record("setDescription", roomID, description)
}

func (m *RoomAdmin) SetTopic(ctx context.Context, roomID, topic string) error {
	return m.record("setTopic", roomID, topic)
}

func (m *RoomAdmin) SetType(ctx context.Context, roomID string, private bool) error {
	kind := "c"
	if private {
		kind = "p"
	}
	return m.record("setType", roomID, kind)
}

func (m *RoomAdmin) Rename(ctx context.Context, roomID, name string) error {
	return m.record("rename", roomID, name)
}

func (m *RoomAdmin) Kick(ctx context.Context, roomID, userID string) error {
	return m.record("kick", roomID, userID)
}

func (m *RoomAdmin) Invite(ctx context.Context, roomID, userID string) error {
	return m.record("invite", roomID, userID)
}

func (m *RoomAdmin) Archive(ctx context.Context, roomID string) error {
	return m.record("archive", roomID)
}

func (m *RoomAdmin) Unarchive(ctx context.Context, roomID string) error {
	return m.record("unarchive", roomID)
}

func (m *RoomAdmin) Close(ctx context.Context, roomID string) error {
	return m.record("close", roomID)
}

func (m *RoomAdmin) record(parts ...string) error {
	m.Calls = append(m.Calls, strings.Join(parts, " "))
	return m.Err
}
