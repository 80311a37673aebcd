// Package rooms implements the management operation set for channels and
// groups. The two kinds share a schema and differ only in their endpoint
// namespace, so a single Admin parameterized by kind serves both.
package rooms

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/hivelock/chatadmin"
	"github.com/hivelock/chatadmin/session"
	"github.com/hivelock/chatadmin/translit"
	"github.com/hivelock/chatadmin/transport"
)

// Admin performs room operations of one kind under the cached admin
// identity.
type Admin struct {
	kind chatadmin.RoomKind
	tr   *transport.Client
	sess *session.Session
	tl   translit.Transliterator
}

// NewChannelAdmin returns an Admin bound to the channels namespace.
func NewChannelAdmin(tr *transport.Client, sess *session.Session, tl translit.Transliterator) *Admin {
	return &Admin{kind: chatadmin.ChannelRoom, tr: tr, sess: sess, tl: tl}
}

// NewGroupAdmin returns an Admin bound to the groups namespace.
func NewGroupAdmin(tr *transport.Client, sess *session.Session, tl translit.Transliterator) *Admin {
	return &Admin{kind: chatadmin.GroupRoom, tr: tr, sess: sess, tl: tl}
}

func (a *Admin) Kind() chatadmin.RoomKind { return a.kind }

func (a *Admin) endpoint(action string) string {
	return a.kind.Namespace() + "." + action
}

type roomPayload struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	ReadOnly bool   `json:"ro"`
}

type createEnvelope struct {
	Success bool         `json:"success"`
	Channel *roomPayload `json:"channel"`
	Group   *roomPayload `json:"group"`
}

func (e *createEnvelope) room(kind chatadmin.RoomKind) *roomPayload {
	if kind == chatadmin.GroupRoom {
		return e.Group
	}
	return e.Channel
}

type ackEnvelope struct {
	Success bool `json:"success"`
}

// Create makes a new room. The submitted name is made wire-safe (spaces to
// underscores, then transliterated); the platform may still adjust it, and
// the returned Room carries the platform's id and name as authoritative.
func (a *Admin) Create(ctx context.Context, name string, members []string, readOnly bool) (*chatadmin.Room, error) {
	op := a.endpoint("create")
	if members == nil {
		members = []string{}
	}
	body := map[string]interface{}{
		"name":     translit.Identifier(a.tl, name),
		"members":  members,
		"readOnly": readOnly,
	}

	var env createEnvelope
	admin := a.sess.Admin()
	if err := a.tr.Call(ctx, http.MethodPost, op, &admin, body, nil, &env); err != nil {
		return nil, chatadmin.E(transport.Classify(err), op, err)
	}
	payload := env.room(a.kind)
	if !env.Success || payload == nil {
		return nil, chatadmin.E(chatadmin.KindBadPayload, op, errors.Errorf("response missing %s payload", a.kind))
	}

	return &chatadmin.Room{
		ID:       payload.ID,
		Name:     payload.Name,
		Kind:     a.kind,
		ReadOnly: readOnly,
		Private:  a.kind == chatadmin.GroupRoom,
		Members:  members,
	}, nil
}

// AddOwner grants userID the owner role in the room.
func (a *Admin) AddOwner(ctx context.Context, roomID, userID string) error {
	return a.post(ctx, "addOwner", map[string]interface{}{"roomId": roomID, "userId": userID})
}

// SetDescription replaces the room's description.
func (a *Admin) SetDescription(ctx context.Context, roomID, description string) error {
	return a.post(ctx, "setDescription", map[string]interface{}{"roomId": roomID, "description": description})
}

// SetTopic replaces the room's topic.
func (a *Admin) SetTopic(ctx context.Context, roomID, topic string) error {
	return a.post(ctx, "setTopic", map[string]interface{}{"roomId": roomID, "topic": topic})
}

// SetType flips the room between private ("p") and public ("c"). No other
// wire value is ever produced.
func (a *Admin) SetType(ctx context.Context, roomID string, private bool) error {
	kind := "c"
	if private {
		kind = "p"
	}
	return a.post(ctx, "setType", map[string]interface{}{"roomId": roomID, "type": kind})
}

// Rename changes the room's name. The name passes through untouched: unlike
// Create there is no transliteration here, and the asymmetry is deliberate.
func (a *Admin) Rename(ctx context.Context, roomID, name string) error {
	return a.post(ctx, "rename", map[string]interface{}{"roomId": roomID, "name": name})
}

// Kick removes userID from the room.
func (a *Admin) Kick(ctx context.Context, roomID, userID string) error {
	return a.post(ctx, "kick", map[string]interface{}{"roomId": roomID, "userId": userID})
}

// Invite adds userID to the room.
func (a *Admin) Invite(ctx context.Context, roomID, userID string) error {
	return a.post(ctx, "invite", map[string]interface{}{"roomId": roomID, "userId": userID})
}

// Archive archives the room.
func (a *Admin) Archive(ctx context.Context, roomID string) error {
	return a.post(ctx, "archive", map[string]interface{}{"roomId": roomID})
}

// Unarchive restores an archived room.
func (a *Admin) Unarchive(ctx context.Context, roomID string) error {
	return a.post(ctx, "unarchive", map[string]interface{}{"roomId": roomID})
}

// Close hides the room from the admin's room list.
func (a *Admin) Close(ctx context.Context, roomID string) error {
	return a.post(ctx, "close", map[string]interface{}{"roomId": roomID})
}

// post runs one acknowledged mutation. Failures map uniformly: non-200 or a
// network error is a transport failure, a 200 the platform marked
// unsuccessful is treated the same way.
func (a *Admin) post(ctx context.Context, action string, body map[string]interface{}) error {
	op := a.endpoint(action)

	var env ackEnvelope
	admin := a.sess.Admin()
	if err := a.tr.Call(ctx, http.MethodPost, op, &admin, body, nil, &env); err != nil {
		return chatadmin.E(transport.Classify(err), op, err)
	}
	if !env.Success {
		return chatadmin.E(chatadmin.KindTransport, op, errors.New("platform rejected the call"))
	}
	return nil
}
