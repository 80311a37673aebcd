package chatadmin

import "context"

// RoomAdmin provides the full management operation set for one room kind.
// Channels and groups expose the same operations; an implementation is
// bound to a single kind and reports it through Kind.
type RoomAdmin interface {
	Kind() RoomKind

	Create(ctx context.Context, name string, members []string, readOnly bool) (*Room, error)
	AddOwner(ctx context.Context, roomID, userID string) error
	SetDescription(ctx context.Context, roomID, description string) error
	SetTopic(ctx context.Context, roomID, topic string) error
	SetType(ctx context.Context, roomID string, private bool) error
	Rename(ctx context.Context, roomID, name string) error
	Kick(ctx context.Context, roomID, userID string) error
	Invite(ctx context.Context, roomID, userID string) error
	Archive(ctx context.Context, roomID string) error
	Unarchive(ctx context.Context, roomID string) error
	Close(ctx context.Context, roomID string) error
}

// UserAdmin provides account management on the platform.
type UserAdmin interface {
	Create(ctx context.Context, email, fullname, password string) (string, error)
	Update(ctx context.Context, userID string, fields map[string]interface{}) error
	Logout(ctx context.Context, userID string) error
	AboutMe(ctx context.Context, userID string) (map[string]interface{}, error)
	Notifications(ctx context.Context, userID string) (*NotificationSummary, error)
}

// NameChecker reports whether a room name is free across both room kinds.
type NameChecker interface {
	IsUnique(ctx context.Context, name string) (bool, error)
}

// Reauthenticater re-runs the admin login flow and replaces the cached
// admin identity.
type Reauthenticater interface {
	Reauthenticate(ctx context.Context) error
}

// Auditor records provisioning actions and serves them back for review.
type Auditor interface {
	Record(*AuditEntry) error
	Recent(limit uint64) ([]*AuditEntry, error)
}
