package chatadmin

// RoomKind distinguishes public channels from private groups. The two kinds
// share a schema and operation set but live in different endpoint
// namespaces on the platform.
type RoomKind int

const (
	ChannelRoom RoomKind = iota
	GroupRoom
)

func (k RoomKind) String() string {
	if k == GroupRoom {
		return "group"
	}
	return "channel"
}

// Namespace returns the endpoint namespace the kind's operations live under.
func (k RoomKind) Namespace() string {
	if k == GroupRoom {
		return "groups"
	}
	return "channels"
}

// Room is a channel or group as the platform reports it at creation time.
// The platform is the system of record; the id is the only handle a caller
// needs to retain.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     RoomKind
	ReadOnly bool     `json:"read_only"`
	Private  bool     `json:"private"`
	Members  []string `json:"members"`
}
