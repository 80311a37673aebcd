package chatadmin_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/hivelock/chatadmin"
)

func TestIdentityHeaders(t *testing.T) {
	ident := chatadmin.Identity{UserID: "user-1", AuthToken: "token-1"}

	headers := ident.Headers()
	assert.Equal(t, "token-1", headers["X-Auth-Token"])
	assert.Equal(t, "user-1", headers["X-User-Id"])
	assert.False(t, ident.Zero())
	assert.True(t, chatadmin.Identity{}.Zero())
}

func TestRoomKindNamespaces(t *testing.T) {
	assert.Equal(t, "channels", chatadmin.ChannelRoom.Namespace())
	assert.Equal(t, "groups", chatadmin.GroupRoom.Namespace())
	assert.Equal(t, "channel", chatadmin.ChannelRoom.String())
	assert.Equal(t, "group", chatadmin.GroupRoom.String())
}

func TestIsKindSeesThroughWrapping(t *testing.T) {
	base := chatadmin.E(chatadmin.KindDerivedToken, "users.createToken", errors.New("boom"))
	wrapped := errors.Wrap(base, "outer context")

	assert.True(t, chatadmin.IsKind(wrapped, chatadmin.KindDerivedToken))
	assert.False(t, chatadmin.IsKind(wrapped, chatadmin.KindTransport))
	assert.False(t, chatadmin.IsKind(errors.New("plain"), chatadmin.KindTransport))
}

func TestErrorMessageNamesOpAndKind(t *testing.T) {
	err := chatadmin.E(chatadmin.KindAuthentication, "login", errors.New("401"))
	assert.Contains(t, err.Error(), "login")
	assert.Contains(t, err.Error(), "authentication failed")
}
