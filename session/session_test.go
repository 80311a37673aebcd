package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivelock/chatadmin"
	"github.com/hivelock/chatadmin/session"
	"github.com/hivelock/chatadmin/transport"
)

// fakePlatform serves the login and token endpoints the session touches.
type fakePlatform struct {
	rejectLogin bool
	rejectToken bool
	loginCount  int
	tokenCount  int
}

func (f *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCount++
		if f.rejectLogin {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status":"error"}`))
			return
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data": map[string]string{
				"userId":    "admin-id",
				"authToken": "admin-token-" + creds["user"],
			},
		})
	})
	mux.HandleFunc("/api/v1/users.createToken", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCount++
		if r.Header.Get("X-Auth-Token") == "" || r.Header.Get("X-User-Id") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.rejectToken {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success": false}`))
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]string{
				"userId":    body["userId"],
				"authToken": "minted-for-" + body["userId"],
			},
		})
	})
	return mux
}

func TestNewAuthenticates(t *testing.T) {
	platform := &fakePlatform{}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "hunter2")
	require.NoError(t, err)

	admin := sess.Admin()
	assert.Equal(t, "admin-id", admin.UserID)
	assert.Equal(t, "admin-token-admin", admin.AuthToken)
	assert.False(t, admin.Zero())
}

func TestNewRejectedLoginLeavesZeroIdentity(t *testing.T) {
	platform := &fakePlatform{rejectLogin: true}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, chatadmin.IsKind(err, chatadmin.KindAuthentication))

	// degenerate but alive: a zero identity, repairable later
	require.NotNil(t, sess)
	assert.True(t, sess.Admin().Zero())
}

func TestReauthenticateReplacesIdentity(t *testing.T) {
	platform := &fakePlatform{rejectLogin: true}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "hunter2")
	require.Error(t, err)
	assert.True(t, sess.Admin().Zero())

	platform.rejectLogin = false
	require.NoError(t, sess.Reauthenticate(context.Background()))
	assert.Equal(t, "admin-id", sess.Admin().UserID)
	assert.Equal(t, 2, platform.loginCount)
}

func TestReauthenticateFailureZeroesIdentity(t *testing.T) {
	platform := &fakePlatform{}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "hunter2")
	require.NoError(t, err)

	platform.rejectLogin = true
	err = sess.Reauthenticate(context.Background())
	require.Error(t, err)
	assert.True(t, sess.Admin().Zero())
}

func TestMintTokenUsesAdminHeaders(t *testing.T) {
	platform := &fakePlatform{}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "hunter2")
	require.NoError(t, err)

	token, err := sess.MintToken(context.Background(), "user-7")
	require.NoError(t, err)
	assert.Equal(t, "minted-for-user-7", token)
}

func TestMintTokenFailsClosed(t *testing.T) {
	platform := &fakePlatform{rejectToken: true}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "hunter2")
	require.NoError(t, err)

	token, err := sess.MintToken(context.Background(), "user-7")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, chatadmin.IsKind(err, chatadmin.KindDerivedToken))
}

func TestImpersonateWrapsMintedToken(t *testing.T) {
	platform := &fakePlatform{}
	srv := httptest.NewServer(platform.handler())
	defer srv.Close()

	sess, err := session.New(context.Background(), transport.New(srv.URL), "admin", "hunter2")
	require.NoError(t, err)

	ident, err := sess.Impersonate(context.Background(), "user-7")
	require.NoError(t, err)
	assert.Equal(t, "user-7", ident.UserID)
	assert.Equal(t, "minted-for-user-7", ident.AuthToken)

	headers := ident.Headers()
	assert.Equal(t, "user-7", headers["X-User-Id"])
	assert.Equal(t, "minted-for-user-7", headers["X-Auth-Token"])
}
