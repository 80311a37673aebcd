package users_test

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
	"github.com/hivelock/chatadmin/translit"
	"github.com/hivelock/chatadmin/transport"
	"github.com/hivelock/chatadmin/users"
)

// fakePlatform serves login, token minting, and the user endpoints.
type fakePlatform struct {
	rejectToken   bool
	logoutCalls   int
	logoutHeaders http.Header
	createBody    map[string]interface{}
	updateBody    map[string]interface{}
	subscriptions string
}

func (f *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"userId": "admin-id", "authToken": "admin-token"},
		})
	})
	mux.HandleFunc("/api/v1/users.createToken", func(w http.ResponseWriter, r *http.Request) {
		if f.rejectToken {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success": false}`))
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"authToken": "minted-for-" + body["userId"]},
		})
	})
	mux.HandleFunc("/api/v1/users.create", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&f.createBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]string{"_id": "user-42"},
		})
	})
	mux.HandleFunc("/api/v1/users.update", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&f.updateBody)
		w.Write([]byte(`{"success": true}`))
	})
	mux.HandleFunc("/api/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls++
		f.logoutHeaders = r.Header.Clone()
		w.Write([]byte(`{"status": "success"}`))
	})
	mux.HandleFunc("/api/v1/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"_id":      r.Header.Get("X-User-Id"),
			"username": "jane",
			"success":  true,
		})
	})
	mux.HandleFunc("/api/v1/subscriptions.get", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(f.subscriptions))
	})
	return mux
}

func setup(t *testing.T, f *fakePlatform) (*httptest.Server, *users.Admin) {
	srv := httptest.NewServer(f.handler())
	tr := transport.New(srv.URL)
	sess, err := session.New(context.Background(), tr, "admin", "hunter2")
	require.NoError(t, err)
	return srv, users.NewAdmin(tr, sess, translit.Default())
}

func TestCreateSendsDerivedUsername(t *testing.T) {
	platform := &fakePlatform{}
	srv, admin := setup(t, platform)
	defer srv.Close()

	id, err := admin.Create(context.Background(), "a.b@x.co", "A B", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)

	assert.Equal(t, "a.b@x.co", platform.createBody["email"])
	assert.Equal(t, "A B", platform.createBody["name"])
	assert.Equal(t, "A_B_a.b", platform.createBody["username"])
	assert.Equal(t, "secret", platform.createBody["password"])
}

func TestCreateRejectsBadEmailBeforeNetwork(t *testing.T) {
	platform := &fakePlatform{}
	srv, admin := setup(t, platform)
	defer srv.Close()

	_, err := admin.Create(context.Background(), "nodomain", "A B", "secret")
	require.Error(t, err)
	assert.Nil(t, platform.createBody)
}

func TestUpdateWrapsFieldsUnderData(t *testing.T) {
	platform := &fakePlatform{}
	srv, admin := setup(t, platform)
	defer srv.Close()

	err := admin.Update(context.Background(), "user-42", map[string]interface{}{
		"name":  "Jane D",
		"email": "jane@new.co",
	})
	require.NoError(t, err)

	assert.Equal(t, "user-42", platform.updateBody["userId"])
	data := platform.updateBody["data"].(map[string]interface{})
	assert.Equal(t, "Jane D", data["name"])
	assert.Equal(t, "jane@new.co", data["email"])
}

func TestLogoutUsesDelegatedHeaders(t *testing.T) {
	platform := &fakePlatform{}
	srv, admin := setup(t, platform)
	defer srv.Close()

	require.NoError(t, admin.Logout(context.Background(), "user-42"))
	assert.Equal(t, 1, platform.logoutCalls)
	assert.Equal(t, "user-42", platform.logoutHeaders.Get("X-User-Id"))
	assert.Equal(t, "minted-for-user-42", platform.logoutHeaders.Get("X-Auth-Token"))
}

func TestLogoutShortCircuitsWhenTokenMintingFails(t *testing.T) {
	platform := &fakePlatform{rejectToken: true}
	srv, admin := setup(t, platform)
	defer srv.Close()

	// nothing to log out: success without a network call
	require.NoError(t, admin.Logout(context.Background(), "user-42"))
	assert.Equal(t, 0, platform.logoutCalls)
}

func TestAboutMeActsAsUser(t *testing.T) {
	platform := &fakePlatform{}
	srv, admin := setup(t, platform)
	defer srv.Close()

	profile, err := admin.AboutMe(context.Background(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "user-42", profile["_id"])
	assert.Equal(t, "jane", profile["username"])
}

func TestNotificationsSumsOnlyAlertedEntries(t *testing.T) {
	platform := &fakePlatform{subscriptions: `{"update": [
		{"alert": true, "unread": 3},
		{"alert": false, "unread": 5},
		{"alert": true, "unread": 2}
	]}`}
	srv, admin := setup(t, platform)
	defer srv.Close()

	summary, err := admin.Notifications(context.Background(), "user-42")
	require.NoError(t, err)
	assert.True(t, summary.Alert)
	assert.Equal(t, 5, summary.Unread) // 3 + 2; the alert:false entry counts for nothing
}

func TestNotificationsNoAlerts(t *testing.T) {
	platform := &fakePlatform{subscriptions: `{"update": [
		{"alert": false, "unread": 7}
	]}`}
	srv, admin := setup(t, platform)
	defer srv.Close()

	summary, err := admin.Notifications(context.Background(), "user-42")
	require.NoError(t, err)
	assert.False(t, summary.Alert)
	assert.Equal(t, 0, summary.Unread)
}

func TestNotificationsFailedImpersonationSurfacesTokenError(t *testing.T) {
	platform := &fakePlatform{rejectToken: true, subscriptions: `{"update": []}`}
	srv, admin := setup(t, platform)
	defer srv.Close()

	_, err := admin.Notifications(context.Background(), "user-42")
	require.Error(t, err)
	assert.True(t, chatadmin.IsKind(err, chatadmin.KindDerivedToken))
}
