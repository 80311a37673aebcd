// Package users implements account management: creation with a derived
// username, updates, logout, profile lookup, and unread aggregation.
package users

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hivelock/chatadmin"
	"github.com/hivelock/chatadmin/session"
	"github.com/hivelock/chatadmin/translit"
	"github.com/hivelock/chatadmin/transport"
)

// Admin performs user operations. Admin-scoped calls run under the cached
// admin identity; user-scoped calls (logout, profile, notifications) run
// under a freshly derived delegated identity.
type Admin struct {
	tr   *transport.Client
	sess *session.Session
	tl   translit.Transliterator
}

// NewAdmin wires the transport, session, and transliterator into an Admin.
func NewAdmin(tr *transport.Client, sess *session.Session, tl translit.Transliterator) *Admin {
	return &Admin{tr: tr, sess: sess, tl: tl}
}

type createEnvelope struct {
	User *struct {
		ID string `json:"_id"`
	} `json:"user"`
}

// Create registers a platform account. The username is derived from the
// full name and email (see Username) and never regenerated afterward.
// Returns the platform-assigned user id.
func (a *Admin) Create(ctx context.Context, email, fullname, password string) (string, error) {
	const op = "users.create"

	username, err := Username(a.tl, fullname, email)
	if err != nil {
		return "", errors.Wrap(err, "derive username")
	}

	body := map[string]interface{}{
		"email":    email,
		"name":     fullname,
		"username": username,
		"password": password,
	}

	var env createEnvelope
	admin := a.sess.Admin()
	if err := a.tr.Call(ctx, http.MethodPost, op, &admin, body, nil, &env); err != nil {
		return "", chatadmin.E(transport.Classify(err), op, err)
	}
	if env.User == nil || env.User.ID == "" {
		return "", chatadmin.E(chatadmin.KindBadPayload, op, errors.New("response missing user id"))
	}
	return env.User.ID, nil
}

type ackEnvelope struct {
	Success bool `json:"success"`
}

// Update submits a free-form set of attribute changes for userID. The field
// map is open-ended (name, email, ...), not a fixed schema.
func (a *Admin) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	const op = "users.update"
	body := map[string]interface{}{"userId": userID, "data": fields}

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

// Logout ends the user's platform session. When no delegated token can be
// minted there is no live session to end, so the call reports success
// without touching the network.
func (a *Admin) Logout(ctx context.Context, userID string) error {
	const op = "logout"

	ident, err := a.sess.Impersonate(ctx, userID)
	if err != nil {
		logrus.Warnf("logout %s: no delegated token, treating as signed out: %v", userID, err)
		return nil
	}

	if err := a.tr.Call(ctx, http.MethodPost, op, &ident, nil, nil, nil); err != nil {
		return chatadmin.E(transport.Classify(err), op, err)
	}
	return nil
}

// AboutMe fetches the user's raw profile payload, acting as the user.
func (a *Admin) AboutMe(ctx context.Context, userID string) (map[string]interface{}, error) {
	const op = "me"

	ident, err := a.sess.Impersonate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var profile map[string]interface{}
	if err := a.tr.Call(ctx, http.MethodGet, op, &ident, nil, nil, &profile); err != nil {
		return nil, chatadmin.E(transport.Classify(err), op, err)
	}
	return profile, nil
}

type subscriptionsEnvelope struct {
	Update []struct {
		Alert  bool `json:"alert"`
		Unread int  `json:"unread"`
	} `json:"update"`
}

// Notifications aggregates the user's unread state across subscriptions.
// Only entries with the alert flag raised contribute to the unread total;
// an entry with unread messages but no alert counts for nothing.
func (a *Admin) Notifications(ctx context.Context, userID string) (*chatadmin.NotificationSummary, error) {
	const op = "subscriptions.get"

	ident, err := a.sess.Impersonate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var env subscriptionsEnvelope
	if err := a.tr.Call(ctx, http.MethodGet, op, &ident, nil, nil, &env); err != nil {
		return nil, chatadmin.E(transport.Classify(err), op, err)
	}

	summary := &chatadmin.NotificationSummary{}
	for _, sub := range env.Update {
		if sub.Alert {
			summary.Alert = true
			summary.Unread += sub.Unread
		}
	}
	return summary, nil
}
