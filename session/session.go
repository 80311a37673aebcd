// Package session owns the privileged admin identity: it logs in, caches
// the resulting credentials, and mints short-lived delegated tokens so the
// client can act as arbitrary end users.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hivelock/chatadmin"
	"github.com/hivelock/chatadmin/transport"
)

// Session holds the admin identity for the life of the process. The
// identity is written only at construction or during Reauthenticate and is
// read under an RWMutex, so in-flight calls race against reauthentication
// only by observing the old identity, never a torn one.
type Session struct {
	tr       *transport.Client
	username string
	password string

	mu    sync.RWMutex
	admin chatadmin.Identity
}

// New logs in as the admin account. On a rejected login the returned
// session is still usable: it holds a zero identity and can be repaired
// with Reauthenticate. The error reports the rejection either way.
func New(ctx context.Context, tr *transport.Client, username, password string) (*Session, error) {
	s := &Session{tr: tr, username: username, password: password}
	ident, err := s.Authorize(ctx, username, password)
	if err != nil {
		logrus.Errorf("admin login failed: %v", err)
		return s, err
	}
	s.admin = ident
	return s, nil
}

type loginEnvelope struct {
	Data struct {
		UserID    string `json:"userId"`
		AuthToken string `json:"authToken"`
	} `json:"data"`
}

// Authorize performs an unauthenticated login and returns the resulting
// identity without caching it.
func (s *Session) Authorize(ctx context.Context, username, password string) (chatadmin.Identity, error) {
	const op = "login"
	body := map[string]string{"user": username, "password": password}

	var env loginEnvelope
	if err := s.tr.Call(ctx, http.MethodPost, op, nil, body, nil, &env); err != nil {
		kind := transport.Classify(err)
		if kind == chatadmin.KindTransport {
			kind = chatadmin.KindAuthentication
		}
		return chatadmin.Identity{}, chatadmin.E(kind, op, err)
	}
	if env.Data.UserID == "" || env.Data.AuthToken == "" {
		return chatadmin.Identity{}, chatadmin.E(chatadmin.KindBadPayload, op, errors.New("login response missing credentials"))
	}
	return chatadmin.Identity{UserID: env.Data.UserID, AuthToken: env.Data.AuthToken}, nil
}

// Reauthenticate re-runs the login flow and atomically replaces the cached
// admin identity. A failed login leaves a zero identity, the same state a
// failed construction produces.
func (s *Session) Reauthenticate(ctx context.Context) error {
	ident, err := s.Authorize(ctx, s.username, s.password)

	s.mu.Lock()
	s.admin = ident
	s.mu.Unlock()
	return err
}

// Admin returns the cached admin identity.
func (s *Session) Admin() chatadmin.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

type tokenEnvelope struct {
	Data struct {
		AuthToken string `json:"authToken"`
	} `json:"data"`
}

// MintToken creates a fresh delegated token for userID under the admin's
// authorization. The admin account must hold privilege over arbitrary
// users. Fails closed: any failure yields an empty token and an error.
func (s *Session) MintToken(ctx context.Context, userID string) (string, error) {
	const op = "users.createToken"
	admin := s.Admin()

	var env tokenEnvelope
	if err := s.tr.Call(ctx, http.MethodPost, op, &admin, map[string]string{"userId": userID}, nil, &env); err != nil {
		return "", chatadmin.E(chatadmin.KindDerivedToken, op, err)
	}
	if env.Data.AuthToken == "" {
		return "", chatadmin.E(chatadmin.KindDerivedToken, op, errors.New("token response missing authToken"))
	}
	return env.Data.AuthToken, nil
}

// Impersonate derives an identity for an arbitrary end user by minting a
// token on their behalf. The identity is not cached.
func (s *Session) Impersonate(ctx context.Context, userID string) (chatadmin.Identity, error) {
	token, err := s.MintToken(ctx, userID)
	if err != nil {
		return chatadmin.Identity{}, err
	}
	return chatadmin.Identity{UserID: userID, AuthToken: token}, nil
}
