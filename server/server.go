// Package server hosts the admin facade: an authenticated HTTP surface
// mapping REST endpoints onto the platform client's operations.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/bcrypt"

	"github.com/hivelock/chatadmin"
)

// type for context.WithValue keys
type ctxKey string

const sessionCookie = "chatadmin-tok"

type serverError struct {
	Error   error
	Message string
	Status  int
}

// errHandler provides a less verbose way to handle errors. Every failure
// collapses to {"success": false} so callers keep the falsy contract.
type errHandler func(http.ResponseWriter, *http.Request) *serverError

func (fn errHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		logrus.Errorf("%v", err.Error)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(err.Status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Message,
		})
	}
}

type server struct {
	router *mux.Router

	// services
	Channels chatadmin.RoomAdmin
	Groups   chatadmin.RoomAdmin
	Users    chatadmin.UserAdmin
	Names    chatadmin.NameChecker
	Session  chatadmin.Reauthenticater
	Audit    chatadmin.Auditor

	secret   []byte
	operator Operator
}

// NewServer receives the platform services plus the facade's own operator
// account and wires them into routed handlers.
func NewServer(channels, groups chatadmin.RoomAdmin, users chatadmin.UserAdmin, names chatadmin.NameChecker, sess chatadmin.Reauthenticater, audit chatadmin.Auditor, secret []byte, op Operator) *server {
	s := &server{
		Channels: channels,
		Groups:   groups,
		Users:    users,
		Names:    names,
		Session:  sess,
		Audit:    audit,
		secret:   secret,
		operator: op,
	}

	router := mux.NewRouter().StrictSlash(true)
	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.Handle("/rooms", s.CreateRoom()).Methods("POST")
	apiRouter.Handle("/rooms/unique", s.UniqueName()).Methods("GET")
	apiRouter.Handle("/rooms/{id}/owner", s.AddOwner()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/description", s.SetDescription()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/topic", s.SetTopic()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/type", s.SetType()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/name", s.Rename()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/kick", s.Kick()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/invite", s.Invite()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/archive", s.Archive()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/unarchive", s.Unarchive()).Methods("POST")
	apiRouter.Handle("/rooms/{id}/close", s.CloseRoom()).Methods("POST")

	apiRouter.Handle("/users", s.CreateUser()).Methods("POST")
	apiRouter.Handle("/users/{id}", s.UpdateUser()).Methods("POST")
	apiRouter.Handle("/users/{id}/logout", s.LogoutUser()).Methods("POST")
	apiRouter.Handle("/users/{id}/profile", s.Profile()).Methods("GET")
	apiRouter.Handle("/users/{id}/notifications", s.Notifications()).Methods("GET")

	apiRouter.Handle("/session/reauth", s.Reauth()).Methods("POST")
	apiRouter.Handle("/audit", s.AuditTrail()).Methods("GET")
	apiRouter.Use(s.requireAuth) // must be authenticated to use the api endpoints

	router.Handle("/login", s.Login()).Methods("POST")
	router.Handle("/metrics", MetricsHandler()).Methods("GET")

	s.router = router
	return s
}

// Serve returns the handler chain to be used in http.ListenAndServe.
func (s *server) Serve() http.Handler {
	n := negroni.New(negroni.NewRecovery())
	n.UseHandler(Instrument(s.router))
	return n
}

// roomAdmin picks the channel or group service from the kind query param.
func (s *server) roomAdmin(r *http.Request) chatadmin.RoomAdmin {
	if r.URL.Query().Get("kind") == "group" {
		return s.Groups
	}
	return s.Channels
}

func respondOK(w http.ResponseWriter, extra map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	out := map[string]interface{}{"success": true}
	for k, v := range extra {
		out[k] = v
	}
	json.NewEncoder(w).Encode(out)
}

func (s *server) audit(r *http.Request, action, target, detail string) {
	if s.Audit == nil {
		return
	}
	actor, _ := r.Context().Value(ctxKey("operator")).(string)
	err := s.Audit.Record(&chatadmin.AuditEntry{
		ID:         uuid.New().String(),
		OccurredAt: time.Now().UTC(),
		Actor:      actor,
		Action:     action,
		Target:     target,
		Detail:     detail,
	})
	if err != nil {
		logrus.Errorf("Unable to record audit entry: %v", err)
	}
}

func (s *server) CreateRoom() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload createRoomPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		admin := s.roomAdmin(r)
		room, err := admin.Create(r.Context(), payload.Name, payload.Members, payload.ReadOnly)
		if err != nil {
			return &serverError{err, "Unable to create room", http.StatusBadGateway}
		}

		s.audit(r, admin.Kind().Namespace()+".create", room.ID, room.Name)
		respondOK(w, map[string]interface{}{"id": room.ID, "name": room.Name})
		return nil
	}
}

// memberAction handles the operations whose body is a single user id.
func (s *server) memberAction(action string, call func(chatadmin.RoomAdmin, context.Context, string, string) error) errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload memberPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		roomID := mux.Vars(r)["id"]
		admin := s.roomAdmin(r)
		if err := call(admin, r.Context(), roomID, payload.UserID); err != nil {
			return &serverError{err, "Unable to " + action, http.StatusBadGateway}
		}

		s.audit(r, admin.Kind().Namespace()+"."+action, roomID, payload.UserID)
		respondOK(w, nil)
		return nil
	}
}

func (s *server) AddOwner() errHandler {
	return s.memberAction("addOwner", chatadmin.RoomAdmin.AddOwner)
}

func (s *server) Kick() errHandler {
	return s.memberAction("kick", chatadmin.RoomAdmin.Kick)
}

func (s *server) Invite() errHandler {
	return s.memberAction("invite", chatadmin.RoomAdmin.Invite)
}

// textAction handles the operations whose body is a single text value.
func (s *server) textAction(action string, call func(chatadmin.RoomAdmin, context.Context, string, string) error) errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload textPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		roomID := mux.Vars(r)["id"]
		admin := s.roomAdmin(r)
		if err := call(admin, r.Context(), roomID, payload.Value); err != nil {
			return &serverError{err, "Unable to " + action, http.StatusBadGateway}
		}

		s.audit(r, admin.Kind().Namespace()+"."+action, roomID, payload.Value)
		respondOK(w, nil)
		return nil
	}
}

func (s *server) SetDescription() errHandler {
	return s.textAction("setDescription", chatadmin.RoomAdmin.SetDescription)
}

func (s *server) SetTopic() errHandler {
	return s.textAction("setTopic", chatadmin.RoomAdmin.SetTopic)
}

func (s *server) Rename() errHandler {
	return s.textAction("rename", chatadmin.RoomAdmin.Rename)
}

func (s *server) SetType() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload typePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		roomID := mux.Vars(r)["id"]
		admin := s.roomAdmin(r)
		if err := admin.SetType(r.Context(), roomID, payload.Private); err != nil {
			return &serverError{err, "Unable to set type", http.StatusBadGateway}
		}

		s.audit(r, admin.Kind().Namespace()+".setType", roomID, "")
		respondOK(w, nil)
		return nil
	}
}

// bareAction handles the operations that carry no body at all.
func (s *server) bareAction(action string, call func(chatadmin.RoomAdmin, context.Context, string) error) errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		roomID := mux.Vars(r)["id"]
		admin := s.roomAdmin(r)
		if err := call(admin, r.Context(), roomID); err != nil {
			return &serverError{err, "Unable to " + action, http.StatusBadGateway}
		}

		s.audit(r, admin.Kind().Namespace()+"."+action, roomID, "")
		respondOK(w, nil)
		return nil
	}
}

func (s *server) Archive() errHandler {
	return s.bareAction("archive", chatadmin.RoomAdmin.Archive)
}

func (s *server) Unarchive() errHandler {
	return s.bareAction("unarchive", chatadmin.RoomAdmin.Unarchive)
}

func (s *server) CloseRoom() errHandler {
	return s.bareAction("close", chatadmin.RoomAdmin.Close)
}

func (s *server) UniqueName() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		name := r.URL.Query().Get("name")
		if name == "" {
			return &serverError{errors.New("missing name parameter"), "Missing name parameter", http.StatusBadRequest}
		}

		unique, err := s.Names.IsUnique(r.Context(), name)
		if err != nil {
			return &serverError{err, "Unable to check name", http.StatusBadGateway}
		}

		respondOK(w, map[string]interface{}{"unique": unique})
		return nil
	}
}

func (s *server) CreateUser() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload createUserPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		id, err := s.Users.Create(r.Context(), payload.Email, payload.FullName, payload.Password)
		if err != nil {
			return &serverError{err, "Unable to create user", http.StatusBadGateway}
		}

		s.audit(r, "users.create", id, payload.Email)
		respondOK(w, map[string]interface{}{"id": id})
		return nil
	}
}

func (s *server) UpdateUser() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		userID := mux.Vars(r)["id"]
		if err := s.Users.Update(r.Context(), userID, fields); err != nil {
			return &serverError{err, "Unable to update user", http.StatusBadGateway}
		}

		s.audit(r, "users.update", userID, "")
		respondOK(w, nil)
		return nil
	}
}

func (s *server) LogoutUser() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		userID := mux.Vars(r)["id"]
		if err := s.Users.Logout(r.Context(), userID); err != nil {
			return &serverError{err, "Unable to log out user", http.StatusBadGateway}
		}

		s.audit(r, "users.logout", userID, "")
		respondOK(w, nil)
		return nil
	}
}

func (s *server) Profile() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		userID := mux.Vars(r)["id"]
		profile, err := s.Users.AboutMe(r.Context(), userID)
		if err != nil {
			return &serverError{err, "Unable to fetch profile", http.StatusBadGateway}
		}

		respondOK(w, map[string]interface{}{"profile": profile})
		return nil
	}
}

func (s *server) Notifications() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		userID := mux.Vars(r)["id"]
		summary, err := s.Users.Notifications(r.Context(), userID)
		if err != nil {
			return &serverError{err, "Unable to fetch notifications", http.StatusBadGateway}
		}

		respondOK(w, map[string]interface{}{"alert": summary.Alert, "unread": summary.Unread})
		return nil
	}
}

func (s *server) AuditTrail() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		if s.Audit == nil {
			return &serverError{errors.New("no audit store configured"), "Audit trail not configured", http.StatusNotFound}
		}

		limit := uint64(50)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return &serverError{err, "Invalid limit parameter", http.StatusBadRequest}
			}
			limit = parsed
		}

		entries, err := s.Audit.Recent(limit)
		if err != nil {
			return &serverError{err, "Unable to read audit trail", http.StatusInternalServerError}
		}

		respondOK(w, map[string]interface{}{"entries": entries})
		return nil
	}
}

func (s *server) Reauth() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		if err := s.Session.Reauthenticate(r.Context()); err != nil {
			return &serverError{err, "Unable to reauthenticate", http.StatusBadGateway}
		}

		s.audit(r, "session.reauth", "", "")
		respondOK(w, nil)
		return nil
	}
}

// Login authenticates the facade operator and stores a short-lived JWT in a
// cookie for the api routes.
func (s *server) Login() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var auther authInfo
		if err := json.NewDecoder(r.Body).Decode(&auther); err != nil {
			return &serverError{err, "Ill-formatted login attempt", http.StatusBadRequest}
		}

		if auther.Email != s.operator.Email {
			return &serverError{errors.New("unknown operator"), "Incorrect email/password", http.StatusForbidden}
		}
		if err := bcrypt.CompareHashAndPassword(s.operator.PasswordHash, []byte(auther.Password)); err != nil {
			return &serverError{errors.Wrap(err, "Incorrect password"), "Incorrect email/password", http.StatusForbidden}
		}

		expiration := time.Now().Add(time.Minute * 15)
		claims := &Token{
			Email:         auther.Email,
			Authenticated: true,
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: expiration.Unix(),
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString(s.secret)
		if err != nil {
			return &serverError{err, "Unable to sign token", http.StatusInternalServerError}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    tokenString,
			Expires:  expiration,
			HttpOnly: true,
		})

		respondOK(w, nil)
		return nil
	}
}

// requireAuth provides an authentication middleware
func (s *server) requireAuth(f http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			logrus.Error("Error with cookie ", err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims := &Token{}
		tkn, err := jwt.ParseWithClaims(c.Value, claims, func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil || !tkn.Valid {
			logrus.Error("Invalid facade token ", err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if !claims.Authenticated {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey("operator"), claims.Email)
		f.ServeHTTP(w, r.WithContext(ctx))
	})
}
