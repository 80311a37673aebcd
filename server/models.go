package server

import "github.com/dgrijalva/jwt-go"

// Operator is the facade's own administrator account; the platform's admin
// credentials never leave the daemon.
type Operator struct {
	Email        string
	PasswordHash []byte // bcrypt
}

// Token carries the operator's facade session claims.
type Token struct {
	Email         string
	Authenticated bool
	jwt.StandardClaims
}

type authInfo struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createRoomPayload struct {
	Name     string   `json:"name"`
	Members  []string `json:"members"`
	ReadOnly bool     `json:"read_only"`
}

type memberPayload struct {
	UserID string `json:"user_id"`
}

type textPayload struct {
	Value string `json:"value"`
}

type typePayload struct {
	Private bool `json:"private"`
}

type createUserPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Password string `json:"password"`
}
