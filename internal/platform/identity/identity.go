// Package identity resolves caller credentials into a stable user identity.
// The core never parses credential formats anywhere else; token issuance and
// credential storage belong to the external identity subsystem.
package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUnauthenticated = errors.New("caller is not authenticated")

// Identity is the resolved caller: a stable opaque user identifier plus role.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Claims carries the token assertions the board relies on. The subject claim
// holds the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Resolver verifies bearer tokens issued by the external identity subsystem.
type Resolver struct {
	secret []byte
}

func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// Resolve maps a bearer token to an Identity or fails with ErrUnauthenticated.
func (r *Resolver) Resolve(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrUnauthenticated
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return Identity{}, ErrUnauthenticated
	}
	role := strings.TrimSpace(claims.Role)
	if role != RoleAdmin {
		role = RoleUser
	}
	return Identity{UserID: userID, Role: role}, nil
}

// IssueToken signs a token for the given identity. The board itself never
// issues tokens in production; this exists for local wiring and tests.
func (r *Resolver) IssueToken(id Identity, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Role: id.Role,
	})
	return token.SignedString(r.secret)
}
