// Package auth implements login for the single configured operator
// account: bcrypt password verification and HS256 JWT issuance/validation.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued access token remains valid.
const TokenTTL = 60 * time.Minute

var (
	// ErrInvalidCredentials is returned for any login failure. Unknown
	// username and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned for any token validation failure.
	ErrUnauthorized = errors.New("unauthorized")
)

// Identity is the authenticated caller extracted from a valid token.
type Identity struct {
	Username string
}

// Service issues and validates access tokens for the operator account.
type Service struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// New creates an auth service for the configured operator identity.
// passwordHash is a bcrypt hash; secret signs and verifies tokens.
func New(username, passwordHash, secret string) *Service {
	return &Service{
		username:     username,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          TokenTTL,
		now:          time.Now,
	}
}

// IssueToken verifies the supplied credentials against the operator
// account and returns a signed token on success. All failures return
// ErrInvalidCredentials.
func (s *Service) IssueToken(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	// Run both checks unconditionally so a wrong username costs the same
	// as a wrong password.
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	if !usernameOK || !passwordOK {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// ValidateToken verifies the token's signature and expiry and checks the
// subject against the operator username. All failures return
// ErrUnauthorized.
func (s *Service) ValidateToken(tokenString string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	if claims.Subject != s.username {
		return Identity{}, ErrUnauthorized
	}
	return Identity{Username: claims.Subject}, nil
}
