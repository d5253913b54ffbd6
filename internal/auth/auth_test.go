package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUser     = "operator"
	testPassword = "correct horse battery staple"
	testSecret   = "test-signing-secret"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return New(testUser, string(hash), testSecret)
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken(testUser, testPassword)
	if err != nil {
		t.Fatalf("expected successful login, got %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	identity, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if identity.Username != testUser {
		t.Fatalf("expected subject %q, got %q", testUser, identity.Username)
	}
}

func TestTokenExpiry(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken(testUser, testPassword)
	if err != nil {
		t.Fatal(err)
	}

	// Still valid just inside the window
	svc.now = func() time.Time { return time.Now().Add(TokenTTL - time.Minute) }
	if _, err := svc.ValidateToken(token); err != nil {
		t.Fatalf("token should be valid before expiry, got %v", err)
	}

	// Rejected past expiry
	svc.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
}

func TestInvalidCredentialsIndistinguishable(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", testUser, "wrong"},
		{"unknown username", "someone-else", testPassword},
		{"both wrong", "someone-else", "wrong"},
		{"empty username", "", testPassword},
		{"empty password", testUser, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.IssueToken(tc.username, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestValidateRejectsForeignKey(t *testing.T) {
	svc := newTestService(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	other := New(testUser, string(hash), "a-different-secret")

	token, err := other.IssueToken(testUser, testPassword)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestValidateRejectsTamperedSubject(t *testing.T) {
	svc := newTestService(t)

	// Correctly signed, but for a subject that is not the operator.
	claims := jwt.RegisteredClaims{
		Subject:   "intruder",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign subject, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateToken(token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
		}
	}
}
