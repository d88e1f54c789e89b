package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "flytire-admin"

// Session is an authenticated admin session.
type Session struct {
	ID        string
	Login     string
	Token     string
	ExpiresAt time.Time
}

// AuthService checks admin credentials and issues signed, expiring session
// tokens (HS256 JWTs). The credential check is exact string equality.
type AuthService struct {
	login    string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	revoked *bloom.BloomFilter
}

// NewAuthService creates an AuthService.
func NewAuthService(login, password string, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		login:    login,
		password: password,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		// sized for a long-running process; a false positive only forces a re-login
		revoked: bloom.NewWithEstimates(10_000, 0.0001),
	}
}

// Login returns a new session when the credentials match.
func (s *AuthService) Login(login, password string) (*Session, error) {
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.login)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !loginOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Login:     login,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.Login,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	sess.Token = token

	return sess, nil
}

// Verify parses a session token and checks signature, expiry and revocation.
func (s *AuthService) Verify(token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	s.mu.Lock()
	revoked := s.revoked.TestString(claims.ID)
	s.mu.Unlock()
	if revoked {
		return nil, ErrInvalidSession
	}

	return &Session{
		ID:        claims.ID,
		Login:     claims.Subject,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes a valid session token.
func (s *AuthService) Logout(token string) error {
	sess, err := s.Verify(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.revoked.AddString(sess.ID)
	s.mu.Unlock()
	return nil
}
