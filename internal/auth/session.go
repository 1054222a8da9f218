// Package auth issues and verifies session tokens.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/utils"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CookieName is the session cookie set on login
const CookieName = "admin-token"

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the verified caller of a request
type Identity struct {
	UserID string
	Email  string
	Token  string
}

type identityKey struct{}

// WithIdentity attaches a verified caller to ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the verified caller attached to ctx
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Service creates and verifies sessions
type Service struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a session service; ttl is the token lifetime
func NewService(db *gorm.DB, secret string, ttl time.Duration) *Service {
	return &Service{db: db, secret: secret, ttl: ttl, now: time.Now}
}

// SetClock replaces the wall clock, used by tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// TTL is the lifetime of issued tokens
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// CreateSession validates credentials and returns a signed token. The user's
// last login is recorded on success.
func (s *Service) CreateSession(ctx context.Context, email, password string) (string, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND deleted = ?", NormalizeEmail(email), false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", errors.Wrap(err, "look up user")
	}
	if !VerifyPassword(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	token, err := utils.GenerateJWT(user.ID, user.Email, s.secret, now, s.ttl)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).Update("last_login", now).Error; err != nil {
		// The session is still valid, only the bookkeeping failed
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("Failed to record last login")
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Session created")
	return token, nil
}

// VerifyToken returns the identity in token. It never fails loudly: a bad
// signature, an expired token or garbage input all yield false.
func (s *Service) VerifyToken(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	claims, err := utils.ParseJWT(token, s.secret, s.now())
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Email: claims.Email, Token: token}, true
}

// IsAuthenticated reports whether r carries a valid token
func (s *Service) IsAuthenticated(r *http.Request) bool {
	_, ok := s.VerifyToken(ExtractToken(r))
	return ok
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the session cookie
func ExtractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// VerifyPassword compares a password with a bcrypt hash
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
