package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *domain.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &domain.User{Email: email, Password: hash, Role: domain.RoleEditor}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestCreateSession(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "admin@example.com", "Secret1!")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(db, "secret", 8*time.Hour)
	svc.SetClock(func() time.Time { return now })

	token, err := svc.CreateSession(context.Background(), "Admin@Example.com ", "Secret1!")
	require.NoError(t, err)

	id, ok := svc.VerifyToken(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "admin@example.com", id.Email)

	var reloaded domain.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.NotNil(t, reloaded.LastLogin)
	assert.True(t, reloaded.LastLogin.Equal(now))
}

func TestCreateSessionInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin@example.com", "Secret1!")
	svc := NewService(db, "secret", 8*time.Hour)

	_, err := svc.CreateSession(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.CreateSession(context.Background(), "nobody@example.com", "Secret1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateSessionIgnoresDeletedUsers(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "gone@example.com", "Secret1!")
	require.NoError(t, db.Model(user).Update("deleted", true).Error)
	svc := NewService(db, "secret", 8*time.Hour)

	_, err := svc.CreateSession(context.Background(), "gone@example.com", "Secret1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenFailsClosed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(nil, "secret", 8*time.Hour)
	svc.SetClock(func() time.Time { return now })

	wrongSecret, err := utils.GenerateJWT("u1", "a@b.de", "other", now, 8*time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateJWT("u1", "a@b.de", "secret", now.Add(-9*time.Hour), 8*time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "garbage",
		"wrong secret": wrongSecret,
		"expired":      expired,
	} {
		_, ok := svc.VerifyToken(token)
		assert.False(t, ok, name)
	}
}

func TestExtractTokenPrefersHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-header", ExtractToken(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", ExtractToken(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", ExtractToken(r))
}

func TestIsAuthenticated(t *testing.T) {
	now := time.Now()
	svc := NewService(nil, "secret", 8*time.Hour)
	token, err := utils.GenerateJWT("u1", "a@b.de", "secret", now, 8*time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, svc.IsAuthenticated(r))
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	assert.True(t, svc.IsAuthenticated(r))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hash)
	assert.True(t, VerifyPassword("Secret1!", hash))
	assert.False(t, VerifyPassword("secret1!", hash))
}
