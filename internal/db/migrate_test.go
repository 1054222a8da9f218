package db

import (
	"strings"
	"testing"

	"fangemeinschaft/internal/auth"
	"fangemeinschaft/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestMigrateCreatesEveryTable(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, Migrate(conn))
	for _, m := range Models {
		assert.True(t, conn.Migrator().HasTable(m), "%T", m)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, Migrate(conn))

	require.NoError(t, Seed(conn, "Admin@Example.com", "Secret1!"))
	require.NoError(t, Seed(conn, "admin@example.com", "Secret1!"))

	var users []domain.User
	require.NoError(t, conn.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.True(t, auth.VerifyPassword("Secret1!", users[0].Password))

	var settings []domain.Settings
	require.NoError(t, conn.Find(&settings).Error)
	require.Len(t, settings, 1)
	assert.Equal(t, domain.DefaultLogoURL, settings[0].LogoURL)
}

func TestSeedWithoutAdminOnlyCreatesSettings(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, Migrate(conn))
	require.NoError(t, Seed(conn, "", ""))

	var n int64
	require.NoError(t, conn.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, conn.Model(&domain.Settings{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSeedRequiresPasswordForNewAdmin(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, Migrate(conn))
	assert.Error(t, Seed(conn, "admin@example.com", ""))
}
