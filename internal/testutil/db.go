package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/database"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens an isolated in-memory sqlite database with every table
// migrated. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user with the given handle.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post owned by userID at the given time.
func CreatePost(t testing.TB, db *gorm.DB, userID, body string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		Body:      body,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// BaseTime is a fixed instant used to build deterministic timelines.
var BaseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
