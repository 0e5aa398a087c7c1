package database

import (
	"context"
	"testing"

	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestMigrateCreatesTablesAndIndexes(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	for _, model := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex("posts", "idx_posts_feed"))
	assert.True(t, db.Migrator().HasIndex(&models.Follow{}, "idx_follows_pair"))

	// idempotent
	require.NoError(t, Migrate(db))
}

func TestUniqueFollowTranslatesToDuplicatedKey(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Follow{FollowerID: "a", FollowingID: "b"}).Error)
	err := db.Create(&models.Follow{FollowerID: "a", FollowingID: "b"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestHealth(t *testing.T) {
	db := openMemory(t)
	assert.NoError(t, Health(context.Background(), db))
	assert.Error(t, Health(context.Background(), nil))
}
