package seed

import (
	"context"
	"testing"
	"time"

	"github.com/roozanaryal/TwitterClone-sub000/internal/cache"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/repository"
	"github.com/roozanaryal/TwitterClone-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	emitter := notifications.NewEmitter(store.Users, store.Notifications, time.Second)
	svc := engagement.NewService(store, cache.NoopFeedCache{}, emitter, nil)
	return NewSeeder(db, svc), db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeedDev(t *testing.T) {
	seeder, db := newSeeder(t)
	ctx := context.Background()

	users, err := seeder.SeedDev(ctx, Options{
		Users:            5,
		PostsPerUser:     3,
		FollowsPerUser:   2,
		LikesPerUser:     4,
		BookmarksPerUser: 1,
		CommentsPerUser:  1,
		Seed:             42,
	})
	require.NoError(t, err)

	assert.Len(t, users, 5)
	assert.EqualValues(t, 15, count(t, db, &models.Post{}))
	assert.EqualValues(t, 5, count(t, db, &models.Comment{}))
	assert.EqualValues(t, 20, count(t, db, &models.Like{}))
	assert.Positive(t, count(t, db, &models.Follow{}))
	assert.Positive(t, count(t, db, &models.Notification{}))
}

func TestSeedTestIsRepeatable(t *testing.T) {
	seeder, db := newSeeder(t)
	ctx := context.Background()

	users, err := seeder.SeedTest(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	_, err = seeder.SeedTest(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count(t, db, &models.User{}))
	assert.EqualValues(t, 1, count(t, db, &models.Follow{}))
	assert.EqualValues(t, 1, count(t, db, &models.Like{}))
}

func TestClean(t *testing.T) {
	seeder, db := newSeeder(t)
	ctx := context.Background()

	_, err := seeder.SeedTest(ctx)
	require.NoError(t, err)
	require.NoError(t, seeder.Clean(ctx))

	for _, m := range models.AllModels() {
		assert.Zero(t, count(t, db, m), "%T", m)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "héllo", clip("héllo", 5))
	assert.Equal(t, "hé", clip("héllo", 2))
}
