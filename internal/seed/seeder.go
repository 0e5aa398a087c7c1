package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options sizes a development dataset.
type Options struct {
	Users            int
	PostsPerUser     int
	FollowsPerUser   int
	LikesPerUser     int
	BookmarksPerUser int
	CommentsPerUser  int
	// Seed makes the dataset reproducible. Zero uses the clock.
	Seed int64
}

// DefaultOptions is a dataset big enough to page through every view.
func DefaultOptions() Options {
	return Options{
		Users:            25,
		PostsPerUser:     8,
		FollowsPerUser:   6,
		LikesPerUser:     15,
		BookmarksPerUser: 4,
		CommentsPerUser:  5,
	}
}

// Seeder handles database seeding operations. Posts are inserted with
// backdated timestamps; every engagement goes through the engagement
// service so notifications, cache invalidation and events are produced the
// same way the API produces them.
type Seeder struct {
	db   *gorm.DB
	svc  *engagement.Service
	rand *rand.Rand
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, svc *engagement.Service) *Seeder {
	return &Seeder{db: db, svc: svc}
}

// SeedDev seeds the development database with fake users and activity and
// returns the users it created.
func (s *Seeder) SeedDev(ctx context.Context, opts Options) ([]*models.User, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	_ = gofakeit.Seed(seed)
	s.rand = rand.New(rand.NewSource(seed))

	logger.Log.Info("Creating users...", zap.Int("count", opts.Users))
	users, err := s.seedUsers(ctx, opts.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating posts...", zap.Int("per_user", opts.PostsPerUser))
	posts, err := s.seedPosts(ctx, users, opts.PostsPerUser)
	if err != nil {
		return nil, fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating follows...")
	if err := s.seedFollows(ctx, users, opts.FollowsPerUser); err != nil {
		return nil, fmt.Errorf("failed to seed follows: %w", err)
	}

	logger.Log.Info("Creating likes, bookmarks and comments...")
	if err := s.seedEngagement(ctx, users, posts, opts); err != nil {
		return nil, fmt.Errorf("failed to seed engagement: %w", err)
	}

	return users, nil
}

// SeedTest seeds a small fixed dataset: alice, bob and carol, where alice
// follows bob and bob has liked one of carol's posts.
func (s *Seeder) SeedTest(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	for _, name := range []string{"alice", "bob", "carol"} {
		user := &models.User{
			Username:    name,
			Email:       name + "@example.com",
			DisplayName: name,
		}
		if err := s.db.WithContext(ctx).Where("username = ?", name).FirstOrCreate(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
		users = append(users, user)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var carolPost *models.Post
	for i, u := range users {
		post := &models.Post{}
		err := s.db.WithContext(ctx).
			Where(models.Post{UserID: u.ID, Body: fmt.Sprintf("hello from %s", u.Username)}).
			Attrs(models.Post{CreatedAt: base.Add(time.Duration(i) * time.Minute)}).
			FirstOrCreate(post).Error
		if err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		carolPost = post
	}

	if err := ignoreConflict(s.svc.Follow(ctx, engagement.FollowCommand{ActorID: users[0].ID, TargetID: users[1].ID})); err != nil {
		return nil, err
	}
	if err := ignoreConflict(s.svc.Like(ctx, engagement.PostCommand{ActorID: users[1].ID, PostID: carolPost.ID})); err != nil {
		return nil, err
	}
	return users, nil
}

// Clean deletes every row of every table, children first.
func (s *Seeder) Clean(ctx context.Context) error {
	all := models.AllModels()
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Delete(all[i]).Error; err != nil {
			return fmt.Errorf("failed to clean %T: %w", all[i], err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for len(users) < count {
		username := gofakeit.Username()
		var existing int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			continue
		}

		user := &models.User{
			Username:    username,
			Email:       fmt.Sprintf("%s@example.com", username),
			DisplayName: gofakeit.Name(),
			AvatarURL:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
		}
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, perUser int) ([]*models.Post, error) {
	now := time.Now()
	posts := make([]*models.Post, 0, len(users)*perUser)
	for _, u := range users {
		for i := 0; i < perUser; i++ {
			post := &models.Post{
				UserID:    u.ID,
				Body:      clip(gofakeit.HipsterSentence(), models.MaxBodyLength),
				CreatedAt: gofakeit.DateRange(now.AddDate(0, 0, -14), now).UTC().Truncate(time.Microsecond),
			}
			if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
				return nil, fmt.Errorf("failed to create post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User, perUser int) error {
	for _, u := range users {
		for _, target := range s.pick(len(users), perUser) {
			if users[target].ID == u.ID {
				continue
			}
			err := s.svc.Follow(ctx, engagement.FollowCommand{ActorID: u.ID, TargetID: users[target].ID})
			if err := ignoreConflict(err); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedEngagement(ctx context.Context, users []*models.User, posts []*models.Post, opts Options) error {
	if len(posts) == 0 {
		return nil
	}
	for _, u := range users {
		for _, i := range s.pick(len(posts), opts.LikesPerUser) {
			if err := ignoreConflict(s.svc.Like(ctx, engagement.PostCommand{ActorID: u.ID, PostID: posts[i].ID})); err != nil {
				return err
			}
		}
		for _, i := range s.pick(len(posts), opts.BookmarksPerUser) {
			if err := ignoreConflict(s.svc.Bookmark(ctx, engagement.PostCommand{ActorID: u.ID, PostID: posts[i].ID})); err != nil {
				return err
			}
		}
		for _, i := range s.pick(len(posts), opts.CommentsPerUser) {
			_, err := s.svc.Comment(ctx, engagement.CommentCommand{
				ActorID: u.ID,
				PostID:  posts[i].ID,
				Body:    clip(gofakeit.HipsterSentence(), models.MaxBodyLength),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// pick returns up to k distinct indexes below n.
func (s *Seeder) pick(n, k int) []int {
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if k > n {
		k = n
	}
	return s.rand.Perm(n)[:k]
}

func ignoreConflict(err error) error {
	if err == nil || apperrors.IsKind(err, apperrors.KindConflict) {
		return nil
	}
	return err
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
