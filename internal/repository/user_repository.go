package repository

import (
	"context"
	"strings"

	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the read side of the profile store used for existence
// checks and feed enrichment. CreateUser exists for seeding.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]*models.User, error)
	Exists(ctx context.Context, userID string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrInvalidInput
	}
	return wrap(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if !validID(userID) {
		return nil, apperrors.NotFound("user")
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, lookup(err, "user")
	}
	return &user, nil
}

// GetUserByUsername gets a user by handle (case-insensitive, optional @)
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", strings.TrimPrefix(username, "@")).
		First(&user).Error
	if err != nil {
		return nil, lookup(err, "user")
	}
	return &user, nil
}

// GetUsers loads users in one query, keyed by id. Missing ids are absent
// from the map.
func (r *userRepository) GetUsers(ctx context.Context, userIDs []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	ids := validIDs(userIDs)
	if len(ids) == 0 {
		return result, nil
	}

	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrap(err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *userRepository) Exists(ctx context.Context, userID string) (bool, error) {
	if !validID(userID) {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, wrap(err)
}

// validIDs returns the distinct well-formed ids in order.
func validIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || !validID(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
