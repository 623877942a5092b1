// internal/infrastructure/database/postgres/user_repository.go
package postgres

import (
	"context"
	"time"

	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"gorm.io/gorm"
)

// UserRepository stores accounts in the users table
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) FindByRefreshToken(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	var u user.User
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return affected(r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"refresh_token": token,
			"updated_at":    time.Now().UTC(),
		}))
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]user.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&user.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []user.User
	page := query.Order("created_at DESC")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := page.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role auth.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
