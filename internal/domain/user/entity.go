// internal/domain/user/entity.go
package user

import (
	"context"
	"strings"
	"time"

	"github.com/shopfront/storefront-api/internal/pkg/auth"
)

// User represents an account. At most one refresh token is valid at a time.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:20" bson:"username" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" bson:"email" json:"email"`
	FullName     string    `gorm:"not null;size:255" bson:"fullName" json:"fullName"`
	PasswordHash string    `gorm:"not null;size:255" bson:"passwordHash" json:"-"`
	Role         auth.Role `gorm:"type:varchar(10);not null;default:'user';index" bson:"role" json:"role"`
	RefreshToken string    `gorm:"size:1024;index" bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == auth.RoleAdmin
}

// Principal returns the verified identity of the account.
func (u *User) Principal() auth.Principal {
	return auth.Principal{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ListFilter selects accounts for the admin listing. An empty Role matches all.
type ListFilter struct {
	Role   auth.Role
	Offset int
	Limit  int
}

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByLogin matches identifier against username or email.
	FindByLogin(ctx context.Context, identifier string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	FindByRefreshToken(ctx context.Context, token string) (*User, error)
	// SetRefreshToken overwrites the stored token; an empty token clears it.
	SetRefreshToken(ctx context.Context, id, token string) error
	List(ctx context.Context, filter ListFilter) ([]User, int64, error)
	CountByRole(ctx context.Context, role auth.Role) (int64, error)
}
