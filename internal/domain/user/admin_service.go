// internal/domain/user/admin_service.go
package user

import (
	"context"
	"strings"

	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopfront/storefront-api/internal/pkg/pagination"
)

// AdminService handles admin user management operations
type AdminService struct {
	repo Repository
}

// NewAdminService creates a new admin user service
func NewAdminService(repo Repository) *AdminService {
	return &AdminService{repo: repo}
}

// UserListRequest represents user list query parameters. Role defaults to
// "user"; "all" disables the filter.
type UserListRequest struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Role  string `form:"role"`
}

// UserPagination is the page metadata of a user listing.
type UserPagination struct {
	pagination.Page
	TotalUsers int64 `json:"totalUsers"`
}

// UserListResponse represents user list with pagination
type UserListResponse struct {
	Users      []User         `json:"users"`
	Pagination UserPagination `json:"pagination"`
}

// GetUsers lists accounts newest first.
func (s *AdminService) GetUsers(ctx context.Context, req *UserListRequest) (*UserListResponse, error) {
	params := pagination.New(req.Page, req.Limit, pagination.DefaultLimit)

	var role auth.Role
	switch strings.ToLower(strings.TrimSpace(req.Role)) {
	case "", string(auth.RoleUser):
		role = auth.RoleUser
	case string(auth.RoleAdmin):
		role = auth.RoleAdmin
	case "all":
		role = ""
	default:
		return nil, apperror.InvalidArgument("role must be one of: user, admin, all")
	}

	users, total, err := s.repo.List(ctx, ListFilter{
		Role:   role,
		Offset: params.Offset(),
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, apperror.Unexpected("Failed to list users", err)
	}
	if users == nil {
		users = []User{}
	}

	return &UserListResponse{
		Users: users,
		Pagination: UserPagination{
			Page:       params.Meta(total),
			TotalUsers: total,
		},
	}, nil
}
