// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// UserAdminHandler handles admin user management endpoints
type UserAdminHandler struct {
	admin *user.AdminService
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(admin *user.AdminService) *UserAdminHandler {
	return &UserAdminHandler{admin: admin}
}

// GetUsers handles GET /admin/users?page&limit&role
func (h *UserAdminHandler) GetUsers(c *gin.Context) {
	var req user.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		req = user.UserListRequest{Page: queryInt(c, "page"), Limit: queryInt(c, "limit"), Role: c.Query("role")}
	}

	res, err := h.admin.GetUsers(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Users fetched successfully")
}
