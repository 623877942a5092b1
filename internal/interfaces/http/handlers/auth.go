// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/interfaces/http/middleware"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

const refreshTokenCookie = "refreshToken"

// CookieConfig controls the token cookies set on login
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users   *user.Service
	cookies CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *user.Service, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{users: users, cookies: cookies}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.setTokenCookies(c, res)
	response.JSON(c, http.StatusCreated, res, "User registered successfully")
}

// RegisterAdmin handles POST /auth/register-admin
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req user.AdminRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.users.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.setTokenCookies(c, res)
	response.JSON(c, http.StatusCreated, res, "Admin registered successfully")
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.setTokenCookies(c, res)
	response.JSON(c, http.StatusOK, res, "Login successful")
}

// LoginAdmin handles POST /auth/login-admin
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.users.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.setTokenCookies(c, res)
	response.JSON(c, http.StatusOK, res, "Admin login successful")
}

// RefreshToken handles POST /auth/refresh-token. The token comes from the
// body or the refreshToken cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshTokenCookie)
	}

	access, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.setCookie(c, middleware.AccessTokenCookie, access, h.cookies.AccessTTL)
	response.JSON(c, http.StatusOK, gin.H{"accessToken": access}, "Access token refreshed")
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.users.Logout(c.Request.Context(), p.ID); err != nil {
		_ = c.Error(err)
		return
	}
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
	h.setCookie(c, refreshTokenCookie, "", -1)
	response.JSON(c, http.StatusOK, gin.H{}, "User logged out")
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	u, err := h.users.Get(c.Request.Context(), p.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, u, "Current user fetched")
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, res *user.AuthResponse) {
	h.setCookie(c, middleware.AccessTokenCookie, res.AccessToken, h.cookies.AccessTTL)
	h.setCookie(c, refreshTokenCookie, res.RefreshToken, h.cookies.RefreshTTL)
}

// setCookie writes an http-only cookie; a negative ttl deletes it.
func (h *AuthHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookies.Secure, true)
}
