package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/cart"
	"amazona/internal/middleware"
	"amazona/internal/models"
	"amazona/internal/store"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// AuthResponse is the body of register, login and profile updates. The
// same shape is kept in the userInfo cookie.
type AuthResponse struct {
	Token   string `json:"token"`
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func (h *Handlers) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/register"

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.respondWithError(c, http.StatusInternalServerError, route, "password hashing failed", zap.Error(err))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user := &models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := h.users.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				h.respondWithError(c, http.StatusConflict, route, "Email already registered")
				return
			}
			h.respondStoreError(c, route, err, "user not found")
			return
		}

		h.log.Info("user registered", zap.String("user_id", user.ID.Hex()))
		h.signIn(c, route, http.StatusCreated, user)
	}
}

func (h *Handlers) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/login"

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := h.users.FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.respondStoreError(c, route, err, "user not found")
			return
		}
		if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
			h.respondWithError(c, http.StatusUnauthorized, route, "Invalid email or password")
			return
		}

		h.log.Info("user logged in", zap.String("user_id", user.ID.Hex()))
		h.signIn(c, route, http.StatusOK, user)
	}
}

// Logout drops the user and every checkout draft from the state cookies.
func (h *Handlers) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := cart.Reduce(h.cookies.Load(c), cart.Action{Type: cart.UserLogout})
		h.cookies.Save(c, state)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func (h *Handlers) UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/profile"

		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
			return
		}

		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := h.users.FindByID(ctx, userID)
		if err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}

		user.Name = strings.TrimSpace(req.Name)
		user.Email = req.Email
		if req.Password != "" {
			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				h.respondWithError(c, http.StatusInternalServerError, route, "password hashing failed", zap.Error(err))
				return
			}
			user.PasswordHash = hash
		}

		if err := h.users.Update(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				h.respondWithError(c, http.StatusConflict, route, "Email already registered")
				return
			}
			h.respondStoreError(c, route, err, "User not found")
			return
		}

		h.signIn(c, route, http.StatusOK, user)
	}
}

// signIn issues a token for user, records it in the userInfo cookie and
// writes the auth response.
func (h *Handlers) signIn(c *gin.Context, route string, status int, user *models.User) {
	token, err := h.issuer.Sign(user)
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, route, "token generation failed", zap.Error(err))
		return
	}

	resp := AuthResponse{
		Token:   token,
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}

	state := cart.Reduce(h.cookies.Load(c), cart.Action{
		Type: cart.UserLogin,
		User: &cart.UserInfo{
			Token:   resp.Token,
			ID:      resp.ID,
			Name:    resp.Name,
			Email:   resp.Email,
			IsAdmin: resp.IsAdmin,
		},
	})
	h.cookies.Save(c, state)

	c.JSON(status, resp)
}
