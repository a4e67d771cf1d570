package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminUserRequest struct {
	Name    string `json:"name" binding:"required"`
	IsAdmin *bool  `json:"isAdmin" binding:"required"`
}

func (h *Handlers) ListUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/users"

		ctx, cancel := requestContext(c)
		defer cancel()

		users, err := h.users.List(ctx)
		if err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func (h *Handlers) GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/users/:id"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := h.users.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func (h *Handlers) UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/users/:id"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req AdminUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := h.users.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}

		user.Name = strings.TrimSpace(req.Name)
		user.IsAdmin = *req.IsAdmin
		if err := h.users.Update(ctx, user); err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}

		h.log.Info("user updated by admin", zap.String("user_id", id.Hex()), zap.Bool("is_admin", user.IsAdmin))
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
	}
}

// DeleteUser refuses to remove admin accounts.
func (h *Handlers) DeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/users/:id"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := h.users.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}
		if user.IsAdmin {
			h.respondWithError(c, http.StatusBadRequest, route, "Can not delete admin")
			return
		}

		if err := h.users.Delete(ctx, id); err != nil {
			h.respondStoreError(c, route, err, "User not found")
			return
		}

		h.log.Info("user deleted", zap.String("user_id", id.Hex()))
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
