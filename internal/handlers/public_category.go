package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errDB = errors.New("db error")

func (h *Handlers) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/categories"

		ctx, cancel := requestContext(c)
		defer cancel()

		categories, err := h.products.Categories(ctx)
		if err != nil {
			h.respondWithError(c, http.StatusInternalServerError, route, "db error", zap.Error(err))
			return
		}

		h.log.Debug("returning categories", zap.Int("count", len(categories)))
		c.JSON(http.StatusOK, categories)
	}
}

func (h *Handlers) GetBrands() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/brands"

		ctx, cancel := requestContext(c)
		defer cancel()

		brands, err := h.products.Brands(ctx)
		if err != nil {
			h.respondWithError(c, http.StatusInternalServerError, route, "db error", zap.Error(err))
			return
		}

		h.log.Debug("returning brands", zap.Int("count", len(brands)))
		c.JSON(http.StatusOK, brands)
	}
}
