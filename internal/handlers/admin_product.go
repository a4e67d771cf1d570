package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"amazona/internal/store"
)

type ProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Slug          string  `json:"slug" binding:"required"`
	Price         float64 `json:"price" binding:"gte=0"`
	Category      string  `json:"category" binding:"required"`
	Brand         string  `json:"brand" binding:"required"`
	Image         string  `json:"image" binding:"required"`
	IsFeatured    bool    `json:"isFeatured"`
	FeaturedImage string  `json:"featuredImage"`
	CountInStock  int     `json:"countInStock" binding:"gte=0"`
	Description   string  `json:"description" binding:"required"`
}

func (h *Handlers) ListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"

		ctx, cancel := requestContext(c)
		defer cancel()

		products, err := h.products.List(ctx)
		if err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// CreateProduct inserts a sample product for the admin to edit.
func (h *Handlers) CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products"

		ctx, cancel := requestContext(c)
		defer cancel()

		product := sampleProduct(time.Now())
		if err := h.products.Create(ctx, product); err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		h.log.Info("product created", zap.String("product_id", product.ID.Hex()))
		c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
	}
}

func (h *Handlers) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := h.products.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		previousImage := product.Image
		product.Name = strings.TrimSpace(req.Name)
		product.Slug = strings.TrimSpace(req.Slug)
		product.Price = req.Price
		product.Category = strings.TrimSpace(req.Category)
		product.Brand = strings.TrimSpace(req.Brand)
		product.Image = strings.TrimSpace(req.Image)
		product.IsFeatured = req.IsFeatured
		product.FeaturedImage = strings.TrimSpace(req.FeaturedImage)
		product.CountInStock = req.CountInStock
		product.Description = req.Description

		if err := h.products.Update(ctx, product); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				h.respondWithError(c, http.StatusConflict, route, "Slug already in use")
				return
			}
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		if previousImage != product.Image && isUploadedImage(previousImage) {
			if err := h.uploads.safeDeleteUpload(previousImage); err != nil {
				h.log.Warn("old image cleanup failed", zap.String("image", previousImage), zap.Error(err))
			}
		}

		h.log.Info("product updated", zap.String("product_id", id.Hex()))
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	}
}

func (h *Handlers) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/products/:id"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := h.products.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		if err := h.products.Delete(ctx, id); err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		if isUploadedImage(product.Image) {
			if err := h.uploads.safeDeleteUpload(product.Image); err != nil {
				h.log.Warn("image cleanup failed", zap.String("image", product.Image), zap.Error(err))
			}
		}

		h.log.Info("product deleted", zap.String("product_id", id.Hex()))
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
