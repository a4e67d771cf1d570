package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"amazona/internal/middleware"
	"amazona/internal/models"
	"amazona/internal/search"
)

// SearchResult is the body of GET /api/products.
type SearchResult struct {
	Products      []models.Product `json:"products"`
	CountProducts int64            `json:"countProducts"`
	Page          int64            `json:"page"`
	Pages         int64            `json:"pages"`
	Categories    []string         `json:"categories"`
	Brands        []string         `json:"brands"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

func (h *Handlers) SearchProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"

		result, status, err := h.runSearch(c)
		if err != nil {
			h.respondWithError(c, status, route, err.Error())
			return
		}

		h.log.Debug("search served",
			zap.Int64("count", result.CountProducts),
			zap.Int64("page", result.Page),
		)
		c.JSON(http.StatusOK, result)
	}
}

// runSearch is shared by the JSON route and the search page.
func (h *Handlers) runSearch(c *gin.Context) (*SearchResult, int, error) {
	q, err := search.Build(search.ParseParams(c.Request.URL.Query()))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	products, count, err := h.products.Search(ctx, q)
	if err != nil {
		h.log.Error("search failed", zap.Error(err))
		return nil, http.StatusInternalServerError, errDB
	}
	categories, err := h.products.Categories(ctx)
	if err != nil {
		h.log.Error("categories failed", zap.Error(err))
		return nil, http.StatusInternalServerError, errDB
	}
	brands, err := h.products.Brands(ctx)
	if err != nil {
		h.log.Error("brands failed", zap.Error(err))
		return nil, http.StatusInternalServerError, errDB
	}

	return &SearchResult{
		Products:      products,
		CountProducts: count,
		Page:          q.Page,
		Pages:         search.Pages(count, q.PageSize),
		Categories:    categories,
		Brands:        brands,
	}, http.StatusOK, nil
}

func (h *Handlers) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"

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
		c.JSON(http.StatusOK, product)
	}
}

func (h *Handlers) GetProductBySlug() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/slug/:slug"

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := h.products.FindBySlug(ctx, c.Param("slug"))
		if err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func (h *Handlers) ListReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id/reviews"

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

		reviews := product.Reviews
		if reviews == nil {
			reviews = []models.Review{}
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// CreateReview adds the caller's review, replacing an earlier one.
func (h *Handlers) CreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/:id/reviews"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		claims, ok := middleware.CurrentUser(c)
		if !ok {
			h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
			return
		}

		var req ReviewRequest
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

		replaced := applyReview(product, userID, claims.Name, req.Rating, req.Comment, time.Now().UTC())
		if err := h.products.SaveReviews(ctx, product); err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		if replaced {
			c.JSON(http.StatusOK, gin.H{"message": "Review updated", "product": product})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review submitted", "product": product})
	}
}
