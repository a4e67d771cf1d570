package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"amazona/internal/cart"
	"amazona/internal/store"
)

const (
	homeFeaturedLimit = 3
	homeLatestLimit   = 8
)

// pageData carries the layout values every page needs.
func (h *Handlers) pageData(c *gin.Context, title string) gin.H {
	state := h.cookies.Load(c)
	count := 0
	for _, it := range state.Cart.Items {
		count += it.Quantity
	}
	return gin.H{
		"Title":     title,
		"DarkMode":  state.DarkMode,
		"UserInfo":  state.UserInfo,
		"CartCount": count,
	}
}

func (h *Handlers) HomePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		data := h.pageData(c, "Home")

		featured, err := h.products.Featured(ctx, homeFeaturedLimit)
		if err != nil {
			h.renderError(c, http.StatusInternalServerError, err)
			return
		}
		latest, err := h.products.Latest(ctx, homeLatestLimit)
		if err != nil {
			h.renderError(c, http.StatusInternalServerError, err)
			return
		}

		data["Featured"] = featured
		data["Products"] = latest
		c.HTML(http.StatusOK, "index.html", data)
	}
}

func (h *Handlers) ProductPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := h.products.FindBySlug(ctx, c.Param("slug"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.renderError(c, http.StatusNotFound, err)
				return
			}
			h.renderError(c, http.StatusInternalServerError, err)
			return
		}

		data := h.pageData(c, product.Name)
		data["Product"] = product
		if item, ok := cart.Find(h.cookies.Load(c).Cart.Items, product.ID.Hex()); ok {
			data["InCart"] = item.Quantity
		}
		c.HTML(http.StatusOK, "product.html", data)
	}
}

func (h *Handlers) SearchPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, status, err := h.runSearch(c)
		if err != nil {
			h.renderError(c, status, err)
			return
		}

		data := h.pageData(c, "Search")
		data["Result"] = result
		data["Query"] = c.Request.URL.Query()
		c.HTML(http.StatusOK, "search.html", data)
	}
}

// AdminDashboardPage is a shell; its figures load from /api/admin/summary.
func (h *Handlers) AdminDashboardPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "dashboard.html", h.pageData(c, "Admin Dashboard"))
	}
}

func (h *Handlers) renderError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Error("page failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	data := h.pageData(c, http.StatusText(status))
	data["Status"] = status
	data["Message"] = http.StatusText(status)
	if status == http.StatusBadRequest {
		data["Message"] = err.Error()
	}
	c.HTML(status, "error.html", data)
}
