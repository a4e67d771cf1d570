package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PayPalClientID answers with the bare client id, as the payment SDK loader expects.
func (h *Handlers) PayPalClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, h.paypalClientID)
	}
}

func (h *Handlers) GoogleAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": h.googleAPIKey})
	}
}

func (h *Handlers) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			h.respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
