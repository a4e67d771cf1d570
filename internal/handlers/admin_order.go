package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handlers) ListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders"

		ctx, cancel := requestContext(c)
		defer cancel()

		orders, err := h.orders.ListWithUsers(ctx)
		if err != nil {
			h.respondStoreError(c, route, err, "Order not found")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// DeliverOrder marks a paid order as delivered.
func (h *Handlers) DeliverOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/deliver"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := h.orders.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "Order not found")
			return
		}
		if !order.IsPaid {
			h.respondWithError(c, http.StatusBadRequest, route, "Order is not paid")
			return
		}

		delivered, err := h.orders.MarkDelivered(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "Order not found")
			return
		}

		h.log.Info("order delivered", zap.String("order_id", id.Hex()))
		c.JSON(http.StatusOK, gin.H{"message": "Order delivered", "order": delivered})
	}
}

func (h *Handlers) DeleteOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/orders/:id"

		id, ok := h.objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := h.orders.Delete(ctx, id); err != nil {
			h.respondStoreError(c, route, err, "order not found")
			return
		}

		h.log.Info("order deleted", zap.String("order_id", id.Hex()))
		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}

func (h *Handlers) Summary() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/summary"

		ctx, cancel := requestContext(c)
		defer cancel()

		summary, err := h.summary.Summary(ctx)
		if err != nil {
			h.respondWithError(c, http.StatusInternalServerError, route, "db error", zap.Error(err))
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
