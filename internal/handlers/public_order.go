package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/middleware"
	"amazona/internal/models"
	"amazona/internal/pricing"
	"amazona/internal/store"
)

type OrderItemRequest struct {
	ID       string `json:"_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

// PaymentRequest is the capture payload the payment gateway hands the
// browser after approval.
type PaymentRequest struct {
	ID           string `json:"id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	EmailAddress string `json:"email_address"`
	Payer        struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("Product %s not found", e.ProductID)
}

type outOfStockError struct {
	Name      string
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return fmt.Sprintf("%s is out of stock (available %d, requested %d)", e.Name, e.Available, e.Requested)
}

// orderLine is a product id and quantity waiting to be priced.
type orderLine struct {
	ProductID string
	Quantity  int
}

// placeOrder prices lines from the catalogue, never from the client, and
// stores the order for userID.
func (h *Handlers) placeOrder(ctx context.Context, userID primitive.ObjectID, lines []orderLine, addr models.ShippingAddress, method string) (*models.Order, error) {
	ids := make([]primitive.ObjectID, 0, len(lines))
	// Lines may repeat a product, so stock is checked against the sum.
	wanted := make(map[primitive.ObjectID]int, len(lines))
	for _, l := range lines {
		id, err := primitive.ObjectIDFromHex(l.ProductID)
		if err != nil {
			return nil, productNotFoundError{ProductID: l.ProductID}
		}
		ids = append(ids, id)
		wanted[id] += l.Quantity
	}

	products, err := h.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(lines))
	priced := make([]pricing.Line, 0, len(lines))
	for i, l := range lines {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, productNotFoundError{ProductID: l.ProductID}
		}
		if total := wanted[p.ID]; !p.InStock(total) {
			return nil, outOfStockError{Name: p.Name, Available: p.CountInStock, Requested: total}
		}
		items = append(items, models.OrderItem{
			Product:  p.ID,
			Name:     p.Name,
			Slug:     p.Slug,
			Image:    p.Image,
			Price:    p.Price,
			Quantity: l.Quantity,
		})
		priced = append(priced, pricing.Line{Price: p.Price, Quantity: l.Quantity})
	}

	totals := pricing.Compute(priced)
	order := &models.Order{
		User:            userID,
		OrderItems:      items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TaxPrice:        totals.TaxPrice,
		TotalPrice:      totals.TotalPrice,
	}
	if err := h.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// respondOrderError answers a placeOrder failure.
func (h *Handlers) respondOrderError(c *gin.Context, route string, err error) {
	var missing productNotFoundError
	var short outOfStockError
	switch {
	case errors.As(err, &missing):
		h.respondWithError(c, http.StatusBadRequest, route, missing.Error())
	case errors.As(err, &short):
		h.respondWithError(c, http.StatusBadRequest, route, short.Error())
	default:
		h.respondStoreError(c, route, err, "Order not found")
	}
}

func (h *Handlers) CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"

		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		lines := make([]orderLine, 0, len(req.OrderItems))
		for _, it := range req.OrderItems {
			lines = append(lines, orderLine{ProductID: it.ID, Quantity: it.Quantity})
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := h.placeOrder(ctx, userID, lines, req.ShippingAddress, req.PaymentMethod)
		if err != nil {
			h.respondOrderError(c, route, err)
			return
		}

		h.log.Info("order created",
			zap.String("order_id", order.ID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Float64("total", order.TotalPrice),
		)
		c.JSON(http.StatusCreated, order)
	}
}

func (h *Handlers) OrderHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/history"

		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		orders, err := h.orders.ListByUser(ctx, userID)
		if err != nil {
			h.respondStoreError(c, route, err, "Order not found")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func (h *Handlers) GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"

		order, ok := h.loadVisibleOrder(c, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PayOrder records a captured payment on an unpaid order.
func (h *Handlers) PayOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/pay"

		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		order, ok := h.loadVisibleOrder(c, route)
		if !ok {
			return
		}
		if order.IsPaid {
			h.respondWithError(c, http.StatusBadRequest, route, "Order already paid")
			return
		}

		email := req.Payer.EmailAddress
		if email == "" {
			email = req.EmailAddress
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		paid, err := h.orders.MarkPaid(ctx, order.ID, models.PaymentResult{
			ID:           req.ID,
			Status:       req.Status,
			EmailAddress: email,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.respondWithError(c, http.StatusBadRequest, route, "Order already paid")
				return
			}
			h.respondStoreError(c, route, err, "Order not found")
			return
		}

		h.log.Info("order paid", zap.String("order_id", paid.ID.Hex()), zap.String("payment_id", req.ID))
		c.JSON(http.StatusOK, gin.H{"message": "Order paid", "order": paid})
	}
}

// loadVisibleOrder loads the :id order when the caller owns it or is an
// admin. Other callers get the same 404 as a missing order.
func (h *Handlers) loadVisibleOrder(c *gin.Context, route string) (*models.Order, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
		return nil, false
	}

	id, ok := h.objectIDParam(c, route, "id")
	if !ok {
		return nil, false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.orders.FindByID(ctx, id)
	if err != nil {
		h.respondStoreError(c, route, err, "Order not found")
		return nil, false
	}
	if !canView(claims, order) {
		h.respondWithError(c, http.StatusNotFound, route, "Order not found")
		return nil, false
	}
	return order, true
}

func canView(claims *auth.Claims, order *models.Order) bool {
	if claims.IsAdmin {
		return true
	}
	userID, err := claims.UserID()
	return err == nil && userID == order.User
}
