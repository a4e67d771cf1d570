package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"amazona/internal/cart"
	"amazona/internal/middleware"
	"amazona/internal/models"
)

type AddCartItemRequest struct {
	ID       string `json:"_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

type PaymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

type DarkModeRequest struct {
	Enabled bool `json:"enabled"`
}

// dispatch applies action to the cookie state and persists the result.
func (h *Handlers) dispatch(c *gin.Context, action cart.Action) cart.State {
	state := cart.Reduce(h.cookies.Load(c), action)
	h.cookies.Save(c, state)
	return state
}

func (h *Handlers) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.cookies.Load(c))
	}
}

// AddCartItem adds one more unit of a product, or sets the given quantity.
func (h *Handlers) AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/items"

		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}
		id, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			h.respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := h.products.FindByID(ctx, id)
		if err != nil {
			h.respondStoreError(c, route, err, "Product not found")
			return
		}

		state := h.cookies.Load(c)
		qty := req.Quantity
		if qty == 0 {
			qty = cart.NextQuantity(state.Cart.Items, product.ID.Hex())
		}
		if !product.InStock(qty) {
			h.respondWithError(c, http.StatusBadRequest, route, "Sorry. Product is out of stock")
			return
		}

		next := cart.Reduce(state, cart.Action{Type: cart.CartAddItem, Item: cartItemFromProduct(product, qty)})
		if !cart.ItemsFit(next.Cart.Items) {
			h.respondWithError(c, http.StatusBadRequest, route, "Cart is full")
			return
		}
		h.cookies.Save(c, next)
		c.JSON(http.StatusOK, next.Cart)
	}
}

func (h *Handlers) RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := h.dispatch(c, cart.Action{Type: cart.CartRemoveItem, ItemID: c.Param("id")})
		c.JSON(http.StatusOK, state.Cart)
	}
}

func (h *Handlers) SaveShippingAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/shipping"

		var addr models.ShippingAddress
		if err := c.ShouldBindJSON(&addr); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		state := h.dispatch(c, cart.Action{Type: cart.SaveShippingAddress, Address: &addr})
		c.JSON(http.StatusOK, state.Cart)
	}
}

func (h *Handlers) SaveShippingLocation() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/shipping/location"

		var loc models.Location
		if err := c.ShouldBindJSON(&loc); err != nil {
			h.respondValidationError(c, route, err)
			return
		}
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
			h.respondWithError(c, http.StatusBadRequest, route, "location is out of range")
			return
		}

		state := h.dispatch(c, cart.Action{Type: cart.SaveShippingAddressMapLocation, Location: &loc})
		c.JSON(http.StatusOK, state.Cart)
	}
}

func (h *Handlers) SavePaymentMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/payment"

		var req PaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		state := h.dispatch(c, cart.Action{Type: cart.SavePaymentMethod, PaymentMethod: req.PaymentMethod})
		c.JSON(http.StatusOK, state.Cart)
	}
}

func (h *Handlers) SetDarkMode() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/preferences/dark-mode"

		var req DarkModeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondValidationError(c, route, err)
			return
		}

		action := cart.Action{Type: cart.DarkModeOff}
		if req.Enabled {
			action.Type = cart.DarkModeOn
		}
		state := h.dispatch(c, action)
		c.JSON(http.StatusOK, gin.H{"darkMode": state.DarkMode})
	}
}

func (h *Handlers) CheckoutNext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"next": cart.NextStep(h.cookies.Load(c))})
	}
}

// PlaceOrder turns the cookie cart into an order and empties the cart.
func (h *Handlers) PlaceOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/checkout/placeorder"

		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			h.respondWithError(c, http.StatusUnauthorized, route, "Token is not valid")
			return
		}

		state := h.cookies.Load(c)
		if next := cart.NextStep(state); next != cart.StepPlaceOrder {
			h.log.Debug("checkout incomplete", zap.String("next", next))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Checkout is incomplete", "next": next})
			return
		}

		lines := make([]orderLine, 0, len(state.Cart.Items))
		for _, it := range state.Cart.Items {
			lines = append(lines, orderLine{ProductID: it.ID, Quantity: it.Quantity})
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := h.placeOrder(ctx, userID, lines, *state.Cart.ShippingAddress, state.Cart.PaymentMethod)
		if err != nil {
			h.respondOrderError(c, route, err)
			return
		}

		h.cookies.Save(c, cart.Reduce(state, cart.Action{Type: cart.CartClear}))

		h.log.Info("order placed from cart",
			zap.String("order_id", order.ID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Int("items", len(order.OrderItems)),
		)
		c.JSON(http.StatusCreated, order)
	}
}
