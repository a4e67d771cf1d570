package cart

import (
	"encoding/json"
	"net/url"

	"github.com/gin-gonic/gin"

	"amazona/internal/models"
)

// Cookie names holding each slice of State.
const (
	DarkModeCookie        = "darkMode"
	CartItemsCookie       = "cartItems"
	ShippingAddressCookie = "shippingAddress"
	PaymentMethodCookie   = "paymentMethod"
	UserInfoCookie        = "userInfo"
)

const cookieMaxAge = 30 * 24 * 60 * 60

// MaxCookieSize is the largest name plus value browsers keep for one cookie.
const MaxCookieSize = 4096

// Cookies reads and writes State through gin's cookie helpers.
type Cookies struct {
	Secure bool
}

// Load rebuilds State from the request cookies. A missing or malformed
// cookie leaves its slice empty.
func (ck Cookies) Load(c *gin.Context) State {
	state := State{Cart: Cart{Items: []Item{}}}

	if raw, err := c.Cookie(DarkModeCookie); err == nil {
		state.DarkMode = raw == "ON"
	}

	var items []Item
	if decode(c, CartItemsCookie, &items) && items != nil {
		state.Cart.Items = items
	}

	var addr models.ShippingAddress
	if decode(c, ShippingAddressCookie, &addr) {
		state.Cart.ShippingAddress = &addr
	}

	if raw, err := c.Cookie(PaymentMethodCookie); err == nil {
		state.Cart.PaymentMethod = raw
	}

	var user UserInfo
	if decode(c, UserInfoCookie, &user) && user.Token != "" {
		state.UserInfo = &user
	}

	return state
}

// Save writes every slice of state back. Empty slices clear their cookie.
func (ck Cookies) Save(c *gin.Context, state State) {
	if state.DarkMode {
		ck.set(c, DarkModeCookie, "ON")
	} else {
		ck.set(c, DarkModeCookie, "OFF")
	}

	if len(state.Cart.Items) == 0 {
		ck.clear(c, CartItemsCookie)
	} else {
		ck.setJSON(c, CartItemsCookie, state.Cart.Items)
	}

	if state.Cart.ShippingAddress == nil {
		ck.clear(c, ShippingAddressCookie)
	} else {
		ck.setJSON(c, ShippingAddressCookie, state.Cart.ShippingAddress)
	}

	if state.Cart.PaymentMethod == "" {
		ck.clear(c, PaymentMethodCookie)
	} else {
		ck.set(c, PaymentMethodCookie, state.Cart.PaymentMethod)
	}

	if state.UserInfo == nil {
		ck.clear(c, UserInfoCookie)
	} else {
		ck.setJSON(c, UserInfoCookie, state.UserInfo)
	}
}

// ItemsFit reports whether items still fit in the cart cookie once encoded.
func ItemsFit(items []Item) bool {
	data, err := json.Marshal(items)
	if err != nil {
		return false
	}
	return len(CartItemsCookie)+len(url.QueryEscape(string(data))) <= MaxCookieSize
}

func (ck Cookies) setJSON(c *gin.Context, name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ck.set(c, name, string(data))
}

func (ck Cookies) set(c *gin.Context, name, value string) {
	c.SetCookie(name, value, cookieMaxAge, "/", "", ck.Secure, false)
}

func (ck Cookies) clear(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", ck.Secure, false)
}

// gin.Context.Cookie already unescapes the value.
func decode(c *gin.Context, name string, dst any) bool {
	raw, err := c.Cookie(name)
	if err != nil || raw == "" {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}
