// Package cart holds the shopper's client-side state: dark mode, cart
// items, the checkout drafts and the logged-in user. State changes only
// through Reduce.
package cart

import "amazona/internal/models"

type ActionType string

const (
	DarkModeOn                     ActionType = "DARK_MODE_ON"
	DarkModeOff                    ActionType = "DARK_MODE_OFF"
	CartAddItem                    ActionType = "CART_ADD_ITEM"
	CartRemoveItem                 ActionType = "CART_REMOVE_ITEM"
	CartClear                      ActionType = "CART_CLEAR"
	SaveShippingAddress            ActionType = "SAVE_SHIPPING_ADDRESS"
	SaveShippingAddressMapLocation ActionType = "SAVE_SHIPPING_ADDRESS_MAP_LOCATION"
	SavePaymentMethod              ActionType = "SAVE_PAYMENT_METHOD"
	UserLogin                      ActionType = "USER_LOGIN"
	UserLogout                     ActionType = "USER_LOGOUT"
)

// Item is a product line in the cart. ID is the product's hex id.
type Item struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Quantity     int     `json:"quantity"`
}

// UserInfo is what the login response hands the browser.
type UserInfo struct {
	Token   string `json:"token"`
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type Cart struct {
	Items           []Item                  `json:"cartItems"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   string                  `json:"paymentMethod,omitempty"`
}

type State struct {
	DarkMode bool      `json:"darkMode"`
	Cart     Cart      `json:"cart"`
	UserInfo *UserInfo `json:"userInfo,omitempty"`
}

// Action carries exactly the payload its Type needs.
type Action struct {
	Type          ActionType
	Item          Item
	ItemID        string
	Address       *models.ShippingAddress
	Location      *models.Location
	PaymentMethod string
	User          *UserInfo
}

// Reduce returns the state after applying action. The input is not
// modified; unknown actions return it unchanged.
func Reduce(state State, action Action) State {
	next := state.clone()

	switch action.Type {
	case DarkModeOn:
		next.DarkMode = true
	case DarkModeOff:
		next.DarkMode = false
	case CartAddItem:
		next.Cart.Items = addItem(next.Cart.Items, action.Item)
	case CartRemoveItem:
		next.Cart.Items = removeItem(next.Cart.Items, action.ItemID)
	case CartClear:
		next.Cart.Items = []Item{}
	case SaveShippingAddress:
		if action.Address != nil {
			addr := *action.Address
			if next.Cart.ShippingAddress != nil && addr.Location == nil {
				addr.Location = next.Cart.ShippingAddress.Location
			}
			next.Cart.ShippingAddress = &addr
		}
	case SaveShippingAddressMapLocation:
		if action.Location != nil {
			addr := models.ShippingAddress{}
			if next.Cart.ShippingAddress != nil {
				addr = *next.Cart.ShippingAddress
			}
			loc := *action.Location
			addr.Location = &loc
			next.Cart.ShippingAddress = &addr
		}
	case SavePaymentMethod:
		next.Cart.PaymentMethod = action.PaymentMethod
	case UserLogin:
		if action.User != nil {
			user := *action.User
			next.UserInfo = &user
		}
	case UserLogout:
		next.UserInfo = nil
		next.Cart = Cart{Items: []Item{}}
	default:
		return state
	}

	return next
}

// NextQuantity is the quantity to request when a product is added once
// more: one above what is already in the cart.
func NextQuantity(items []Item, id string) int {
	for _, it := range items {
		if it.ID == id {
			return it.Quantity + 1
		}
	}
	return 1
}

// Find returns the cart line for id.
func Find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func addItem(items []Item, item Item) []Item {
	for i, it := range items {
		if it.ID == item.ID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func removeItem(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func (s State) clone() State {
	out := s
	out.Cart.Items = append(make([]Item, 0, len(s.Cart.Items)), s.Cart.Items...)
	if s.Cart.ShippingAddress != nil {
		addr := *s.Cart.ShippingAddress
		if addr.Location != nil {
			loc := *addr.Location
			addr.Location = &loc
		}
		out.Cart.ShippingAddress = &addr
	}
	if s.UserInfo != nil {
		user := *s.UserInfo
		out.UserInfo = &user
	}
	return out
}
