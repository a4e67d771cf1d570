package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a priced snapshot of a product at the time the order was placed.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Slug     string             `bson:"slug" json:"slug"`
	Image    string             `bson:"image" json:"image"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Location is the point picked on the map during checkout.
type Location struct {
	Lat             float64 `bson:"lat" json:"lat"`
	Lng             float64 `bson:"lng" json:"lng"`
	Address         string  `bson:"address,omitempty" json:"address,omitempty"`
	Name            string  `bson:"name,omitempty" json:"name,omitempty"`
	Vicinity        string  `bson:"vicinity,omitempty" json:"vicinity,omitempty"`
	GoogleAddressID string  `bson:"googleAddressId,omitempty" json:"googleAddressId,omitempty"`
}

type ShippingAddress struct {
	FullName   string    `bson:"fullName" json:"fullName" binding:"required"`
	Address    string    `bson:"address" json:"address" binding:"required"`
	City       string    `bson:"city" json:"city" binding:"required"`
	PostalCode string    `bson:"postalCode" json:"postalCode" binding:"required"`
	Country    string    `bson:"country" json:"country" binding:"required"`
	Location   *Location `bson:"location,omitempty" json:"location,omitempty"`
}

// PaymentResult keeps what the payment gateway reported on capture.
type PaymentResult struct {
	ID           string `bson:"id" json:"id"`
	Status       string `bson:"status" json:"status"`
	EmailAddress string `bson:"emailAddress" json:"email_address"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   *PaymentResult     `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TaxPrice        float64            `bson:"taxPrice" json:"taxPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderUser is the slice of the owning user shown in the admin order list.
type OrderUser struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// AdminOrder is an order with its owner's name resolved. In JSON the
// resolved owner replaces the bare id under "user", and is null once the
// account is gone.
type AdminOrder struct {
	Order    `bson:",inline"`
	UserInfo *OrderUser `bson:"userInfo,omitempty" json:"-"`
}

// order drops Order's method set so the wrappers below do not recurse.
type order Order

type adminOrderJSON struct {
	order
	User *OrderUser `json:"user"`
}

func (o AdminOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(adminOrderJSON{order: order(o.Order), User: o.UserInfo})
}

func (o *AdminOrder) UnmarshalJSON(data []byte) error {
	var v adminOrderJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Order = Order(v.order)
	o.UserInfo = v.User
	if v.User != nil {
		o.User = v.User.ID
	}
	return nil
}
