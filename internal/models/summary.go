package models

// SalesPoint is one month of sales in the admin dashboard chart.
type SalesPoint struct {
	Month      string  `bson:"_id" json:"_id"`
	TotalSales float64 `bson:"totalSales" json:"totalSales"`
}

type Summary struct {
	OrdersCount   int64        `json:"ordersCount"`
	ProductsCount int64        `json:"productsCount"`
	UsersCount    int64        `json:"usersCount"`
	OrdersPrice   float64      `json:"ordersPrice"`
	SalesData     []SalesPoint `json:"salesData"`
}
