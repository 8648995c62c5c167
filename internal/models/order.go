package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type TableRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

// OrderItem is one line of an order. Price is the menu price at order time.
type OrderItem struct {
	MenuItemID string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category"`
}

type Order struct {
	ID           string      `json:"id"`
	Table        TableRef    `json:"table"`
	RestaurantID string      `json:"restaurant"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	Status       OrderStatus `json:"status"`
	Time         time.Time   `json:"time"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type RevenueSummary struct {
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalOrders       int              `json:"totalOrders"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	MonthlyRevenue    []MonthlyRevenue `json:"monthlyRevenue"`
}
