package domain

import (
	"math"
	"time"
)

// MaxQuantity is the largest line quantity the INTEGER quantity and stock columns can hold.
const MaxQuantity = math.MaxInt32

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCanceled  OrderStatus = "CANCELED"
)

type Order struct {
	ID        int64       `json:"id"`
	MemberID  int64       `json:"memberId"`
	OrderDate time.Time   `json:"orderDate"`
	Status    OrderStatus `json:"status"`
	Lines     []OrderLine `json:"lineItems"`
}

type OrderLine struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"orderId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderItem is one requested (product, quantity) pair of a checkout.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
