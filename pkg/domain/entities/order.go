package entities

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus represents the lifecycle state of a packing order
type OrderStatus int

const (
	Pending OrderStatus = iota
	Scheduled
	Completed
	Cancelled
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Scheduled:
		return "scheduled"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseOrderStatus parses the lowercase status names used by storage
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return Pending, nil
	case "scheduled":
		return Scheduled, nil
	case "completed":
		return Completed, nil
	case "cancelled", "canceled":
		return Cancelled, nil
	default:
		return Pending, fmt.Errorf("invalid order status: %s (expected pending, scheduled, completed or cancelled)", s)
	}
}

// Order is a customer request to pack a quantity of one product
type Order struct {
	ID            OrderID
	CustomerID    CustomerID
	ProductID     ProductID
	QuantityPacks Packs
	DueAt         time.Time
	Status        OrderStatus
}

// NewOrder creates a validated Order
func NewOrder(
	id OrderID,
	customerID CustomerID,
	productID ProductID,
	quantity Packs,
	dueAt time.Time,
	status OrderStatus,
) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	return &Order{
		ID:            id,
		CustomerID:    customerID,
		ProductID:     productID,
		QuantityPacks: quantity,
		DueAt:         dueAt,
		Status:        status,
	}, nil
}

// Schedulable reports whether the order may be placed on a line
func (o *Order) Schedulable() bool {
	return o.Status == Pending
}
