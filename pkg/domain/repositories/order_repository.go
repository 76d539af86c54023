package repositories

import "github.com/vsinha/lineplan/pkg/domain/entities"

// OrderRepository provides access to packing orders
type OrderRepository interface {
	GetOrder(id entities.OrderID) (*entities.Order, error)
	GetOrdersByStatus(status entities.OrderStatus) ([]*entities.Order, error)
	UpdateOrderStatus(id entities.OrderID, status entities.OrderStatus) error
}
