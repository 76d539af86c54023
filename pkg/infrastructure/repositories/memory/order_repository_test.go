package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/vsinha/lineplan/pkg/domain/entities"
)

func TestOrderRepository_StatusLifecycle(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	repo := NewOrderRepository(3)

	err := repo.LoadOrders([]entities.Order{
		{ID: "O2", ProductID: "A", QuantityPacks: 10, DueAt: base.Add(48 * time.Hour), Status: entities.Pending},
		{ID: "O1", ProductID: "A", QuantityPacks: 10, DueAt: base.Add(24 * time.Hour), Status: entities.Pending},
		{ID: "O3", ProductID: "B", QuantityPacks: 10, DueAt: base, Status: entities.Cancelled},
	})
	if err != nil {
		t.Fatalf("Failed to load orders: %v", err)
	}

	pending, err := repo.GetOrdersByStatus(entities.Pending)
	if err != nil {
		t.Fatalf("Failed to get pending orders: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "O1" {
		t.Errorf("Expected 2 pending orders with O1 first, got %v", pending)
	}

	if err := repo.UpdateOrderStatus("O1", entities.Scheduled); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}
	order, err := repo.GetOrder("O1")
	if err != nil {
		t.Fatalf("Failed to get order: %v", err)
	}
	if order.Status != entities.Scheduled {
		t.Errorf("Expected scheduled, got %s", order.Status)
	}

	// returned orders are copies
	order.Status = entities.Cancelled
	again, _ := repo.GetOrder("O1")
	if again.Status != entities.Scheduled {
		t.Errorf("Expected stored order to stay scheduled, got %s", again.Status)
	}
}

func TestOrderRepository_Errors(t *testing.T) {
	repo := NewOrderRepository(1)
	if err := repo.AddOrder(entities.Order{ID: "O1"}); err != nil {
		t.Fatalf("Failed to add order: %v", err)
	}
	if err := repo.AddOrder(entities.Order{ID: "O1"}); !errors.Is(err, entities.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := repo.UpdateOrderStatus("O9", entities.Scheduled); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
