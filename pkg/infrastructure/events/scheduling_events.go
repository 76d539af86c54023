package events

import (
	"fmt"
	"time"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/repositories"
)

const (
	PlacementCommittedEvent         = "placement.committed"
	OrderStatusChangeRequestedEvent = "order.status_change_requested"
)

// LineStream and OrderStream name the streams events are appended to
func LineStream(id entities.LineID) string { return "line-" + string(id) }
func OrderStream(id entities.OrderID) string { return "order-" + string(id) }

type PlacementCommitted struct {
	Item           entities.ScheduleItem `json:"item"`
	PacksPerMinute string                `json:"packs_per_minute"`
	RateSource     string                `json:"rate_source"`
	SetupSource    string                `json:"setup_source"`
}

type OrderStatusChangeRequested struct {
	OrderID entities.OrderID     `json:"order_id"`
	From    entities.OrderStatus `json:"from"`
	To      entities.OrderStatus `json:"to"`
	Reason  string               `json:"reason"`
}

func NewPlacementCommitted(data PlacementCommitted, at time.Time) Event {
	return Event{Type: PlacementCommittedEvent, Stream: LineStream(data.Item.LineID), Payload: data, At: at}
}

func NewOrderStatusChangeRequested(data OrderStatusChangeRequested, at time.Time) Event {
	return Event{Type: OrderStatusChangeRequestedEvent, Stream: OrderStream(data.OrderID), Payload: data, At: at}
}

// OrderStatusProjector applies requested order status changes to an order repository.
// It stands in for the storage collaborator that owns order lifecycle.
type OrderStatusProjector struct {
	orders repositories.OrderRepository
}

func NewOrderStatusProjector(orders repositories.OrderRepository) *OrderStatusProjector {
	return &OrderStatusProjector{orders: orders}
}

var _ Handler = (*OrderStatusProjector)(nil)

func (p *OrderStatusProjector) Accepts(eventType string) bool {
	return eventType == OrderStatusChangeRequestedEvent
}

func (p *OrderStatusProjector) Handle(event Event) error {
	change, ok := event.Payload.(OrderStatusChangeRequested)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	order, err := p.orders.GetOrder(change.OrderID)
	if err != nil {
		return err
	}
	if order.Status != change.From {
		return fmt.Errorf("order %s is %s, expected %s", order.ID, order.Status, change.From)
	}
	return p.orders.UpdateOrderStatus(change.OrderID, change.To)
}
