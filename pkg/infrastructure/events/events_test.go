package events

import (
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/infrastructure/repositories/memory"
)

var at = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

type recordingHandler struct {
	types []string
	seen  []Event
	err   error
}

func (h *recordingHandler) Accepts(eventType string) bool {
	for _, t := range h.types {
		if t == eventType {
			return true
		}
	}
	return false
}

func (h *recordingHandler) Handle(event Event) error {
	h.seen = append(h.seen, event)
	return h.err
}

func committed(line entities.LineID, item entities.ScheduleItemID) Event {
	return NewPlacementCommitted(PlacementCommitted{Item: entities.ScheduleItem{ID: item, LineID: line}}, at)
}

func TestStore_VersionsPerStream(t *testing.T) {
	store := NewStore(testr.New(t))

	require.NoError(t, store.Append(committed("L1", "a")))
	require.NoError(t, store.Append(committed("L1", "b")))
	require.NoError(t, store.Append(committed("L2", "c")))

	lineEvents := store.Stream(LineStream("L1"))
	require.Len(t, lineEvents, 2)
	assert.Equal(t, 1, lineEvents[0].Version)
	assert.Equal(t, 2, lineEvents[1].Version)
	assert.Equal(t, at, lineEvents[1].At)
	payload, ok := lineEvents[1].Payload.(PlacementCommitted)
	require.True(t, ok)
	assert.Equal(t, entities.ScheduleItemID("b"), payload.Item.ID)

	other := store.Stream(LineStream("L2"))
	require.Len(t, other, 1)
	assert.Equal(t, 1, other[0].Version)

	assert.Empty(t, store.Stream(LineStream("L9")))
}

func TestStore_RejectsEventWithoutStream(t *testing.T) {
	store := NewStore(testr.New(t))

	err := store.Append(Event{Type: PlacementCommittedEvent})
	assert.EqualError(t, err, "event placement.committed has no stream")
}

func TestStore_DispatchesSynchronously(t *testing.T) {
	store := NewStore(testr.New(t))
	ok := &recordingHandler{types: []string{PlacementCommittedEvent}}
	failing := &recordingHandler{types: []string{PlacementCommittedEvent}, err: errors.New("sink down")}
	store.Subscribe(ok, PlacementCommittedEvent)
	store.Subscribe(failing, PlacementCommittedEvent)

	err := store.Append(committed("L1", "a"))
	assert.EqualError(t, err, "sink down")
	assert.Len(t, ok.seen, 1)
	assert.Len(t, failing.seen, 1)

	// the event is kept even though a handler failed
	assert.Len(t, store.Stream(LineStream("L1")), 1)
}

func TestOrderStatusProjector(t *testing.T) {
	orders := memory.NewOrderRepository(1)
	require.NoError(t, orders.AddOrder(entities.Order{ID: "O1", ProductID: "P", QuantityPacks: 1, Status: entities.Pending}))

	store := NewStore(testr.New(t))
	store.Subscribe(NewOrderStatusProjector(orders), OrderStatusChangeRequestedEvent)

	change := OrderStatusChangeRequested{OrderID: "O1", From: entities.Pending, To: entities.Scheduled, Reason: "committed"}
	require.NoError(t, store.Append(NewOrderStatusChangeRequested(change, at)))

	order, err := orders.GetOrder("O1")
	require.NoError(t, err)
	assert.Equal(t, entities.Scheduled, order.Status)

	// replaying the same request no longer matches the current status
	err = store.Append(NewOrderStatusChangeRequested(change, at))
	assert.Error(t, err)
}
