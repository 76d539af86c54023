package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateNotConfigured indicates no run rate resolves for a product on a line.
	ErrRateNotConfigured = errors.New("run rate not configured")

	// ErrChangeoverNotConfigured indicates no changeover resolves for a product pair.
	ErrChangeoverNotConfigured = errors.New("changeover not configured")

	// ErrOverlapViolation indicates an insert would overlap the line's last planned item.
	ErrOverlapViolation = errors.New("overlap violation")

	// ErrInvalidOrderState indicates the order is not in a schedulable status.
	ErrInvalidOrderState = errors.New("invalid order state")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates a second row for an already-present key.
	ErrDuplicateKey = errors.New("duplicate key")
)

// RateNotConfiguredError names the (product, line) pair with no rate
type RateNotConfiguredError struct {
	ProductID ProductID
	LineID    LineID
}

func (e *RateNotConfiguredError) Error() string {
	return fmt.Sprintf("%s: no run rate for product %s on line %s", ErrRateNotConfigured, e.ProductID, e.LineID)
}

func (e *RateNotConfiguredError) Is(target error) bool {
	return target == ErrRateNotConfigured
}

// ChangeoverNotConfiguredError names the directed product pair with no changeover
type ChangeoverNotConfiguredError struct {
	From ProductID
	To   ProductID
}

func (e *ChangeoverNotConfiguredError) Error() string {
	return fmt.Sprintf("%s: no changeover from product %s to product %s", ErrChangeoverNotConfigured, e.From, e.To)
}

func (e *ChangeoverNotConfiguredError) Is(target error) bool {
	return target == ErrChangeoverNotConfigured
}

// OverlapViolationError describes a rejected timeline insert. When the predecessor
// fields differ, the item was computed against a last item the line no longer has.
type OverlapViolationError struct {
	LineID    LineID
	StartAt   time.Time
	LastEndAt time.Time

	ExpectedPredecessor ScheduleItemID
	ActualPredecessor   ScheduleItemID
}

func (e *OverlapViolationError) Error() string {
	if e.ExpectedPredecessor != e.ActualPredecessor {
		return fmt.Sprintf("%s: item on line %s was computed after %q but the last item is now %q",
			ErrOverlapViolation, e.LineID, e.ExpectedPredecessor, e.ActualPredecessor)
	}
	return fmt.Sprintf("%s: item on line %s starts at %s before last item ends at %s",
		ErrOverlapViolation, e.LineID, e.StartAt.Format(time.RFC3339), e.LastEndAt.Format(time.RFC3339))
}

func (e *OverlapViolationError) Is(target error) bool {
	return target == ErrOverlapViolation
}

// InvalidOrderStateError names an order that cannot be scheduled
type InvalidOrderStateError struct {
	OrderID OrderID
	Status  OrderStatus
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("%s: order %s is %s", ErrInvalidOrderState, e.OrderID, e.Status)
}

func (e *InvalidOrderStateError) Is(target error) bool {
	return target == ErrInvalidOrderState
}
