package entities

import (
	"fmt"
	"strings"
	"time"
)

// ItemKind distinguishes forward plans from recorded floor history
type ItemKind int

const (
	Planned ItemKind = iota
	Actual
)

// String method for ItemKind enum
func (k ItemKind) String() string {
	switch k {
	case Planned:
		return "PLANNED"
	case Actual:
		return "ACTUAL"
	default:
		return "UNKNOWN"
	}
}

// ParseItemKind accepts PLANNED or ACTUAL in any case
func ParseItemKind(s string) (ItemKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PLANNED":
		return Planned, nil
	case "ACTUAL":
		return Actual, nil
	default:
		return Planned, fmt.Errorf("invalid item kind: %s (expected PLANNED or ACTUAL)", s)
	}
}

// ScheduleItem is one time-boxed block of work on a line
type ScheduleItem struct {
	ID           ScheduleItemID
	OrderID      OrderID
	ProductID    ProductID
	LineID       LineID
	StartAt      time.Time
	EndAt        time.Time
	SetupMinutes Minutes
	RunMinutes   Minutes
	Kind         ItemKind
}

// NewScheduleItem creates a validated ScheduleItem
func NewScheduleItem(
	id ScheduleItemID,
	orderID OrderID,
	productID ProductID,
	lineID LineID,
	startAt, endAt time.Time,
	setup, run Minutes,
	kind ItemKind,
) (*ScheduleItem, error) {
	item := &ScheduleItem{
		ID:           id,
		OrderID:      orderID,
		ProductID:    productID,
		LineID:       lineID,
		StartAt:      startAt,
		EndAt:        endAt,
		SetupMinutes: setup,
		RunMinutes:   run,
		Kind:         kind,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the item's time box against its minute breakdown
func (s *ScheduleItem) Validate() error {
	if s.LineID == "" {
		return fmt.Errorf("schedule item line cannot be empty")
	}
	if s.OrderID == "" {
		return fmt.Errorf("schedule item order cannot be empty")
	}
	if s.SetupMinutes < 0 || s.RunMinutes < 0 {
		return fmt.Errorf("setup and run minutes cannot be negative, got %d and %d", s.SetupMinutes, s.RunMinutes)
	}
	if !s.EndAt.After(s.StartAt) {
		return fmt.Errorf("end %v must be after start %v", s.EndAt, s.StartAt)
	}
	if got, want := s.EndAt.Sub(s.StartAt), s.TotalMinutes().Duration(); got != want {
		return fmt.Errorf("item spans %v but setup+run is %v", got, want)
	}
	return nil
}

// TotalMinutes returns setup plus run minutes
func (s *ScheduleItem) TotalMinutes() Minutes {
	return s.SetupMinutes + s.RunMinutes
}
