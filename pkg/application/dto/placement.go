package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/domain/entities"
)

// Proposal is a computed, not yet committed, placement of an order on a line.
// It carries no id or clock reading, so equal inputs give equal proposals.
type Proposal struct {
	OrderID       entities.OrderID
	ProductID     entities.ProductID
	LineID        entities.LineID
	QuantityPacks entities.Packs
	StartAt       time.Time
	EndAt         time.Time
	SetupMinutes  entities.Minutes
	RunMinutes    entities.Minutes
	Kind          entities.ItemKind

	PacksPerMinute decimal.Decimal
	RateSource     string
	SetupSource    string
	// PredecessorID is empty when the line had no planned item
	PredecessorID entities.ScheduleItemID
}

// PlacementSummary is what a confirmation screen shows before commit
type PlacementSummary struct {
	SetupMinutes entities.Minutes `json:"setup_minutes"`
	RunMinutes   entities.Minutes `json:"run_minutes"`
	TotalMinutes entities.Minutes `json:"total_minutes"`
}

// Summary returns the setup, run and total minutes of the proposal
func (p *Proposal) Summary() PlacementSummary {
	return PlacementSummary{
		SetupMinutes: p.SetupMinutes,
		RunMinutes:   p.RunMinutes,
		TotalMinutes: p.SetupMinutes + p.RunMinutes,
	}
}

// ScheduleItem materialises the proposal under the given id
func (p *Proposal) ScheduleItem(id entities.ScheduleItemID) entities.ScheduleItem {
	return entities.ScheduleItem{
		ID:           id,
		OrderID:      p.OrderID,
		ProductID:    p.ProductID,
		LineID:       p.LineID,
		StartAt:      p.StartAt,
		EndAt:        p.EndAt,
		SetupMinutes: p.SetupMinutes,
		RunMinutes:   p.RunMinutes,
		Kind:         p.Kind,
	}
}

// Assignment asks for one order to be placed on one line
type Assignment struct {
	OrderID entities.OrderID
	LineID  entities.LineID
}

// AssignmentFailure records why an assignment was not placed
type AssignmentFailure struct {
	Assignment Assignment
	Err        error
}

// PlanResult contains the outcome of placing a batch of assignments
type PlanResult struct {
	Committed []entities.ScheduleItem
	Failures  []AssignmentFailure
}

// Err combines every failure into one error, or nil when all assignments were placed
func (r *PlanResult) Err() error {
	var errs error
	for _, f := range r.Failures {
		errs = multierr.Append(errs, f.Err)
	}
	return errs
}
