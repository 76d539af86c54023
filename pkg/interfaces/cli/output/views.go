package output

import (
	"time"

	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/application/dto"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/services"
)

// JSON shapes. Entities carry no tags, so the wire names live here.

type itemView struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	ProductID    string    `json:"product_id"`
	LineID       string    `json:"line_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	SetupMinutes int       `json:"setup_minutes"`
	RunMinutes   int       `json:"run_minutes"`
	Kind         string    `json:"kind"`
}

func newItemViews(items []entities.ScheduleItem) []itemView {
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			ID:           string(item.ID),
			OrderID:      string(item.OrderID),
			ProductID:    string(item.ProductID),
			LineID:       string(item.LineID),
			StartAt:      item.StartAt,
			EndAt:        item.EndAt,
			SetupMinutes: int(item.SetupMinutes),
			RunMinutes:   int(item.RunMinutes),
			Kind:         item.Kind.String(),
		})
	}
	return views
}

type proposalView struct {
	OrderID        string               `json:"order_id"`
	ProductID      string               `json:"product_id"`
	LineID         string               `json:"line_id"`
	QuantityPacks  int64                `json:"quantity_packs"`
	StartAt        time.Time            `json:"start_at"`
	EndAt          time.Time            `json:"end_at"`
	Summary        dto.PlacementSummary `json:"summary"`
	PacksPerMinute string               `json:"packs_per_minute"`
	RateSource     string               `json:"rate_source"`
	SetupSource    string               `json:"setup_source"`
	PredecessorID  string               `json:"predecessor_id,omitempty"`
}

func newProposalView(p *dto.Proposal) proposalView {
	return proposalView{
		OrderID:        string(p.OrderID),
		ProductID:      string(p.ProductID),
		LineID:         string(p.LineID),
		QuantityPacks:  int64(p.QuantityPacks),
		StartAt:        p.StartAt,
		EndAt:          p.EndAt,
		Summary:        p.Summary(),
		PacksPerMinute: p.PacksPerMinute.String(),
		RateSource:     p.RateSource,
		SetupSource:    p.SetupSource,
		PredecessorID:  string(p.PredecessorID),
	}
}

type laneView struct {
	LineID  string     `json:"line_id"`
	Planned []itemView `json:"planned"`
	Actual  []itemView `json:"actual"`
}

type failureView struct {
	OrderID string `json:"order_id"`
	LineID  string `json:"line_id"`
	Error   string `json:"error"`
}

type planView struct {
	PlanTime time.Time     `json:"plan_time"`
	Lanes    []laneView    `json:"lanes"`
	Placed   []itemView    `json:"placed"`
	Failures []failureView `json:"failures"`
}

func newPlanView(report PlanReport) planView {
	view := planView{
		PlanTime: report.PlanTime,
		Lanes:    make([]laneView, 0, len(report.Lanes)),
		Placed:   []itemView{},
		Failures: []failureView{},
	}
	for _, lane := range report.Lanes {
		view.Lanes = append(view.Lanes, laneView{
			LineID:  string(lane.LineID),
			Planned: newItemViews(lane.Planned),
			Actual:  newItemViews(lane.Actual),
		})
	}
	if report.Result != nil {
		view.Placed = newItemViews(report.Result.Committed)
		for _, f := range report.Result.Failures {
			view.Failures = append(view.Failures, failureView{
				OrderID: string(f.Assignment.OrderID),
				LineID:  string(f.Assignment.LineID),
				Error:   f.Err.Error(),
			})
		}
	}
	return view
}

type gapView struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type validationView struct {
	Valid              bool      `json:"valid"`
	Problems           []string  `json:"problems"`
	MissingRates       []gapView `json:"missing_rates"`
	MissingChangeovers []gapView `json:"missing_changeovers"`
}

func newValidationView(problems error, coverage *services.CoverageReport) validationView {
	errs := multierr.Errors(problems)
	view := validationView{
		Valid:              len(errs) == 0,
		Problems:           make([]string, 0, len(errs)),
		MissingRates:       []gapView{},
		MissingChangeovers: []gapView{},
	}
	for _, err := range errs {
		view.Problems = append(view.Problems, err.Error())
	}
	if coverage != nil {
		for _, gap := range coverage.MissingRates {
			view.MissingRates = append(view.MissingRates, gapView{From: string(gap.ProductID), To: string(gap.LineID)})
		}
		for _, gap := range coverage.MissingChangeovers {
			view.MissingChangeovers = append(view.MissingChangeovers, gapView{From: string(gap.From), To: string(gap.To)})
		}
	}
	return view
}
