package commands

import (
	"fmt"

	"github.com/vsinha/lineplan/pkg/application/services/changeover"
	"github.com/vsinha/lineplan/pkg/application/services/rates"
	"github.com/vsinha/lineplan/pkg/application/services/scheduling"
	"github.com/vsinha/lineplan/pkg/application/services/timeline"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/services"
	"github.com/vsinha/lineplan/pkg/infrastructure/events"
	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
	"github.com/vsinha/lineplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/lineplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/lineplan/pkg/interfaces/cli/output"
)

// environment is a scenario loaded into repositories with a scheduler on top
type environment struct {
	data      *entities.ReferenceData
	refs      *memory.ReferenceRepository
	orders    *memory.OrderRepository
	timeline  *timeline.Timeline
	scheduler *scheduling.Scheduler
}

// loadScenario reads and validates the configured scenario
func (a *app) loadScenario() (*entities.ReferenceData, error) {
	a.logger.V(logging.VERBOSE).Info("Loading scenario", "dir", a.cfg.Scenario)

	data, err := csv.NewLoader().LoadScenario(a.cfg.Scenario)
	if err != nil {
		return nil, fmt.Errorf("error loading scenario: %w", err)
	}

	a.logger.V(logging.VERBOSE).Info("Scenario loaded",
		"products", len(data.Products), "lines", len(data.Lines),
		"orders", len(data.Orders), "scheduleItems", len(data.Schedule))
	return data, nil
}

// newEnvironment loads the scenario and wires every collaborator the scheduler needs
func (a *app) newEnvironment() (*environment, error) {
	data, err := a.loadScenario()
	if err != nil {
		return nil, err
	}
	if err := services.NewSnapshotValidator().Validate(data); err != nil {
		return nil, fmt.Errorf("scenario %s is invalid (run validate for details): %w", a.cfg.Scenario, err)
	}

	refs := memory.NewReferenceRepository()
	if err := refs.LoadReferenceData(data); err != nil {
		return nil, fmt.Errorf("failed to load reference data into repository: %w", err)
	}
	orders := memory.NewOrderRepository(len(data.Orders))
	if err := orders.LoadOrders(data.Orders); err != nil {
		return nil, fmt.Errorf("failed to load orders into repository: %w", err)
	}

	tl := timeline.New(a.metrics)
	if err := tl.Load(data.Schedule); err != nil {
		return nil, fmt.Errorf("failed to load existing schedule: %w", err)
	}

	store := events.NewStore(a.logger.WithName("events"))
	store.Subscribe(events.NewOrderStatusProjector(orders), events.OrderStatusChangeRequestedEvent)

	rateResolver := rates.NewResolver(refs,
		rates.WithLogger(a.logger.WithName("rates")),
		rates.WithMetrics(a.metrics))
	changeoverResolver := changeover.NewResolver(refs,
		changeover.WithBaseSetup(entities.Minutes(a.cfg.BaseSetupMinutes)),
		changeover.WithLogger(a.logger.WithName("changeover")),
		changeover.WithMetrics(a.metrics))

	scheduler := scheduling.NewScheduler(refs, orders, rateResolver, changeoverResolver, tl,
		scheduling.WithPublisher(store),
		scheduling.WithClock(a.clock),
		scheduling.WithLogger(a.logger.WithName("scheduler")),
		scheduling.WithMetrics(a.metrics),
	)

	return &environment{
		data:      data,
		refs:      refs,
		orders:    orders,
		timeline:  tl,
		scheduler: scheduler,
	}, nil
}

// lanes returns every configured line's schedule, lines without items included
func (e *environment) lanes() []output.Lane {
	lines, _ := e.refs.GetAllLines()
	lanes := make([]output.Lane, 0, len(lines))
	for _, line := range lines {
		lanes = append(lanes, output.Lane{
			LineID:  line.ID,
			Planned: e.timeline.Items(line.ID),
			Actual:  e.timeline.Actuals(line.ID),
		})
	}
	return lanes
}
