package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/lineplan/pkg/application/dto"
	"github.com/vsinha/lineplan/pkg/application/services/changeover"
	"github.com/vsinha/lineplan/pkg/application/services/rates"
	"github.com/vsinha/lineplan/pkg/application/services/timeline"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/repositories"
	"github.com/vsinha/lineplan/pkg/infrastructure/clock"
	"github.com/vsinha/lineplan/pkg/infrastructure/events"
	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
	"github.com/vsinha/lineplan/pkg/infrastructure/metrics"
)

// Scheduler turns "put order O on line L" into a time-boxed schedule item
type Scheduler struct {
	refs        repositories.ReferenceRepository
	orders      repositories.OrderRepository
	rates       *rates.Resolver
	changeovers *changeover.Resolver
	timeline    *timeline.Timeline

	events  events.Publisher
	clock   clock.Clock
	newID   func() entities.ScheduleItemID
	logger  logr.Logger
	metrics *metrics.Recorder

	// placed guards against committing one order twice while its status
	// change is still in the hands of the storage collaborator
	placedMu sync.Mutex
	placed   map[entities.OrderID]entities.ScheduleItemID
	inFlight map[entities.OrderID]struct{}
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithPublisher publishes commit events to p
func WithPublisher(p events.Publisher) Option {
	return func(s *Scheduler) { s.events = p }
}

// WithClock sets the clock used to stamp events
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithIDGenerator overrides how committed items are identified
func WithIDGenerator(newID func() entities.ScheduleItemID) Option {
	return func(s *Scheduler) { s.newID = newID }
}

// WithLogger sets the scheduler's logger
func WithLogger(logger logr.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithMetrics sets the scheduler's metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler wires the resolvers and the timeline together
func NewScheduler(
	refs repositories.ReferenceRepository,
	orders repositories.OrderRepository,
	rateResolver *rates.Resolver,
	changeoverResolver *changeover.Resolver,
	tl *timeline.Timeline,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		refs:        refs,
		orders:      orders,
		rates:       rateResolver,
		changeovers: changeoverResolver,
		timeline:    tl,
		clock:       clock.RealClock{},
		newID:       func() entities.ScheduleItemID { return entities.ScheduleItemID(uuid.NewString()) },
		logger:      logr.Discard(),
		placed:      make(map[entities.OrderID]entities.ScheduleItemID),
		inFlight:    make(map[entities.OrderID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunMinutes is the whole minutes needed to pack quantity at ppm.
// Packs are indivisible, so any remainder rounds up to a full minute.
func RunMinutes(quantity entities.Packs, ppm decimal.Decimal) entities.Minutes {
	q, r := decimal.NewFromInt(int64(quantity)).QuoRem(ppm, 0)
	if r.Sign() > 0 {
		q = q.Add(decimal.NewFromInt(1))
	}
	return entities.Minutes(q.IntPart())
}

// ComputePlacement proposes placing order after the last planned item on the line,
// never earlier than now. Resolver errors are returned unmodified.
func (s *Scheduler) ComputePlacement(order *entities.Order, lineID entities.LineID, now time.Time) (*dto.Proposal, error) {
	last, _ := s.timeline.LastItem(lineID)
	proposal, err := s.propose(order, lineID, last, now)
	s.metrics.RecordProposal(string(lineID), err)
	if err != nil {
		return nil, err
	}

	s.logger.V(logging.VERBOSE).Info("Computed placement",
		"order", proposal.OrderID, "line", proposal.LineID,
		"start", proposal.StartAt, "end", proposal.EndAt,
		"setupMinutes", proposal.SetupMinutes, "runMinutes", proposal.RunMinutes)
	return proposal, nil
}

func (s *Scheduler) propose(
	order *entities.Order,
	lineID entities.LineID,
	last *entities.ScheduleItem,
	now time.Time,
) (*dto.Proposal, error) {
	if order == nil {
		return nil, fmt.Errorf("order cannot be nil")
	}
	if !order.Schedulable() {
		return nil, &entities.InvalidOrderStateError{OrderID: order.ID, Status: order.Status}
	}

	line, err := s.refs.GetLine(lineID)
	if err != nil {
		return nil, err
	}
	product, err := s.refs.GetProduct(order.ProductID)
	if err != nil {
		return nil, err
	}

	anchor := now
	var predecessor *entities.Product
	var predecessorID entities.ScheduleItemID
	if last != nil {
		if last.EndAt.After(anchor) {
			anchor = last.EndAt
		}
		predecessorID = last.ID
		if predecessor, err = s.refs.GetProduct(last.ProductID); err != nil {
			return nil, fmt.Errorf("predecessor item %s: %w", last.ID, err)
		}
	}

	setup, err := s.changeovers.Resolve(predecessor, product)
	if err != nil {
		return nil, err
	}
	rate, err := s.rates.Resolve(product, line)
	if err != nil {
		return nil, err
	}
	if !rate.PacksPerMinute.IsPositive() {
		return nil, fmt.Errorf("run rate for product %s on line %s must be positive, got %s",
			product.ID, line.ID, rate.PacksPerMinute)
	}
	run := RunMinutes(order.QuantityPacks, rate.PacksPerMinute)

	return &dto.Proposal{
		OrderID:        order.ID,
		ProductID:      product.ID,
		LineID:         line.ID,
		QuantityPacks:  order.QuantityPacks,
		StartAt:        anchor,
		EndAt:          anchor.Add((setup.Minutes + run).Duration()),
		SetupMinutes:   setup.Minutes,
		RunMinutes:     run,
		Kind:           entities.Planned,
		PacksPerMinute: rate.PacksPerMinute,
		RateSource:     rate.Source,
		SetupSource:    setup.Source,
		PredecessorID:  predecessorID,
	}, nil
}

// Commit writes a proposal to the line's timeline. Under the line's lock the proposal's
// predecessor must still be the last planned item and the item must not overlap it;
// otherwise Commit fails with an OverlapViolationError. On success the
// pending -> scheduled status change is requested through the publisher.
func (s *Scheduler) Commit(ctx context.Context, proposal *dto.Proposal) (*entities.ScheduleItem, error) {
	if proposal == nil {
		return nil, fmt.Errorf("proposal cannot be nil")
	}
	item, err := s.commit(ctx, proposal)
	s.metrics.RecordCommit(string(proposal.LineID), err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Committed placement",
		"item", item.ID, "order", item.OrderID, "line", item.LineID,
		"start", item.StartAt, "end", item.EndAt)

	if err := s.publish(item, proposal); err != nil {
		return item, fmt.Errorf("placement %s committed but publishing failed: %w", item.ID, err)
	}
	return item, nil
}

func (s *Scheduler) commit(ctx context.Context, proposal *dto.Proposal) (*entities.ScheduleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if proposal.Kind != entities.Planned {
		return nil, fmt.Errorf("cannot commit a %s proposal", proposal.Kind)
	}

	if err := s.claim(proposal.OrderID); err != nil {
		return nil, err
	}
	defer s.release(proposal.OrderID)

	// a cancellation after the proposal was computed must block the commit
	order, err := s.orders.GetOrder(proposal.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.Schedulable() {
		return nil, &entities.InvalidOrderStateError{OrderID: order.ID, Status: order.Status}
	}

	item, err := s.timeline.AppendAfterLast(proposal.LineID, func(last *entities.ScheduleItem) (entities.ScheduleItem, error) {
		return s.build(proposal, last)
	})
	if err != nil {
		return nil, err
	}
	s.recordPlaced(*item)
	return item, nil
}

// build turns the proposal into an item, provided the line has not moved on since
// the proposal was computed. Setup minutes belong to one predecessor only.
func (s *Scheduler) build(proposal *dto.Proposal, last *entities.ScheduleItem) (entities.ScheduleItem, error) {
	var lastID entities.ScheduleItemID
	if last != nil {
		lastID = last.ID
	}
	if lastID != proposal.PredecessorID {
		stale := &entities.OverlapViolationError{
			LineID:              proposal.LineID,
			StartAt:             proposal.StartAt,
			ExpectedPredecessor: proposal.PredecessorID,
			ActualPredecessor:   lastID,
		}
		if last != nil {
			stale.LastEndAt = last.EndAt
		}
		s.logger.V(logging.DEBUG).Info("Proposal predecessor is stale",
			"order", proposal.OrderID, "line", proposal.LineID,
			"expected", proposal.PredecessorID, "actual", lastID)
		return entities.ScheduleItem{}, stale
	}
	return proposal.ScheduleItem(s.newID()), nil
}

func (s *Scheduler) claim(orderID entities.OrderID) error {
	s.placedMu.Lock()
	defer s.placedMu.Unlock()

	if _, ok := s.placed[orderID]; ok {
		return &entities.InvalidOrderStateError{OrderID: orderID, Status: entities.Scheduled}
	}
	if _, ok := s.inFlight[orderID]; ok {
		return fmt.Errorf("%w: order %s is already being committed", entities.ErrInvalidOrderState, orderID)
	}
	s.inFlight[orderID] = struct{}{}
	return nil
}

func (s *Scheduler) release(orderID entities.OrderID) {
	s.placedMu.Lock()
	defer s.placedMu.Unlock()
	delete(s.inFlight, orderID)
}

func (s *Scheduler) recordPlaced(item entities.ScheduleItem) {
	s.placedMu.Lock()
	defer s.placedMu.Unlock()
	s.placed[item.OrderID] = item.ID
}

func (s *Scheduler) publish(item *entities.ScheduleItem, proposal *dto.Proposal) error {
	if s.events == nil {
		return nil
	}
	at := s.clock.Now()

	committed := events.PlacementCommitted{
		Item:           *item,
		PacksPerMinute: proposal.PacksPerMinute.String(),
		RateSource:     proposal.RateSource,
		SetupSource:    proposal.SetupSource,
	}
	if err := s.events.Append(events.NewPlacementCommitted(committed, at)); err != nil {
		return err
	}

	change := events.OrderStatusChangeRequested{
		OrderID: item.OrderID,
		From:    entities.Pending,
		To:      entities.Scheduled,
		Reason:  fmt.Sprintf("placed on line %s as %s", item.LineID, item.ID),
	}
	return s.events.Append(events.NewOrderStatusChangeRequested(change, at))
}

// PlaceOrder computes and commits a placement. If the commit loses a race on the
// line it recomputes against the fresh timeline and tries once more.
func (s *Scheduler) PlaceOrder(ctx context.Context, orderID entities.OrderID, lineID entities.LineID, now time.Time) (*entities.ScheduleItem, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		proposal, err := s.ComputePlacement(order, lineID, now)
		if err != nil {
			return nil, err
		}
		item, err := s.Commit(ctx, proposal)
		if err != nil && errors.Is(err, entities.ErrOverlapViolation) && attempt == 1 {
			s.logger.V(logging.VERBOSE).Info("Placement went stale, recomputing", "order", orderID, "line", lineID)
			continue
		}
		return item, err
	}
}

// PlanAssignments places each assignment in turn. Failures are collected and do
// not stop later assignments; only context cancellation aborts the batch.
func (s *Scheduler) PlanAssignments(ctx context.Context, assignments []dto.Assignment, now time.Time) (*dto.PlanResult, error) {
	result := &dto.PlanResult{}
	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item, err := s.PlaceOrder(ctx, a.OrderID, a.LineID, now)
		if item != nil {
			result.Committed = append(result.Committed, *item)
		}
		if err != nil {
			s.logger.Error(err, "Assignment not placed", "order", a.OrderID, "line", a.LineID)
			result.Failures = append(result.Failures, dto.AssignmentFailure{Assignment: a, Err: err})
		}
	}
	return result, nil
}

// Timeline exposes the scheduler's line timeline for reads
func (s *Scheduler) Timeline() *timeline.Timeline {
	return s.timeline
}
