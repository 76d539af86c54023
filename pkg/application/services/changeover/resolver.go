package changeover

import (
	"github.com/go-logr/logr"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/repositories"
	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
	"github.com/vsinha/lineplan/pkg/infrastructure/metrics"
)

// DefaultBaseSetupMinutes is the setup charged on an empty line
const DefaultBaseSetupMinutes entities.Minutes = 0

// Source names reported for a resolved changeover
const (
	SourceBase            = "base"
	SourceSpecific        = "specific"
	SourceMaster          = "master"
	SourceSameSizeDefault = "same-size-default"
)

// Strategy is one tier of the changeover lookup chain. Lookups are directed.
type Strategy interface {
	Name() string
	Lookup(from, to *entities.Product) (entities.Minutes, bool)
}

// Resolution is an effective setup time and the tier that supplied it
type Resolution struct {
	Minutes entities.Minutes
	Source  string
}

// Resolver resolves setup minutes between consecutive products on a line
type Resolver struct {
	baseSetup  entities.Minutes
	strategies []Strategy
	logger     logr.Logger
	metrics    *metrics.Recorder
}

// Option configures a Resolver
type Option func(*Resolver)

// WithBaseSetup overrides the empty-line setup minutes
func WithBaseSetup(minutes entities.Minutes) Option {
	return func(r *Resolver) { r.baseSetup = minutes }
}

// WithLogger sets the resolver's logger
func WithLogger(logger logr.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithMetrics sets the resolver's metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates the default chain: specific product pair, master punnet size pair,
// then zero for an unlisted same-size pair.
func NewResolver(repo repositories.RateRepository, opts ...Option) *Resolver {
	return NewResolverWithStrategies([]Strategy{
		SpecificChangeover{Repo: repo},
		MasterChangeover{Repo: repo},
		SameSizeDefault{},
	}, opts...)
}

// NewResolverWithStrategies creates a resolver over an explicit chain
func NewResolverWithStrategies(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		baseSetup:  DefaultBaseSetupMinutes,
		strategies: strategies,
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseSetup returns the empty-line setup minutes
func (r *Resolver) BaseSetup() entities.Minutes {
	return r.baseSetup
}

// Resolve returns the setup minutes to switch a line from one product to the next.
// A nil from means the line is empty and the base setup applies.
func (r *Resolver) Resolve(from, to *entities.Product) (Resolution, error) {
	if from == nil {
		r.metrics.RecordResolution("changeover", SourceBase)
		return Resolution{Minutes: r.baseSetup, Source: SourceBase}, nil
	}

	for _, s := range r.strategies {
		minutes, ok := s.Lookup(from, to)
		if !ok {
			continue
		}
		r.logger.V(logging.DEBUG).Info("Resolved changeover",
			"from", from.ID, "to", to.ID, "source", s.Name(), "minutes", minutes)
		r.metrics.RecordResolution("changeover", s.Name())
		return Resolution{Minutes: minutes, Source: s.Name()}, nil
	}
	r.metrics.RecordResolution("changeover", "none")
	return Resolution{}, &entities.ChangeoverNotConfiguredError{From: from.ID, To: to.ID}
}

// SpecificChangeover looks up SpecificChangeover(from, to)
type SpecificChangeover struct {
	Repo repositories.RateRepository
}

func (SpecificChangeover) Name() string { return SourceSpecific }

func (s SpecificChangeover) Lookup(from, to *entities.Product) (entities.Minutes, bool) {
	c, ok := s.Repo.SpecificChangeover(from.ID, to.ID)
	if !ok {
		return 0, false
	}
	return c.Minutes, true
}

// MasterChangeover looks up MasterChangeover(from.punnetSize, to.punnetSize)
type MasterChangeover struct {
	Repo repositories.RateRepository
}

func (MasterChangeover) Name() string { return SourceMaster }

func (s MasterChangeover) Lookup(from, to *entities.Product) (entities.Minutes, bool) {
	c, ok := s.Repo.MasterChangeover(from.PunnetSizeID, to.PunnetSizeID)
	if !ok {
		return 0, false
	}
	return c.Minutes, true
}

// SameSizeDefault answers 0 for a same-size pair with no master row.
// An explicit (A,A) master row always wins because it sits earlier in the chain.
type SameSizeDefault struct{}

func (SameSizeDefault) Name() string { return SourceSameSizeDefault }

func (SameSizeDefault) Lookup(from, to *entities.Product) (entities.Minutes, bool) {
	if from.PunnetSizeID != to.PunnetSizeID {
		return 0, false
	}
	return 0, true
}
