package rates

import (
	"github.com/go-logr/logr"
	"github.com/shopspring/decimal"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/repositories"
	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
	"github.com/vsinha/lineplan/pkg/infrastructure/metrics"
)

// Source names reported for a resolved rate
const (
	SourceSpecific = "specific"
	SourceMaster   = "master"
)

// Strategy is one tier of the rate lookup chain
type Strategy interface {
	Name() string
	Lookup(product *entities.Product, line *entities.ProductionLine) (decimal.Decimal, bool)
}

// Resolution is an effective run rate and the tier that supplied it
type Resolution struct {
	PacksPerMinute decimal.Decimal
	Source         string
}

// Resolver walks its strategies in order; the first hit wins
type Resolver struct {
	strategies []Strategy
	logger     logr.Logger
	metrics    *metrics.Recorder
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the resolver's logger
func WithLogger(logger logr.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithMetrics sets the resolver's metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates the default chain: specific product override, then master punnet size rate
func NewResolver(repo repositories.RateRepository, opts ...Option) *Resolver {
	return NewResolverWithStrategies([]Strategy{
		SpecificRate{Repo: repo},
		MasterRate{Repo: repo},
	}, opts...)
}

// NewResolverWithStrategies creates a resolver over an explicit chain
func NewResolverWithStrategies(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: strategies,
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the effective packs-per-minute for a product on a line.
// It fails with a RateNotConfiguredError when no tier has a row.
func (r *Resolver) Resolve(product *entities.Product, line *entities.ProductionLine) (Resolution, error) {
	for _, s := range r.strategies {
		ppm, ok := s.Lookup(product, line)
		if !ok {
			continue
		}
		r.logger.V(logging.DEBUG).Info("Resolved run rate",
			"product", product.ID, "line", line.ID, "source", s.Name(), "packsPerMinute", ppm.String())
		r.metrics.RecordResolution("rate", s.Name())
		return Resolution{PacksPerMinute: ppm, Source: s.Name()}, nil
	}
	r.metrics.RecordResolution("rate", "none")
	return Resolution{}, &entities.RateNotConfiguredError{ProductID: product.ID, LineID: line.ID}
}

// SpecificRate looks up SpecificRunRate(product, line)
type SpecificRate struct {
	Repo repositories.RateRepository
}

func (SpecificRate) Name() string { return SourceSpecific }

func (s SpecificRate) Lookup(product *entities.Product, line *entities.ProductionLine) (decimal.Decimal, bool) {
	rate, ok := s.Repo.SpecificRunRate(product.ID, line.ID)
	if !ok {
		return decimal.Decimal{}, false
	}
	return rate.PacksPerMinute, true
}

// MasterRate looks up MasterRunRate(product.punnetSize, line)
type MasterRate struct {
	Repo repositories.RateRepository
}

func (MasterRate) Name() string { return SourceMaster }

func (s MasterRate) Lookup(product *entities.Product, line *entities.ProductionLine) (decimal.Decimal, bool) {
	rate, ok := s.Repo.MasterRunRate(product.PunnetSizeID, line.ID)
	if !ok {
		return decimal.Decimal{}, false
	}
	return rate.PacksPerMinute, true
}
