package rates

import (
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/infrastructure/metrics"
	"github.com/vsinha/lineplan/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/lineplan/pkg/infrastructure/testing"
)

func TestResolver_SpecificOverridesMaster(t *testing.T) {
	refRepo, _ := testhelpers.BuildBerryFarmRepositories()
	resolver := NewResolver(refRepo, WithLogger(testr.New(t)))

	product, err := refRepo.GetProduct(testhelpers.MixedBerryProduct)
	require.NoError(t, err)
	premium, err := refRepo.GetLine(testhelpers.PremiumLine)
	require.NoError(t, err)
	standard, err := refRepo.GetLine(testhelpers.StandardLine)
	require.NoError(t, err)

	res, err := resolver.Resolve(product, premium)
	require.NoError(t, err)
	assert.True(t, res.PacksPerMinute.Equal(decimal.NewFromInt(90)), "got %s", res.PacksPerMinute)
	assert.Equal(t, SourceSpecific, res.Source)

	// no override on the standard line: master 500g rate applies
	res, err = resolver.Resolve(product, standard)
	require.NoError(t, err)
	assert.True(t, res.PacksPerMinute.Equal(decimal.NewFromInt(100)), "got %s", res.PacksPerMinute)
	assert.Equal(t, SourceMaster, res.Source)
}

func TestResolver_EveryProductLinePair(t *testing.T) {
	refRepo, _ := testhelpers.BuildBerryFarmRepositories()
	resolver := NewResolver(refRepo)
	data := testhelpers.BuildBerryFarmTestData()

	specific := make(map[entities.SpecificRateKey]decimal.Decimal)
	for _, r := range data.SpecificRunRates {
		specific[r.Key()] = r.PacksPerMinute
	}
	master := make(map[entities.MasterRateKey]decimal.Decimal)
	for _, r := range data.MasterRunRates {
		master[r.Key()] = r.PacksPerMinute
	}

	for i := range data.Products {
		product := &data.Products[i]
		for j := range data.Lines {
			line := &data.Lines[j]
			res, err := resolver.Resolve(product, line)
			require.NoError(t, err)

			want, ok := specific[entities.SpecificRateKey{ProductID: product.ID, LineID: line.ID}]
			if !ok {
				want = master[entities.MasterRateKey{PunnetSizeID: product.PunnetSizeID, LineID: line.ID}]
			}
			assert.True(t, res.PacksPerMinute.Equal(want), "%s on %s: want %s, got %s",
				product.ID, line.ID, want, res.PacksPerMinute)
		}
	}
}

func TestResolver_NotConfigured(t *testing.T) {
	repo := memory.NewReferenceRepository()
	require.NoError(t, repo.AddSpecificRunRate(entities.SpecificRunRate{
		ProductID: "other", LineID: "L1", PacksPerMinute: decimal.NewFromInt(10),
	}))
	m := metrics.NewRecorder()
	resolver := NewResolver(repo, WithMetrics(m))

	product := &entities.Product{ID: "P", PunnetSizeID: "250g"}
	line := &entities.ProductionLine{ID: "L1"}

	_, err := resolver.Resolve(product, line)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrRateNotConfigured))

	var rateErr *entities.RateNotConfiguredError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, entities.ProductID("P"), rateErr.ProductID)
	assert.Equal(t, entities.LineID("L1"), rateErr.LineID)
}

type fixedRate struct {
	name string
	ppm  decimal.Decimal
	hit  bool
}

func (f fixedRate) Name() string { return f.name }

func (f fixedRate) Lookup(*entities.Product, *entities.ProductionLine) (decimal.Decimal, bool) {
	return f.ppm, f.hit
}

func TestResolver_FirstHitWins(t *testing.T) {
	resolver := NewResolverWithStrategies([]Strategy{
		fixedRate{name: "campaign", hit: false},
		fixedRate{name: "seasonal", ppm: decimal.NewFromInt(75), hit: true},
		fixedRate{name: "fallback", ppm: decimal.NewFromInt(1), hit: true},
	})

	res, err := resolver.Resolve(&entities.Product{ID: "P"}, &entities.ProductionLine{ID: "L"})
	require.NoError(t, err)
	assert.Equal(t, "seasonal", res.Source)
	assert.True(t, res.PacksPerMinute.Equal(decimal.NewFromInt(75)))
}
