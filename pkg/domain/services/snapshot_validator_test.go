package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	testhelpers "github.com/vsinha/lineplan/pkg/infrastructure/testing"
)

func TestSnapshotValidator_BerryFarmIsValid(t *testing.T) {
	v := NewSnapshotValidator()
	data := testhelpers.BuildBerryFarmTestData()

	assert.NoError(t, v.Validate(data))

	report := v.Coverage(data)
	assert.True(t, report.Complete(), "unexpected gaps: %+v", report)
}

func TestSnapshotValidator_ReportsEveryProblem(t *testing.T) {
	v := NewSnapshotValidator()
	data := testhelpers.BuildBerryFarmTestData()

	data.MasterRunRates = append(data.MasterRunRates, entities.MasterRunRate{
		PunnetSizeID: "125g", LineID: testhelpers.PremiumLine, PacksPerMinute: decimal.NewFromInt(200),
	})
	// duplicate and negative
	data.MasterChangeovers = append(data.MasterChangeovers, entities.MasterChangeover{
		FromPunnetSizeID: "125g", ToPunnetSizeID: "250g", Minutes: -5,
	})
	data.Orders[0].QuantityPacks = 0
	data.Products = append(data.Products, entities.Product{
		ID: "ghost", Name: "Ghost", CustomerID: testhelpers.PremiumFruitsCustomer, PunnetSizeID: "2kg",
	})

	err := v.Validate(data)
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 5)
	assert.ErrorIs(t, err, entities.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "order O1 quantity must be positive")
	assert.Contains(t, err.Error(), "unknown punnet size 2kg")
}

func TestSnapshotValidator_UnknownReferences(t *testing.T) {
	v := NewSnapshotValidator()
	data := testhelpers.BuildBerryFarmTestData()

	data.SpecificRunRates = append(data.SpecificRunRates, entities.SpecificRunRate{
		ProductID: "missing", LineID: "L9", PacksPerMinute: decimal.NewFromInt(10),
	})
	data.Orders = append(data.Orders, entities.Order{
		ID: "O4", CustomerID: "nobody", ProductID: testhelpers.StrawberryProduct, QuantityPacks: 10,
	})

	errs := multierr.Errors(v.Validate(data))
	require.Len(t, errs, 3)
	assert.EqualError(t, errs[0], "specific run rate references unknown product missing")
	assert.EqualError(t, errs[1], "specific run rate references unknown line L9")
	assert.EqualError(t, errs[2], "order O4 references unknown customer nobody")
}

func TestSnapshotValidator_ProductVarietyInvariant(t *testing.T) {
	v := NewSnapshotValidator()
	data := testhelpers.BuildBerryFarmTestData()
	data.Products[0].Varieties = append(data.Products[0].Varieties,
		entities.ProductVariety{FruitVariantID: "chandler", Preferred: true})

	err := v.Validate(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not multi-type")
}

func TestSnapshotValidator_Coverage(t *testing.T) {
	v := NewSnapshotValidator()
	data := testhelpers.BuildBerryFarmTestData()
	data.Lines = append(data.Lines, entities.ProductionLine{ID: "L3", Name: "Line 3", SiteID: "main"})
	data.MasterChangeovers = data.MasterChangeovers[1:] // drop 125g -> 250g

	report := v.Coverage(data)

	assert.False(t, report.Complete())
	assert.Equal(t, []ProductLine{
		{ProductID: testhelpers.BlueberryProduct, LineID: "L3"},
		{ProductID: testhelpers.MixedBerryProduct, LineID: "L3"},
		{ProductID: testhelpers.StrawberryProduct, LineID: "L3"},
	}, report.MissingRates)
	assert.Equal(t, []SizePair{{From: "125g", To: "250g"}}, report.MissingChangeovers)
}

func TestSnapshotValidator_Nil(t *testing.T) {
	assert.Error(t, NewSnapshotValidator().Validate(nil))
}
