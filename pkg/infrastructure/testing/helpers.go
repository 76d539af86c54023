package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/infrastructure/repositories/memory"
)

// ReferenceTime is the planning "now" used throughout the berry farm scenario
var ReferenceTime = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

// Product ids in the berry farm scenario
const (
	StrawberryProduct     entities.ProductID  = "strawberry-250"
	MixedBerryProduct     entities.ProductID  = "mixed-berry-500"
	BlueberryProduct      entities.ProductID  = "blueberry-125"
	PremiumLine           entities.LineID     = "L1"
	StandardLine          entities.LineID     = "L2"
	PremiumFruitsCustomer entities.CustomerID = "premium-fruits"
)

// BuildBerryFarmTestData builds the seeded berry farm scenario: three punnet sizes,
// two lines, a mixed-berry rate override on the premium line and two product changeover overrides.
func BuildBerryFarmTestData() *entities.ReferenceData {
	tomorrow := ReferenceTime.AddDate(0, 0, 1)
	dayAfter := ReferenceTime.AddDate(0, 0, 2)

	return &entities.ReferenceData{
		PunnetSizes: []entities.PunnetSize{
			{ID: "125g", Name: "125g", SizeGrams: 125},
			{ID: "250g", Name: "250g", SizeGrams: 250},
			{ID: "500g", Name: "500g", SizeGrams: 500},
		},
		Fruits: []entities.Fruit{
			{
				ID:   "strawberry",
				Name: "Strawberry",
				Variants: []entities.FruitVariant{
					{ID: "sweet-charlie", Name: "Sweet Charlie", FruitID: "strawberry"},
					{ID: "chandler", Name: "Chandler", FruitID: "strawberry"},
					{ID: "festival", Name: "Festival", FruitID: "strawberry"},
				},
			},
			{
				ID:   "blueberry",
				Name: "Blueberry",
				Variants: []entities.FruitVariant{
					{ID: "duke", Name: "Duke", FruitID: "blueberry"},
					{ID: "bluecrop", Name: "Bluecrop", FruitID: "blueberry"},
					{ID: "jersey", Name: "Jersey", FruitID: "blueberry"},
				},
			},
		},
		Customers: []entities.Customer{
			{ID: PremiumFruitsCustomer, Name: "Premium Fruits Ltd"},
		},
		Sites: []entities.Site{
			{ID: "main", Name: "Main Processing Facility"},
		},
		Lines: []entities.ProductionLine{
			{ID: PremiumLine, Name: "Line 1 - Premium", SiteID: "main"},
			{ID: StandardLine, Name: "Line 2 - Standard", SiteID: "main"},
		},
		Products: []entities.Product{
			{
				ID:           StrawberryProduct,
				Name:         "Premium Strawberries 250g",
				CustomerID:   PremiumFruitsCustomer,
				PunnetSizeID: "250g",
				Varieties:    []entities.ProductVariety{{FruitVariantID: "sweet-charlie", Preferred: true}},
			},
			{
				ID:           MixedBerryProduct,
				Name:         "Mixed Berry Punnet 500g",
				CustomerID:   PremiumFruitsCustomer,
				PunnetSizeID: "500g",
				MultiType:    true,
				Varieties: []entities.ProductVariety{
					{FruitVariantID: "chandler", Preferred: true},
					{FruitVariantID: "duke", Preferred: true},
				},
			},
			{
				ID:           BlueberryProduct,
				Name:         "Blueberry Select 125g",
				CustomerID:   PremiumFruitsCustomer,
				PunnetSizeID: "125g",
				Varieties:    []entities.ProductVariety{{FruitVariantID: "bluecrop", Preferred: true}},
			},
		},
		MasterRunRates: []entities.MasterRunRate{
			{PunnetSizeID: "125g", LineID: PremiumLine, PacksPerMinute: decimal.NewFromInt(180)},
			{PunnetSizeID: "250g", LineID: PremiumLine, PacksPerMinute: decimal.NewFromInt(150)},
			{PunnetSizeID: "500g", LineID: PremiumLine, PacksPerMinute: decimal.NewFromInt(120)},
			{PunnetSizeID: "125g", LineID: StandardLine, PacksPerMinute: decimal.NewFromInt(160)},
			{PunnetSizeID: "250g", LineID: StandardLine, PacksPerMinute: decimal.NewFromInt(130)},
			{PunnetSizeID: "500g", LineID: StandardLine, PacksPerMinute: decimal.NewFromInt(100)},
		},
		SpecificRunRates: []entities.SpecificRunRate{
			// mixed berry packs slower on the premium line
			{ProductID: MixedBerryProduct, LineID: PremiumLine, PacksPerMinute: decimal.NewFromInt(90)},
		},
		MasterChangeovers: []entities.MasterChangeover{
			{FromPunnetSizeID: "125g", ToPunnetSizeID: "250g", Minutes: 15},
			{FromPunnetSizeID: "250g", ToPunnetSizeID: "500g", Minutes: 20},
			{FromPunnetSizeID: "500g", ToPunnetSizeID: "125g", Minutes: 25},
			{FromPunnetSizeID: "250g", ToPunnetSizeID: "125g", Minutes: 10},
			{FromPunnetSizeID: "500g", ToPunnetSizeID: "250g", Minutes: 15},
			{FromPunnetSizeID: "125g", ToPunnetSizeID: "500g", Minutes: 30},
		},
		SpecificChangeovers: []entities.SpecificChangeover{
			{FromProductID: StrawberryProduct, ToProductID: MixedBerryProduct, Minutes: 45},
			{FromProductID: MixedBerryProduct, ToProductID: BlueberryProduct, Minutes: 35},
		},
		Orders: []entities.Order{
			{ID: "O1", CustomerID: PremiumFruitsCustomer, ProductID: StrawberryProduct, QuantityPacks: 1000, DueAt: tomorrow, Status: entities.Pending},
			{ID: "O2", CustomerID: PremiumFruitsCustomer, ProductID: MixedBerryProduct, QuantityPacks: 500, DueAt: tomorrow, Status: entities.Pending},
			{ID: "O3", CustomerID: PremiumFruitsCustomer, ProductID: BlueberryProduct, QuantityPacks: 1500, DueAt: dayAfter, Status: entities.Pending},
		},
	}
}

// BuildBerryFarmRepositories loads the berry farm scenario into in-memory repositories
func BuildBerryFarmRepositories() (*memory.ReferenceRepository, *memory.OrderRepository) {
	data := BuildBerryFarmTestData()

	refRepo := memory.NewReferenceRepository()
	if err := refRepo.LoadReferenceData(data); err != nil {
		panic(err)
	}

	orderRepo := memory.NewOrderRepository(len(data.Orders))
	if err := orderRepo.LoadOrders(data.Orders); err != nil {
		panic(err)
	}

	return refRepo, orderRepo
}
