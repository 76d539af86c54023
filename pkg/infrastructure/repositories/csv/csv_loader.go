package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/lineplan/pkg/domain/entities"
)

// Scenario file names, relative to the scenario directory
const (
	PunnetSizesFile         = "punnet_sizes.csv"
	CustomersFile           = "customers.csv"
	SitesFile               = "sites.csv"
	LinesFile               = "lines.csv"
	FruitVariantsFile       = "fruit_variants.csv"
	ProductsFile            = "products.csv"
	ProductVarietiesFile    = "product_varieties.csv"
	MasterRunRatesFile      = "master_run_rates.csv"
	SpecificRunRatesFile    = "specific_run_rates.csv"
	MasterChangeoversFile   = "master_changeovers.csv"
	SpecificChangeoversFile = "specific_changeovers.csv"
	OrdersFile              = "orders.csv"
	ScheduleFile            = "schedule.csv"
)

// Loader handles loading a planning scenario from a directory of CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// table describes one CSV file of a scenario
type table struct {
	file     string
	header   []string
	required bool
}

var (
	punnetSizesTable         = table{PunnetSizesFile, []string{"id", "name", "size_grams"}, true}
	customersTable           = table{CustomersFile, []string{"id", "name"}, false}
	sitesTable               = table{SitesFile, []string{"id", "name"}, false}
	linesTable               = table{LinesFile, []string{"id", "name", "site_id"}, true}
	fruitVariantsTable       = table{FruitVariantsFile, []string{"fruit_id", "fruit_name", "variant_id", "variant_name"}, false}
	productsTable            = table{ProductsFile, []string{"id", "name", "customer_id", "punnet_size_id", "multi_type"}, true}
	productVarietiesTable    = table{ProductVarietiesFile, []string{"product_id", "fruit_variant_id", "preferred"}, false}
	masterRunRatesTable      = table{MasterRunRatesFile, []string{"punnet_size_id", "line_id", "packs_per_minute"}, true}
	specificRunRatesTable    = table{SpecificRunRatesFile, []string{"product_id", "line_id", "packs_per_minute"}, false}
	masterChangeoversTable   = table{MasterChangeoversFile, []string{"from_punnet_size_id", "to_punnet_size_id", "minutes"}, true}
	specificChangeoversTable = table{SpecificChangeoversFile, []string{"from_product_id", "to_product_id", "minutes"}, false}
	ordersTable              = table{OrdersFile, []string{"id", "customer_id", "product_id", "quantity_packs", "due_at", "status"}, true}
	scheduleTable            = table{ScheduleFile, []string{"id", "order_id", "product_id", "line_id", "start_at", "end_at", "setup_minutes", "run_minutes", "kind"}, false}
)

// LoadScenario reads every table of the scenario in dir into one snapshot.
// Optional tables that are absent load as empty.
func (l *Loader) LoadScenario(dir string) (*entities.ReferenceData, error) {
	data := &entities.ReferenceData{}
	var err error

	if data.PunnetSizes, err = loadRows(dir, punnetSizesTable, parsePunnetSize); err != nil {
		return nil, err
	}
	if data.Customers, err = loadRows(dir, customersTable, parseCustomer); err != nil {
		return nil, err
	}
	if data.Sites, err = loadRows(dir, sitesTable, parseSite); err != nil {
		return nil, err
	}
	if data.Lines, err = loadRows(dir, linesTable, parseLine); err != nil {
		return nil, err
	}
	if data.Fruits, err = l.loadFruits(dir); err != nil {
		return nil, err
	}
	if data.Products, err = l.loadProducts(dir); err != nil {
		return nil, err
	}
	if data.MasterRunRates, err = loadRows(dir, masterRunRatesTable, parseMasterRunRate); err != nil {
		return nil, err
	}
	if data.SpecificRunRates, err = loadRows(dir, specificRunRatesTable, parseSpecificRunRate); err != nil {
		return nil, err
	}
	if data.MasterChangeovers, err = loadRows(dir, masterChangeoversTable, parseMasterChangeover); err != nil {
		return nil, err
	}
	if data.SpecificChangeovers, err = loadRows(dir, specificChangeoversTable, parseSpecificChangeover); err != nil {
		return nil, err
	}
	if data.Orders, err = loadRows(dir, ordersTable, parseOrder); err != nil {
		return nil, err
	}
	if data.Schedule, err = loadRows(dir, scheduleTable, parseScheduleItem); err != nil {
		return nil, err
	}

	return data, nil
}

// LoadSchedule reads only the existing schedule file, e.g. to overlay it on another snapshot
func (l *Loader) LoadSchedule(filename string) ([]entities.ScheduleItem, error) {
	records, err := readRecords(filename, scheduleTable)
	if err != nil {
		return nil, err
	}
	return parseRecords(records, scheduleTable, parseScheduleItem)
}

// loadFruits groups fruit variant rows by fruit, keeping first-seen order
func (l *Loader) loadFruits(dir string) ([]entities.Fruit, error) {
	type row struct {
		fruit   entities.Fruit
		variant entities.FruitVariant
	}
	rows, err := loadRows(dir, fruitVariantsTable, func(record []string) (row, error) {
		fruitID := entities.FruitID(record[0])
		return row{
			fruit:   entities.Fruit{ID: fruitID, Name: record[1]},
			variant: entities.FruitVariant{ID: entities.FruitVariantID(record[2]), Name: record[3], FruitID: fruitID},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	var fruits []entities.Fruit
	index := make(map[entities.FruitID]int)
	for _, r := range rows {
		i, ok := index[r.fruit.ID]
		if !ok {
			i = len(fruits)
			index[r.fruit.ID] = i
			fruits = append(fruits, r.fruit)
		}
		fruits[i].Variants = append(fruits[i].Variants, r.variant)
	}
	return fruits, nil
}

// loadProducts reads products and attaches their varieties
func (l *Loader) loadProducts(dir string) ([]entities.Product, error) {
	products, err := loadRows(dir, productsTable, parseProduct)
	if err != nil {
		return nil, err
	}

	type row struct {
		productID entities.ProductID
		variety   entities.ProductVariety
	}
	varieties, err := loadRows(dir, productVarietiesTable, func(record []string) (row, error) {
		preferred, err := parseBool(record[2])
		if err != nil {
			return row{}, fmt.Errorf("invalid preferred: %w", err)
		}
		return row{
			productID: entities.ProductID(record[0]),
			variety:   entities.ProductVariety{FruitVariantID: entities.FruitVariantID(record[1]), Preferred: preferred},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	index := make(map[entities.ProductID]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}
	for _, v := range varieties {
		i, ok := index[v.productID]
		if !ok {
			return nil, fmt.Errorf("%s: variety for unknown product %s", ProductVarietiesFile, v.productID)
		}
		products[i].Varieties = append(products[i].Varieties, v.variety)
	}
	return products, nil
}

func loadRows[T any](dir string, t table, parse func([]string) (T, error)) ([]T, error) {
	records, err := readRecords(filepath.Join(dir, t.file), t)
	if err != nil {
		if !t.required && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return parseRecords(records, t, parse)
}

func readRecords(filename string, t table) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.file, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s must have a header row", t.file)
	}
	if !validateHeader(records[0], t.header) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", t.file, t.header, records[0])
	}
	return records[1:], nil
}

func parseRecords[T any](records [][]string, t table, parse func([]string) (T, error)) ([]T, error) {
	rows := make([]T, 0, len(records))
	for i, record := range records {
		if len(record) != len(t.header) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", t.file, i+2, len(t.header), len(record))
		}
		for j := range record {
			record[j] = strings.TrimSpace(record[j])
		}

		row, err := parse(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", t.file, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parsePunnetSize(record []string) (entities.PunnetSize, error) {
	grams, err := strconv.Atoi(record[2])
	if err != nil {
		return entities.PunnetSize{}, fmt.Errorf("invalid size_grams: %s", record[2])
	}
	size, err := entities.NewPunnetSize(entities.PunnetSizeID(record[0]), record[1], grams)
	if err != nil {
		return entities.PunnetSize{}, err
	}
	return *size, nil
}

func parseCustomer(record []string) (entities.Customer, error) {
	return entities.Customer{ID: entities.CustomerID(record[0]), Name: record[1]}, nil
}

func parseSite(record []string) (entities.Site, error) {
	return entities.Site{ID: entities.SiteID(record[0]), Name: record[1]}, nil
}

func parseLine(record []string) (entities.ProductionLine, error) {
	if record[0] == "" {
		return entities.ProductionLine{}, fmt.Errorf("line id cannot be empty")
	}
	return entities.ProductionLine{ID: entities.LineID(record[0]), Name: record[1], SiteID: entities.SiteID(record[2])}, nil
}

func parseProduct(record []string) (entities.Product, error) {
	multiType, err := parseBool(record[4])
	if err != nil {
		return entities.Product{}, fmt.Errorf("invalid multi_type: %w", err)
	}
	return entities.Product{
		ID:           entities.ProductID(record[0]),
		Name:         record[1],
		CustomerID:   entities.CustomerID(record[2]),
		PunnetSizeID: entities.PunnetSizeID(record[3]),
		MultiType:    multiType,
	}, nil
}

func parseMasterRunRate(record []string) (entities.MasterRunRate, error) {
	ppm, err := decimal.NewFromString(record[2])
	if err != nil {
		return entities.MasterRunRate{}, fmt.Errorf("invalid packs_per_minute: %s", record[2])
	}
	rate, err := entities.NewMasterRunRate(entities.PunnetSizeID(record[0]), entities.LineID(record[1]), ppm)
	if err != nil {
		return entities.MasterRunRate{}, err
	}
	return *rate, nil
}

func parseSpecificRunRate(record []string) (entities.SpecificRunRate, error) {
	ppm, err := decimal.NewFromString(record[2])
	if err != nil {
		return entities.SpecificRunRate{}, fmt.Errorf("invalid packs_per_minute: %s", record[2])
	}
	rate, err := entities.NewSpecificRunRate(entities.ProductID(record[0]), entities.LineID(record[1]), ppm)
	if err != nil {
		return entities.SpecificRunRate{}, err
	}
	return *rate, nil
}

func parseMasterChangeover(record []string) (entities.MasterChangeover, error) {
	minutes, err := parseMinutes(record[2])
	if err != nil {
		return entities.MasterChangeover{}, err
	}
	c, err := entities.NewMasterChangeover(entities.PunnetSizeID(record[0]), entities.PunnetSizeID(record[1]), minutes)
	if err != nil {
		return entities.MasterChangeover{}, err
	}
	return *c, nil
}

func parseSpecificChangeover(record []string) (entities.SpecificChangeover, error) {
	minutes, err := parseMinutes(record[2])
	if err != nil {
		return entities.SpecificChangeover{}, err
	}
	c, err := entities.NewSpecificChangeover(entities.ProductID(record[0]), entities.ProductID(record[1]), minutes)
	if err != nil {
		return entities.SpecificChangeover{}, err
	}
	return *c, nil
}

func parseOrder(record []string) (entities.Order, error) {
	quantity, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return entities.Order{}, fmt.Errorf("invalid quantity_packs: %s", record[3])
	}
	dueAt, err := parseTime(record[4])
	if err != nil {
		return entities.Order{}, fmt.Errorf("invalid due_at: %w", err)
	}
	status, err := entities.ParseOrderStatus(record[5])
	if err != nil {
		return entities.Order{}, err
	}

	order, err := entities.NewOrder(
		entities.OrderID(record[0]),
		entities.CustomerID(record[1]),
		entities.ProductID(record[2]),
		entities.Packs(quantity),
		dueAt,
		status,
	)
	if err != nil {
		return entities.Order{}, err
	}
	return *order, nil
}

func parseScheduleItem(record []string) (entities.ScheduleItem, error) {
	startAt, err := parseTime(record[4])
	if err != nil {
		return entities.ScheduleItem{}, fmt.Errorf("invalid start_at: %w", err)
	}
	endAt, err := parseTime(record[5])
	if err != nil {
		return entities.ScheduleItem{}, fmt.Errorf("invalid end_at: %w", err)
	}
	setup, err := parseMinutes(record[6])
	if err != nil {
		return entities.ScheduleItem{}, err
	}
	run, err := parseMinutes(record[7])
	if err != nil {
		return entities.ScheduleItem{}, err
	}
	kind, err := entities.ParseItemKind(record[8])
	if err != nil {
		return entities.ScheduleItem{}, err
	}

	item, err := entities.NewScheduleItem(
		entities.ScheduleItemID(record[0]),
		entities.OrderID(record[1]),
		entities.ProductID(record[2]),
		entities.LineID(record[3]),
		startAt, endAt, setup, run, kind,
	)
	if err != nil {
		return entities.ScheduleItem{}, err
	}
	return *item, nil
}

func parseMinutes(s string) (entities.Minutes, error) {
	minutes, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %s", s)
	}
	return entities.Minutes(minutes), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "false", "no", "0":
		return false, nil
	case "true", "yes", "1":
		return true, nil
	default:
		return false, fmt.Errorf("expected true or false, got %s", s)
	}
}

// parseTime accepts RFC 3339 timestamps or bare YYYY-MM-DD dates, both in UTC
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s (expected RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}
