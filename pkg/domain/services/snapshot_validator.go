package services

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/domain/entities"
)

// SnapshotValidator checks a reference data snapshot for integrity problems
// before it is loaded into repositories
type SnapshotValidator struct{}

// NewSnapshotValidator creates a new snapshot validator
func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{}
}

// Validate reports every problem in data as one combined error, or nil.
// Use multierr.Errors to get the individual problems back.
func (v *SnapshotValidator) Validate(data *entities.ReferenceData) error {
	if data == nil {
		return fmt.Errorf("reference data cannot be nil")
	}

	idx := newSnapshotIndex(data)
	var errs error
	errs = multierr.Append(errs, idx.errs)
	errs = multierr.Append(errs, v.validateProducts(data, idx))
	errs = multierr.Append(errs, v.validateRates(data, idx))
	errs = multierr.Append(errs, v.validateChangeovers(data, idx))
	errs = multierr.Append(errs, v.validateOrders(data, idx))
	errs = multierr.Append(errs, v.validateSchedule(data, idx))
	return errs
}

// snapshotIndex holds the id sets every reference check needs
type snapshotIndex struct {
	sizes     map[entities.PunnetSizeID]bool
	customers map[entities.CustomerID]bool
	sites     map[entities.SiteID]bool
	lines     map[entities.LineID]bool
	variants  map[entities.FruitVariantID]bool
	products  map[entities.ProductID]*entities.Product
	orders    map[entities.OrderID]bool
	errs      error
}

func newSnapshotIndex(data *entities.ReferenceData) *snapshotIndex {
	idx := &snapshotIndex{
		sizes:     make(map[entities.PunnetSizeID]bool),
		customers: make(map[entities.CustomerID]bool),
		sites:     make(map[entities.SiteID]bool),
		lines:     make(map[entities.LineID]bool),
		variants:  make(map[entities.FruitVariantID]bool),
		products:  make(map[entities.ProductID]*entities.Product),
		orders:    make(map[entities.OrderID]bool),
	}

	dup := func(kind string, id interface{}) {
		idx.errs = multierr.Append(idx.errs, fmt.Errorf("%w: %s %v", entities.ErrDuplicateKey, kind, id))
	}

	for _, s := range data.PunnetSizes {
		if idx.sizes[s.ID] {
			dup("punnet size", s.ID)
		}
		idx.sizes[s.ID] = true
	}
	for _, c := range data.Customers {
		if idx.customers[c.ID] {
			dup("customer", c.ID)
		}
		idx.customers[c.ID] = true
	}
	for _, s := range data.Sites {
		if idx.sites[s.ID] {
			dup("site", s.ID)
		}
		idx.sites[s.ID] = true
	}
	for _, l := range data.Lines {
		if idx.lines[l.ID] {
			dup("line", l.ID)
		}
		idx.lines[l.ID] = true
	}
	for _, f := range data.Fruits {
		for _, fv := range f.Variants {
			if idx.variants[fv.ID] {
				dup("fruit variant", fv.ID)
			}
			idx.variants[fv.ID] = true
		}
	}
	for i := range data.Products {
		p := &data.Products[i]
		if _, exists := idx.products[p.ID]; exists {
			dup("product", p.ID)
		}
		idx.products[p.ID] = p
	}
	for _, o := range data.Orders {
		if idx.orders[o.ID] {
			dup("order", o.ID)
		}
		idx.orders[o.ID] = true
	}
	return idx
}

func (v *SnapshotValidator) validateProducts(data *entities.ReferenceData, idx *snapshotIndex) error {
	var errs error
	if len(idx.sites) > 0 {
		for _, l := range data.Lines {
			if !idx.sites[l.SiteID] {
				errs = multierr.Append(errs, fmt.Errorf("line %s references unknown site %s", l.ID, l.SiteID))
			}
		}
	}
	for i := range data.Products {
		p := &data.Products[i]
		if err := p.Validate(); err != nil {
			errs = multierr.Append(errs, err)
		}
		if !idx.sizes[p.PunnetSizeID] {
			errs = multierr.Append(errs, fmt.Errorf("product %s references unknown punnet size %s", p.ID, p.PunnetSizeID))
		}
		if !idx.customers[p.CustomerID] {
			errs = multierr.Append(errs, fmt.Errorf("product %s references unknown customer %s", p.ID, p.CustomerID))
		}
		for _, variety := range p.Varieties {
			if !idx.variants[variety.FruitVariantID] {
				errs = multierr.Append(errs, fmt.Errorf("product %s references unknown fruit variant %s", p.ID, variety.FruitVariantID))
			}
		}
	}
	return errs
}

func (v *SnapshotValidator) validateRates(data *entities.ReferenceData, idx *snapshotIndex) error {
	var errs error

	masters := make(map[entities.MasterRateKey]bool)
	for _, r := range data.MasterRunRates {
		if masters[r.Key()] {
			errs = multierr.Append(errs, fmt.Errorf("%w: master run rate %s/%s", entities.ErrDuplicateKey, r.PunnetSizeID, r.LineID))
		}
		masters[r.Key()] = true
		if !r.PacksPerMinute.IsPositive() {
			errs = multierr.Append(errs, fmt.Errorf("master run rate %s/%s must be positive, got %s", r.PunnetSizeID, r.LineID, r.PacksPerMinute))
		}
		if !idx.sizes[r.PunnetSizeID] {
			errs = multierr.Append(errs, fmt.Errorf("master run rate references unknown punnet size %s", r.PunnetSizeID))
		}
		if !idx.lines[r.LineID] {
			errs = multierr.Append(errs, fmt.Errorf("master run rate references unknown line %s", r.LineID))
		}
	}

	specifics := make(map[entities.SpecificRateKey]bool)
	for _, r := range data.SpecificRunRates {
		if specifics[r.Key()] {
			errs = multierr.Append(errs, fmt.Errorf("%w: specific run rate %s/%s", entities.ErrDuplicateKey, r.ProductID, r.LineID))
		}
		specifics[r.Key()] = true
		if !r.PacksPerMinute.IsPositive() {
			errs = multierr.Append(errs, fmt.Errorf("specific run rate %s/%s must be positive, got %s", r.ProductID, r.LineID, r.PacksPerMinute))
		}
		if _, ok := idx.products[r.ProductID]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("specific run rate references unknown product %s", r.ProductID))
		}
		if !idx.lines[r.LineID] {
			errs = multierr.Append(errs, fmt.Errorf("specific run rate references unknown line %s", r.LineID))
		}
	}
	return errs
}

func (v *SnapshotValidator) validateChangeovers(data *entities.ReferenceData, idx *snapshotIndex) error {
	var errs error

	masters := make(map[entities.MasterChangeoverKey]bool)
	for _, c := range data.MasterChangeovers {
		if masters[c.Key()] {
			errs = multierr.Append(errs, fmt.Errorf("%w: master changeover %s->%s", entities.ErrDuplicateKey, c.FromPunnetSizeID, c.ToPunnetSizeID))
		}
		masters[c.Key()] = true
		if c.Minutes < 0 {
			errs = multierr.Append(errs, fmt.Errorf("master changeover %s->%s has negative minutes %d", c.FromPunnetSizeID, c.ToPunnetSizeID, c.Minutes))
		}
		for _, size := range []entities.PunnetSizeID{c.FromPunnetSizeID, c.ToPunnetSizeID} {
			if !idx.sizes[size] {
				errs = multierr.Append(errs, fmt.Errorf("master changeover references unknown punnet size %s", size))
			}
		}
	}

	specifics := make(map[entities.SpecificChangeoverKey]bool)
	for _, c := range data.SpecificChangeovers {
		if specifics[c.Key()] {
			errs = multierr.Append(errs, fmt.Errorf("%w: specific changeover %s->%s", entities.ErrDuplicateKey, c.FromProductID, c.ToProductID))
		}
		specifics[c.Key()] = true
		if c.Minutes < 0 {
			errs = multierr.Append(errs, fmt.Errorf("specific changeover %s->%s has negative minutes %d", c.FromProductID, c.ToProductID, c.Minutes))
		}
		for _, product := range []entities.ProductID{c.FromProductID, c.ToProductID} {
			if _, ok := idx.products[product]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("specific changeover references unknown product %s", product))
			}
		}
	}
	return errs
}

func (v *SnapshotValidator) validateOrders(data *entities.ReferenceData, idx *snapshotIndex) error {
	var errs error
	for _, o := range data.Orders {
		if o.QuantityPacks <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("order %s quantity must be positive, got %d", o.ID, o.QuantityPacks))
		}
		if _, ok := idx.products[o.ProductID]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("order %s references unknown product %s", o.ID, o.ProductID))
		}
		if !idx.customers[o.CustomerID] {
			errs = multierr.Append(errs, fmt.Errorf("order %s references unknown customer %s", o.ID, o.CustomerID))
		}
	}
	return errs
}

func (v *SnapshotValidator) validateSchedule(data *entities.ReferenceData, idx *snapshotIndex) error {
	var errs error
	seen := make(map[entities.ScheduleItemID]bool)
	for _, item := range data.Schedule {
		if seen[item.ID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: schedule item %s", entities.ErrDuplicateKey, item.ID))
		}
		seen[item.ID] = true
		if err := item.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("schedule item %s: %w", item.ID, err))
		}
		if !idx.lines[item.LineID] {
			errs = multierr.Append(errs, fmt.Errorf("schedule item %s references unknown line %s", item.ID, item.LineID))
		}
		if _, ok := idx.products[item.ProductID]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("schedule item %s references unknown product %s", item.ID, item.ProductID))
		}
	}
	return errs
}

// ProductLine names a product on a line
type ProductLine struct {
	ProductID entities.ProductID
	LineID    entities.LineID
}

// SizePair is a directed punnet size change
type SizePair struct {
	From entities.PunnetSizeID
	To   entities.PunnetSizeID
}

// CoverageReport lists configuration gaps that would make scheduling fail
type CoverageReport struct {
	MissingRates       []ProductLine
	MissingChangeovers []SizePair
}

// Complete reports whether every product can run on every line and every size change is configured
func (r *CoverageReport) Complete() bool {
	return len(r.MissingRates) == 0 && len(r.MissingChangeovers) == 0
}

// Coverage finds (product, line) pairs without any run rate and directed punnet size
// pairs without a master changeover. Same-size pairs are skipped since they default to zero.
func (v *SnapshotValidator) Coverage(data *entities.ReferenceData) *CoverageReport {
	report := &CoverageReport{
		MissingRates:       make([]ProductLine, 0),
		MissingChangeovers: make([]SizePair, 0),
	}

	masterRates := make(map[entities.MasterRateKey]bool, len(data.MasterRunRates))
	for _, r := range data.MasterRunRates {
		masterRates[r.Key()] = true
	}
	specificRates := make(map[entities.SpecificRateKey]bool, len(data.SpecificRunRates))
	for _, r := range data.SpecificRunRates {
		specificRates[r.Key()] = true
	}

	for _, p := range data.Products {
		for _, l := range data.Lines {
			if specificRates[entities.SpecificRateKey{ProductID: p.ID, LineID: l.ID}] {
				continue
			}
			if masterRates[entities.MasterRateKey{PunnetSizeID: p.PunnetSizeID, LineID: l.ID}] {
				continue
			}
			report.MissingRates = append(report.MissingRates, ProductLine{ProductID: p.ID, LineID: l.ID})
		}
	}

	changeovers := make(map[entities.MasterChangeoverKey]bool, len(data.MasterChangeovers))
	for _, c := range data.MasterChangeovers {
		changeovers[c.Key()] = true
	}
	for _, from := range data.PunnetSizes {
		for _, to := range data.PunnetSizes {
			if from.ID == to.ID {
				continue
			}
			if !changeovers[entities.MasterChangeoverKey{From: from.ID, To: to.ID}] {
				report.MissingChangeovers = append(report.MissingChangeovers, SizePair{From: from.ID, To: to.ID})
			}
		}
	}

	sort.Slice(report.MissingRates, func(i, j int) bool {
		a, b := report.MissingRates[i], report.MissingRates[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.LineID < b.LineID
	})
	sort.Slice(report.MissingChangeovers, func(i, j int) bool {
		a, b := report.MissingChangeovers[i], report.MissingChangeovers[j]
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return report
}
