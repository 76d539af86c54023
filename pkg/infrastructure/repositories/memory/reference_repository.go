package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/repositories"
)

// ReferenceRepository provides in-memory reference and rate table storage.
// It is loaded once and read-only afterwards, so lookups take no locks.
type ReferenceRepository struct {
	punnetSizes map[entities.PunnetSizeID]*entities.PunnetSize
	customers   map[entities.CustomerID]*entities.Customer
	lines       []entities.ProductionLine
	linesMap    map[entities.LineID]int
	products    []entities.Product
	productsMap map[entities.ProductID]int

	masterRates         map[entities.MasterRateKey]*entities.MasterRunRate
	specificRates       map[entities.SpecificRateKey]*entities.SpecificRunRate
	masterChangeovers   map[entities.MasterChangeoverKey]*entities.MasterChangeover
	specificChangeovers map[entities.SpecificChangeoverKey]*entities.SpecificChangeover
}

// NewReferenceRepository creates an empty in-memory reference repository
func NewReferenceRepository() *ReferenceRepository {
	return &ReferenceRepository{
		punnetSizes:         make(map[entities.PunnetSizeID]*entities.PunnetSize),
		customers:           make(map[entities.CustomerID]*entities.Customer),
		linesMap:            make(map[entities.LineID]int),
		productsMap:         make(map[entities.ProductID]int),
		masterRates:         make(map[entities.MasterRateKey]*entities.MasterRunRate),
		specificRates:       make(map[entities.SpecificRateKey]*entities.SpecificRunRate),
		masterChangeovers:   make(map[entities.MasterChangeoverKey]*entities.MasterChangeover),
		specificChangeovers: make(map[entities.SpecificChangeoverKey]*entities.SpecificChangeover),
	}
}

// Verify interface compliance
var _ repositories.ReferenceRepository = (*ReferenceRepository)(nil)
var _ repositories.RateRepository = (*ReferenceRepository)(nil)

// LoadReferenceData loads every reference table from a snapshot.
// Orders and the existing schedule are not reference data and are ignored here.
func (r *ReferenceRepository) LoadReferenceData(data *entities.ReferenceData) error {
	for i := range data.PunnetSizes {
		if err := r.AddPunnetSize(data.PunnetSizes[i]); err != nil {
			return err
		}
	}
	for i := range data.Customers {
		if err := r.AddCustomer(data.Customers[i]); err != nil {
			return err
		}
	}
	for i := range data.Lines {
		if err := r.AddLine(data.Lines[i]); err != nil {
			return err
		}
	}
	for i := range data.Products {
		if err := r.AddProduct(data.Products[i]); err != nil {
			return err
		}
	}
	for _, rate := range data.MasterRunRates {
		if err := r.AddMasterRunRate(rate); err != nil {
			return err
		}
	}
	for _, rate := range data.SpecificRunRates {
		if err := r.AddSpecificRunRate(rate); err != nil {
			return err
		}
	}
	for _, c := range data.MasterChangeovers {
		if err := r.AddMasterChangeover(c); err != nil {
			return err
		}
	}
	for _, c := range data.SpecificChangeovers {
		if err := r.AddSpecificChangeover(c); err != nil {
			return err
		}
	}
	return nil
}

// AddPunnetSize adds a punnet size to the repository
func (r *ReferenceRepository) AddPunnetSize(size entities.PunnetSize) error {
	if _, exists := r.punnetSizes[size.ID]; exists {
		return fmt.Errorf("%w: punnet size %s", entities.ErrDuplicateKey, size.ID)
	}
	r.punnetSizes[size.ID] = &size
	return nil
}

// AddCustomer adds a customer to the repository
func (r *ReferenceRepository) AddCustomer(customer entities.Customer) error {
	if _, exists := r.customers[customer.ID]; exists {
		return fmt.Errorf("%w: customer %s", entities.ErrDuplicateKey, customer.ID)
	}
	r.customers[customer.ID] = &customer
	return nil
}

// AddLine adds a production line to the repository
func (r *ReferenceRepository) AddLine(line entities.ProductionLine) error {
	if _, exists := r.linesMap[line.ID]; exists {
		return fmt.Errorf("%w: line %s", entities.ErrDuplicateKey, line.ID)
	}
	r.linesMap[line.ID] = len(r.lines)
	r.lines = append(r.lines, line)
	return nil
}

// AddProduct adds a product to the repository
func (r *ReferenceRepository) AddProduct(product entities.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if _, exists := r.productsMap[product.ID]; exists {
		return fmt.Errorf("%w: product %s", entities.ErrDuplicateKey, product.ID)
	}
	r.productsMap[product.ID] = len(r.products)
	r.products = append(r.products, product)
	return nil
}

// AddMasterRunRate adds a master run rate; at most one row per (punnet size, line).
// Rows with a non-positive rate are rejected.
func (r *ReferenceRepository) AddMasterRunRate(rate entities.MasterRunRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	key := rate.Key()
	if _, exists := r.masterRates[key]; exists {
		return fmt.Errorf("%w: master run rate %s/%s", entities.ErrDuplicateKey, key.PunnetSizeID, key.LineID)
	}
	r.masterRates[key] = &rate
	return nil
}

// AddSpecificRunRate adds a specific run rate; at most one row per (product, line)
func (r *ReferenceRepository) AddSpecificRunRate(rate entities.SpecificRunRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	key := rate.Key()
	if _, exists := r.specificRates[key]; exists {
		return fmt.Errorf("%w: specific run rate %s/%s", entities.ErrDuplicateKey, key.ProductID, key.LineID)
	}
	r.specificRates[key] = &rate
	return nil
}

// AddMasterChangeover adds a directed master changeover
func (r *ReferenceRepository) AddMasterChangeover(c entities.MasterChangeover) error {
	if err := c.Validate(); err != nil {
		return err
	}
	key := c.Key()
	if _, exists := r.masterChangeovers[key]; exists {
		return fmt.Errorf("%w: master changeover %s->%s", entities.ErrDuplicateKey, key.From, key.To)
	}
	r.masterChangeovers[key] = &c
	return nil
}

// AddSpecificChangeover adds a directed specific changeover
func (r *ReferenceRepository) AddSpecificChangeover(c entities.SpecificChangeover) error {
	if err := c.Validate(); err != nil {
		return err
	}
	key := c.Key()
	if _, exists := r.specificChangeovers[key]; exists {
		return fmt.Errorf("%w: specific changeover %s->%s", entities.ErrDuplicateKey, key.From, key.To)
	}
	r.specificChangeovers[key] = &c
	return nil
}

// GetProduct returns a product by id
func (r *ReferenceRepository) GetProduct(id entities.ProductID) (*entities.Product, error) {
	index, exists := r.productsMap[id]
	if !exists {
		return nil, fmt.Errorf("product %s: %w", id, entities.ErrNotFound)
	}
	return &r.products[index], nil
}

// GetLine returns a production line by id
func (r *ReferenceRepository) GetLine(id entities.LineID) (*entities.ProductionLine, error) {
	index, exists := r.linesMap[id]
	if !exists {
		return nil, fmt.Errorf("line %s: %w", id, entities.ErrNotFound)
	}
	return &r.lines[index], nil
}

// GetPunnetSize returns a punnet size by id
func (r *ReferenceRepository) GetPunnetSize(id entities.PunnetSizeID) (*entities.PunnetSize, error) {
	size, exists := r.punnetSizes[id]
	if !exists {
		return nil, fmt.Errorf("punnet size %s: %w", id, entities.ErrNotFound)
	}
	return size, nil
}

// GetCustomer returns a customer by id
func (r *ReferenceRepository) GetCustomer(id entities.CustomerID) (*entities.Customer, error) {
	customer, exists := r.customers[id]
	if !exists {
		return nil, fmt.Errorf("customer %s: %w", id, entities.ErrNotFound)
	}
	return customer, nil
}

// GetAllProducts returns all products in load order
func (r *ReferenceRepository) GetAllProducts() ([]*entities.Product, error) {
	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		products = append(products, &r.products[i])
	}
	return products, nil
}

// GetAllLines returns all lines sorted by id
func (r *ReferenceRepository) GetAllLines() ([]*entities.ProductionLine, error) {
	lines := make([]*entities.ProductionLine, 0, len(r.lines))
	for i := range r.lines {
		lines = append(lines, &r.lines[i])
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

// SpecificRunRate looks up the product/line override
func (r *ReferenceRepository) SpecificRunRate(productID entities.ProductID, lineID entities.LineID) (*entities.SpecificRunRate, bool) {
	rate, ok := r.specificRates[entities.SpecificRateKey{ProductID: productID, LineID: lineID}]
	return rate, ok
}

// MasterRunRate looks up the punnet size/line default
func (r *ReferenceRepository) MasterRunRate(punnetSizeID entities.PunnetSizeID, lineID entities.LineID) (*entities.MasterRunRate, bool) {
	rate, ok := r.masterRates[entities.MasterRateKey{PunnetSizeID: punnetSizeID, LineID: lineID}]
	return rate, ok
}

// SpecificChangeover looks up the directed product pair override
func (r *ReferenceRepository) SpecificChangeover(from, to entities.ProductID) (*entities.SpecificChangeover, bool) {
	c, ok := r.specificChangeovers[entities.SpecificChangeoverKey{From: from, To: to}]
	return c, ok
}

// MasterChangeover looks up the directed punnet size pair default
func (r *ReferenceRepository) MasterChangeover(from, to entities.PunnetSizeID) (*entities.MasterChangeover, bool) {
	c, ok := r.masterChangeovers[entities.MasterChangeoverKey{From: from, To: to}]
	return c, ok
}
