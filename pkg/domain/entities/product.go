package entities

import "fmt"

// ProductVariety links a product to a fruit variant it may contain
type ProductVariety struct {
	FruitVariantID FruitVariantID
	Preferred      bool
}

// Product is a customer-specific punnet product
type Product struct {
	ID           ProductID
	Name         string
	CustomerID   CustomerID
	PunnetSizeID PunnetSizeID
	// MultiType marks a mixed punnet that may have several preferred varieties
	MultiType bool
	Varieties []ProductVariety
}

// NewProduct creates a validated Product
func NewProduct(
	id ProductID,
	name string,
	customerID CustomerID,
	punnetSizeID PunnetSizeID,
	multiType bool,
	varieties []ProductVariety,
) (*Product, error) {
	p := &Product{
		ID:           id,
		Name:         name,
		CustomerID:   customerID,
		PunnetSizeID: punnetSizeID,
		MultiType:    multiType,
		Varieties:    varieties,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product's own invariants
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id cannot be empty")
	}
	if p.PunnetSizeID == "" {
		return fmt.Errorf("product %s has no punnet size", p.ID)
	}
	if !p.MultiType {
		if n := len(p.PreferredVarieties()); n > 1 {
			return fmt.Errorf("product %s is not multi-type but has %d preferred varieties", p.ID, n)
		}
	}
	return nil
}

// PreferredVarieties returns the varieties that make up the default composition
func (p *Product) PreferredVarieties() []ProductVariety {
	var preferred []ProductVariety
	for _, v := range p.Varieties {
		if v.Preferred {
			preferred = append(preferred, v)
		}
	}
	return preferred
}
