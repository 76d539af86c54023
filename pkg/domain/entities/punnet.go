package entities

import "fmt"

// PunnetSize represents a standard punnet container size
type PunnetSize struct {
	ID        PunnetSizeID
	Name      string
	SizeGrams int
}

// NewPunnetSize creates a validated PunnetSize
func NewPunnetSize(id PunnetSizeID, name string, sizeGrams int) (*PunnetSize, error) {
	if id == "" {
		return nil, fmt.Errorf("punnet size id cannot be empty")
	}
	if sizeGrams <= 0 {
		return nil, fmt.Errorf("punnet size grams must be positive, got %d", sizeGrams)
	}
	return &PunnetSize{ID: id, Name: name, SizeGrams: sizeGrams}, nil
}

// Fruit owns a set of variants
type Fruit struct {
	ID       FruitID
	Name     string
	Variants []FruitVariant
}

// FruitVariant belongs to exactly one fruit
type FruitVariant struct {
	ID      FruitVariantID
	Name    string
	FruitID FruitID
}

// Variant returns the variant with the given id
func (f *Fruit) Variant(id FruitVariantID) (*FruitVariant, bool) {
	for i := range f.Variants {
		if f.Variants[i].ID == id {
			return &f.Variants[i], true
		}
	}
	return nil, false
}

// Customer places orders for products
type Customer struct {
	ID   CustomerID
	Name string
}

// Site groups production lines
type Site struct {
	ID   SiteID
	Name string
}

// ProductionLine is a packing line at a site
type ProductionLine struct {
	ID     LineID
	Name   string
	SiteID SiteID
}
