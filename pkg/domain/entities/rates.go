package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MasterRunRate is the default packs-per-minute for a punnet size on a line
type MasterRunRate struct {
	PunnetSizeID   PunnetSizeID
	LineID         LineID
	PacksPerMinute decimal.Decimal
}

// SpecificRunRate overrides the master rate for one product on one line
type SpecificRunRate struct {
	ProductID      ProductID
	LineID         LineID
	PacksPerMinute decimal.Decimal
}

// MasterChangeover is the directed setup time between two punnet sizes
type MasterChangeover struct {
	FromPunnetSizeID PunnetSizeID
	ToPunnetSizeID   PunnetSizeID
	Minutes          Minutes
}

// SpecificChangeover is the directed setup time between two products
type SpecificChangeover struct {
	FromProductID ProductID
	ToProductID   ProductID
	Minutes       Minutes
}

// MasterRateKey is the lookup key of a MasterRunRate
type MasterRateKey struct {
	PunnetSizeID PunnetSizeID
	LineID       LineID
}

// SpecificRateKey is the lookup key of a SpecificRunRate
type SpecificRateKey struct {
	ProductID ProductID
	LineID    LineID
}

// MasterChangeoverKey is the lookup key of a MasterChangeover
type MasterChangeoverKey struct {
	From PunnetSizeID
	To   PunnetSizeID
}

// SpecificChangeoverKey is the lookup key of a SpecificChangeover
type SpecificChangeoverKey struct {
	From ProductID
	To   ProductID
}

// Key returns the table key of the rate
func (r MasterRunRate) Key() MasterRateKey {
	return MasterRateKey{PunnetSizeID: r.PunnetSizeID, LineID: r.LineID}
}

// Key returns the table key of the rate
func (r SpecificRunRate) Key() SpecificRateKey {
	return SpecificRateKey{ProductID: r.ProductID, LineID: r.LineID}
}

// Key returns the table key of the changeover
func (c MasterChangeover) Key() MasterChangeoverKey {
	return MasterChangeoverKey{From: c.FromPunnetSizeID, To: c.ToPunnetSizeID}
}

// Key returns the table key of the changeover
func (c SpecificChangeover) Key() SpecificChangeoverKey {
	return SpecificChangeoverKey{From: c.FromProductID, To: c.ToProductID}
}

// Validate checks the rate's own invariants
func (r MasterRunRate) Validate() error {
	if r.PunnetSizeID == "" || r.LineID == "" {
		return fmt.Errorf("master run rate requires punnet size and line")
	}
	if !r.PacksPerMinute.IsPositive() {
		return fmt.Errorf("packs per minute must be positive, got %s", r.PacksPerMinute)
	}
	return nil
}

// Validate checks the rate's own invariants
func (r SpecificRunRate) Validate() error {
	if r.ProductID == "" || r.LineID == "" {
		return fmt.Errorf("specific run rate requires product and line")
	}
	if !r.PacksPerMinute.IsPositive() {
		return fmt.Errorf("packs per minute must be positive, got %s", r.PacksPerMinute)
	}
	return nil
}

// Validate checks the changeover's own invariants
func (c MasterChangeover) Validate() error {
	if c.FromPunnetSizeID == "" || c.ToPunnetSizeID == "" {
		return fmt.Errorf("master changeover requires both punnet sizes")
	}
	if c.Minutes < 0 {
		return fmt.Errorf("changeover minutes cannot be negative, got %d", c.Minutes)
	}
	return nil
}

// Validate checks the changeover's own invariants
func (c SpecificChangeover) Validate() error {
	if c.FromProductID == "" || c.ToProductID == "" {
		return fmt.Errorf("specific changeover requires both products")
	}
	if c.Minutes < 0 {
		return fmt.Errorf("changeover minutes cannot be negative, got %d", c.Minutes)
	}
	return nil
}

// NewMasterRunRate creates a validated MasterRunRate
func NewMasterRunRate(punnetSizeID PunnetSizeID, lineID LineID, ppm decimal.Decimal) (*MasterRunRate, error) {
	r := &MasterRunRate{PunnetSizeID: punnetSizeID, LineID: lineID, PacksPerMinute: ppm}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewSpecificRunRate creates a validated SpecificRunRate
func NewSpecificRunRate(productID ProductID, lineID LineID, ppm decimal.Decimal) (*SpecificRunRate, error) {
	r := &SpecificRunRate{ProductID: productID, LineID: lineID, PacksPerMinute: ppm}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewMasterChangeover creates a validated MasterChangeover
func NewMasterChangeover(from, to PunnetSizeID, minutes Minutes) (*MasterChangeover, error) {
	c := &MasterChangeover{FromPunnetSizeID: from, ToPunnetSizeID: to, Minutes: minutes}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewSpecificChangeover creates a validated SpecificChangeover
func NewSpecificChangeover(from, to ProductID, minutes Minutes) (*SpecificChangeover, error) {
	c := &SpecificChangeover{FromProductID: from, ToProductID: to, Minutes: minutes}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
