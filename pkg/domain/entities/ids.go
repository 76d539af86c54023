package entities

import "time"

// PunnetSizeID identifies a punnet size
type PunnetSizeID string

// FruitID identifies a fruit
type FruitID string

// FruitVariantID identifies a fruit variant
type FruitVariantID string

// CustomerID identifies a customer
type CustomerID string

// SiteID identifies a production site
type SiteID string

// LineID identifies a production line
type LineID string

// ProductID identifies a product
type ProductID string

// OrderID identifies a packing order
type OrderID string

// ScheduleItemID identifies a committed schedule item
type ScheduleItemID string

// Packs represents an integer count of packed punnets
type Packs int64

// Minutes represents a whole number of line minutes
type Minutes int

// Duration converts minutes to a time.Duration without rounding
func (m Minutes) Duration() time.Duration {
	return time.Duration(m) * time.Minute
}
