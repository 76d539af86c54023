package repositories

import "github.com/vsinha/lineplan/pkg/domain/entities"

// RateRepository provides keyed lookups into the run rate and changeover tables.
// A missing row is reported with ok == false; it is not an error at this level.
type RateRepository interface {
	SpecificRunRate(productID entities.ProductID, lineID entities.LineID) (*entities.SpecificRunRate, bool)
	MasterRunRate(punnetSizeID entities.PunnetSizeID, lineID entities.LineID) (*entities.MasterRunRate, bool)
	SpecificChangeover(from, to entities.ProductID) (*entities.SpecificChangeover, bool)
	MasterChangeover(from, to entities.PunnetSizeID) (*entities.MasterChangeover, bool)
}
