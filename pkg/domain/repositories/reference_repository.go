package repositories

import "github.com/vsinha/lineplan/pkg/domain/entities"

// ReferenceRepository provides access to provisioned reference data
type ReferenceRepository interface {
	GetProduct(id entities.ProductID) (*entities.Product, error)
	GetLine(id entities.LineID) (*entities.ProductionLine, error)
	GetPunnetSize(id entities.PunnetSizeID) (*entities.PunnetSize, error)
	GetCustomer(id entities.CustomerID) (*entities.Customer, error)
	GetAllProducts() ([]*entities.Product, error)
	GetAllLines() ([]*entities.ProductionLine, error)
}
