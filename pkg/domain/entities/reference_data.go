package entities

// ReferenceData is the read-only snapshot handed over by the storage collaborator
type ReferenceData struct {
	PunnetSizes         []PunnetSize
	Fruits              []Fruit
	Customers           []Customer
	Sites               []Site
	Lines               []ProductionLine
	Products            []Product
	MasterRunRates      []MasterRunRate
	SpecificRunRates    []SpecificRunRate
	MasterChangeovers   []MasterChangeover
	SpecificChangeovers []SpecificChangeover
	Orders              []Order
	Schedule            []ScheduleItem
}
