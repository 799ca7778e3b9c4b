package entry

import (
	"github.com/Kiriweb/carbontracker/internal/dto"
)

// VehicleTrip is the vehicle-trip activity variant.
type VehicleTrip struct {
	VehicleType string  `validate:"required"`
	VehicleFuel string  `validate:"required"`
	DistanceKm  float64 `validate:"gte=0"`
}

// ElectricityUse is the electricity-use activity variant.
type ElectricityUse struct {
	Country string  `validate:"required"`
	Kwh     float64 `validate:"gte=0"`
}

// WasteDisposal is the waste-disposal activity variant.
type WasteDisposal struct {
	WasteType string  `validate:"required"`
	Method    string  `validate:"required"`
	WeightKg  float64 `validate:"gte=0"`
}

// FuelCombustion is the fuel-combustion activity variant.
type FuelCombustion struct {
	FuelType string  `validate:"required"`
	Unit     string  `validate:"required"`
	Quantity float64 `validate:"gte=0"`
}

// Payload is a validated quick-entry submission. Exactly one variant pointer
// is set, matching Category.
type Payload struct {
	Category    Category
	Vehicle     *VehicleTrip
	Electricity *ElectricityUse
	Waste       *WasteDisposal
	Fuel        *FuelCombustion
}

// Request converts the payload into the wire body. Only the active variant's
// fields are populated.
func (p Payload) Request() dto.QuickEntryRequest {
	req := dto.QuickEntryRequest{Category: p.Category.String()}
	switch p.Category {
	case CategoryVehicleTrip:
		req.VehicleType = p.Vehicle.VehicleType
		req.VehicleFuel = p.Vehicle.VehicleFuel
		req.DistanceKm = &p.Vehicle.DistanceKm
	case CategoryElectricityUse:
		req.ElectricityCountry = p.Electricity.Country
		req.Kwh = &p.Electricity.Kwh
	case CategoryWasteDisposal:
		req.WasteType = p.Waste.WasteType
		req.WasteMethod = p.Waste.Method
		req.WasteKg = &p.Waste.WeightKg
	case CategoryFuelCombustion:
		req.FuelType = p.Fuel.FuelType
		req.FuelUnit = p.Fuel.Unit
		req.FuelQuantity = &p.Fuel.Quantity
	}
	return req
}
