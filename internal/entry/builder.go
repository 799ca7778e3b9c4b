package entry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Kiriweb/carbontracker/internal/catalog"
)

// ValidationError reports why a quick entry could not be built. It is
// produced before any network call; the user fixes the input and retries.
type ValidationError struct {
	Missing []string
	Invalid []string
	Stale   []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	if len(e.Stale) > 0 {
		parts = append(parts, "stale selection "+strings.Join(e.Stale, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0 && len(e.Stale) == 0
}

// Fields carries the raw form values for one submission. Compound keys are
// catalog keys as picked; Amount is the single numeric input shared by all
// categories.
type Fields struct {
	VehicleKey  string
	Country     string
	WasteType   string
	WasteMethod string
	FuelKey     string
	Amount      string
}

// Builder turns raw field values into validated submission payloads. It is a
// pure transform with no I/O.
type Builder struct {
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewBuilder constructs a payload builder.
func NewBuilder(validate *validator.Validate, logger zerolog.Logger) *Builder {
	return &Builder{
		validate: validate,
		logger:   logger.With().Str("component", "entry_builder").Logger(),
	}
}

// wireNames maps variant struct fields to their wire spellings.
var wireNames = map[string]string{
	"VehicleType": "vehicleType",
	"VehicleFuel": "vehicleFuel",
	"DistanceKm":  "distanceKm",
	"Country":     "electricityCountry",
	"Kwh":         "kwh",
	"WasteType":   "wasteType",
	"Method":      "wasteMethod",
	"WeightKg":    "wasteKg",
	"FuelType":    "fuelType",
	"Unit":        "fuelUnit",
	"Quantity":    "fuelQuantity",
}

// Build validates the raw fields for the selected category against the
// supplied catalogs and returns a typed payload. A required numeric field
// that is empty is rejected as missing, never silently zeroed; a selection
// absent from its catalog fails as stale instead of producing a malformed
// submission.
func (b *Builder) Build(category Category, fields Fields, catalogs catalog.Set) (Payload, error) {
	verr := &ValidationError{}
	skip := make(map[string]struct{})
	payload := Payload{Category: category}
	var variant any

	switch category {
	case CategoryVehicleTrip:
		v := &VehicleTrip{DistanceKm: b.amount(fields.Amount, "distanceKm", verr)}
		if fields.VehicleKey != "" {
			vehicleType, vehicleFuel, err := catalogs.Vehicles.Decode(fields.VehicleKey)
			if err != nil {
				b.recordDecode(err, fields.VehicleKey, "vehicleType", verr, skip, "vehicleFuel")
			} else {
				v.VehicleType = vehicleType
				v.VehicleFuel = vehicleFuel
			}
		}
		payload.Vehicle = v
		variant = v

	case CategoryElectricityUse:
		v := &ElectricityUse{
			Country: fields.Country,
			Kwh:     b.amount(fields.Amount, "kwh", verr),
		}
		if v.Country != "" && !catalogs.HasCountry(v.Country) {
			verr.Stale = append(verr.Stale, "electricityCountry")
			skip["electricityCountry"] = struct{}{}
			v.Country = ""
		}
		payload.Electricity = v
		variant = v

	case CategoryWasteDisposal:
		v := &WasteDisposal{WeightKg: b.amount(fields.Amount, "wasteKg", verr)}
		if fields.WasteType == "" {
			v.Method = fields.WasteMethod
		} else if !catalogs.Waste.ContainsType(fields.WasteType) {
			verr.Stale = append(verr.Stale, "wasteType")
			skip["wasteType"] = struct{}{}
			skip["wasteMethod"] = struct{}{}
		} else {
			// The method is only meaningful relative to the type, so the
			// dependent pair is driven through a WasteSelection.
			var sel catalog.WasteSelection
			sel.SelectType(fields.WasteType)
			if fields.WasteMethod != "" {
				if err := sel.SelectMethod(catalogs.Waste, fields.WasteMethod); err != nil {
					verr.Stale = append(verr.Stale, "wasteMethod")
					skip["wasteMethod"] = struct{}{}
				}
			}
			v.WasteType = sel.Type
			v.Method = sel.Method
		}
		payload.Waste = v
		variant = v

	case CategoryFuelCombustion:
		v := &FuelCombustion{Quantity: b.amount(fields.Amount, "fuelQuantity", verr)}
		if fields.FuelKey != "" {
			fuelType, unit, err := catalogs.Fuels.Decode(fields.FuelKey)
			if err != nil {
				b.recordDecode(err, fields.FuelKey, "fuelType", verr, skip, "fuelUnit")
			} else {
				v.FuelType = fuelType
				v.Unit = unit
			}
		}
		payload.Fuel = v
		variant = v

	default:
		return Payload{}, fmt.Errorf("unknown activity category %d", int(category))
	}

	b.applyStructRules(variant, verr, skip)

	if !verr.empty() {
		return Payload{}, verr
	}
	return payload, nil
}

// amount parses a required numeric field. Empty input is a distinct failure
// from unparsable input.
func (b *Builder) amount(raw, field string, verr *ValidationError) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		verr.Missing = append(verr.Missing, field)
		return 0
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		verr.Invalid = append(verr.Invalid, field)
		return 0
	}
	return value
}

// recordDecode folds a compound-key decode failure into verr. The partner
// component is suppressed from the struct rules so one bad selection is
// reported once.
func (b *Builder) recordDecode(err error, key, field string, verr *ValidationError, skip map[string]struct{}, partner string) {
	skip[field] = struct{}{}
	skip[partner] = struct{}{}
	if errors.Is(err, catalog.ErrStaleSelection) {
		b.logger.Debug().Str("key", key).Msg("compound key not in catalog")
		verr.Stale = append(verr.Stale, field)
		return
	}
	verr.Invalid = append(verr.Invalid, field)
}

// applyStructRules runs the declared required-field set for the variant and
// folds violations into verr.
func (b *Builder) applyStructRules(variant any, verr *ValidationError, skip map[string]struct{}) {
	err := b.validate.Struct(variant)
	if err == nil {
		return
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		verr.Invalid = append(verr.Invalid, err.Error())
		return
	}

	for _, fieldError := range fieldErrors {
		name := wireNames[fieldError.StructField()]
		if name == "" {
			name = fieldError.StructField()
		}
		if _, flagged := skip[name]; flagged {
			continue
		}
		if fieldError.Tag() == "required" {
			verr.Missing = append(verr.Missing, name)
		} else {
			verr.Invalid = append(verr.Invalid, name)
		}
	}
}
