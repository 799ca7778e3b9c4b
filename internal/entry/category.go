package entry

import (
	"fmt"
	"strings"
)

// Category identifies which activity schema a quick entry uses. Exactly one
// variant is active per submission; every consumption site switches
// exhaustively so a new category is a compile-time visible change.
type Category int

const (
	CategoryVehicleTrip Category = iota
	CategoryElectricityUse
	CategoryWasteDisposal
	CategoryFuelCombustion
)

// String returns the wire literal the backend expects.
func (c Category) String() string {
	switch c {
	case CategoryVehicleTrip:
		return "vehicle trip"
	case CategoryElectricityUse:
		return "electricity use"
	case CategoryWasteDisposal:
		return "waste disposal"
	case CategoryFuelCombustion:
		return "fuel combustion"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Categories lists every activity category in presentation order.
func Categories() []Category {
	return []Category{
		CategoryElectricityUse,
		CategoryVehicleTrip,
		CategoryWasteDisposal,
		CategoryFuelCombustion,
	}
}

// ParseCategory resolves a wire literal, case-insensitively.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if c.String() == normalized {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown activity category %q", s)
}
