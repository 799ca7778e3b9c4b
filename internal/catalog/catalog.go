package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrStaleSelection indicates a selection that is not present in the current
// catalog, typically because the client cache is out of sync with the server.
var ErrStaleSelection = errors.New("selection not present in catalog")

const compoundSeparator = "_"

// Compound is a server-provided list of keys, each encoding two independent
// selectable attributes joined by an underscore. The catalog is the only
// source of valid keys; the client never synthesizes one.
type Compound struct {
	keys []string
	set  map[string]struct{}
}

// NewCompound builds a compound catalog from the server's key list.
func NewCompound(keys []string) Compound {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return Compound{keys: append([]string(nil), keys...), set: set}
}

// Keys returns the catalog keys in server order.
func (c Compound) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len reports the number of keys in the catalog.
func (c Compound) Len() int {
	return len(c.keys)
}

// Contains reports whether key is a valid catalog entry.
func (c Compound) Contains(key string) bool {
	_, ok := c.set[key]
	return ok
}

// Decode splits a catalog key into its two components. The key must be
// present in the catalog; an absent key fails with ErrStaleSelection rather
// than producing a malformed submission.
func (c Compound) Decode(key string) (primary, secondary string, err error) {
	if !c.Contains(key) {
		return "", "", fmt.Errorf("%w: %q", ErrStaleSelection, key)
	}
	i := strings.Index(key, compoundSeparator)
	if i <= 0 || i >= len(key)-1 {
		return "", "", fmt.Errorf("malformed compound key %q", key)
	}
	return key[:i], key[i+1:], nil
}

// Waste maps a waste-type name to the ordered set of disposal methods valid
// for that type.
type Waste struct {
	types   []string
	methods map[string][]string
}

// NewWaste builds the waste catalog from the server's type-to-methods map.
// Types are sorted for stable presentation.
func NewWaste(methods map[string][]string) Waste {
	types := make([]string, 0, len(methods))
	copied := make(map[string][]string, len(methods))
	for wasteType, methodList := range methods {
		types = append(types, wasteType)
		copied[wasteType] = append([]string(nil), methodList...)
	}
	sort.Strings(types)
	return Waste{types: types, methods: copied}
}

// Types returns the known waste types in sorted order.
func (w Waste) Types() []string {
	return append([]string(nil), w.types...)
}

// Len reports the number of waste types.
func (w Waste) Len() int {
	return len(w.types)
}

// MethodsFor returns the valid disposal methods for a waste type, preserving
// server order. Unknown types yield an empty list.
func (w Waste) MethodsFor(wasteType string) []string {
	return append([]string(nil), w.methods[wasteType]...)
}

// ContainsType reports whether wasteType is a known type.
func (w Waste) ContainsType(wasteType string) bool {
	_, ok := w.methods[wasteType]
	return ok
}

// Allows reports whether method is valid for wasteType.
func (w Waste) Allows(wasteType, method string) bool {
	for _, candidate := range w.methods[wasteType] {
		if candidate == method {
			return true
		}
	}
	return false
}

// WasteSelection tracks the dependent type and method pair. The method is
// only meaningful relative to the selected type.
type WasteSelection struct {
	Type   string
	Method string
}

// SelectType changes the waste type. Changing the type resets the method:
// the previous method may not be valid for the new type.
func (s *WasteSelection) SelectType(wasteType string) {
	if wasteType == s.Type {
		return
	}
	s.Type = wasteType
	s.Method = ""
}

// SelectMethod sets the method, rejecting values outside the current type's
// method set.
func (s *WasteSelection) SelectMethod(w Waste, method string) error {
	if !w.Allows(s.Type, method) {
		return fmt.Errorf("%w: method %q for type %q", ErrStaleSelection, method, s.Type)
	}
	s.Method = method
	return nil
}

// Set bundles the four reference catalogs the quick-entry form needs.
type Set struct {
	Vehicles  Compound
	Countries []string
	Waste     Waste
	Fuels     Compound
}

// HasCountry reports whether the electricity catalog lists the country.
func (s Set) HasCountry(country string) bool {
	for _, candidate := range s.Countries {
		if candidate == country {
			return true
		}
	}
	return false
}
