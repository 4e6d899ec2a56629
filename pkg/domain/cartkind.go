package domain

import "strings"

// CartKind categorizes a cart and fixes its display defaults and footprint.
type CartKind string

// Canonical cart kinds.
const (
	CartCrash      CartKind = "crash"
	CartAirway     CartKind = "airway"
	CartMedication CartKind = "medication"
	CartIV         CartKind = "iv"
	CartProcedure  CartKind = "procedure"
	CartTrauma     CartKind = "trauma"
	CartSupply     CartKind = "supply"
	CartCustom     CartKind = "custom"
)

// CartKindDefaults carries the per-kind display defaults applied on creation
// and on kind change, plus the physical footprint shared by the 2D renderer,
// hit-testing, and the 3D scene builder.
type CartKindDefaults struct {
	Name       string
	Color      string
	WidthFeet  float64
	DepthFeet  float64
	HeightFeet float64
}

var cartKindDefaults = map[CartKind]CartKindDefaults{
	CartCrash:      {Name: "Crash Cart", Color: "#d32f2f", WidthFeet: 2.5, DepthFeet: 2.0, HeightFeet: 3.5},
	CartAirway:     {Name: "Airway Cart", Color: "#1976d2", WidthFeet: 2.5, DepthFeet: 2.0, HeightFeet: 3.5},
	CartMedication: {Name: "Medication Cart", Color: "#7b1fa2", WidthFeet: 2.0, DepthFeet: 1.5, HeightFeet: 3.0},
	CartIV:         {Name: "IV Cart", Color: "#0097a7", WidthFeet: 1.5, DepthFeet: 1.5, HeightFeet: 4.0},
	CartProcedure:  {Name: "Procedure Table", Color: "#5d4037", WidthFeet: 6.0, DepthFeet: 2.5, HeightFeet: 3.0},
	CartTrauma:     {Name: "Trauma Cart", Color: "#e64a19", WidthFeet: 2.5, DepthFeet: 2.0, HeightFeet: 3.5},
	CartSupply:     {Name: "Supply Cart", Color: "#388e3c", WidthFeet: 3.0, DepthFeet: 2.0, HeightFeet: 4.5},
	CartCustom:     {Name: "Custom Cart", Color: "#616161", WidthFeet: 2.5, DepthFeet: 2.0, HeightFeet: 3.5},
}

// DefaultsFor returns the display defaults and footprint for a cart kind.
// Unknown kinds fall back to the supply defaults.
func DefaultsFor(kind CartKind) CartKindDefaults {
	if d, ok := cartKindDefaults[kind]; ok {
		return d
	}
	return cartKindDefaults[CartSupply]
}

// kindKeywords maps case-insensitive name substrings to inferred kinds.
// Existing saved documents depend on this table for forward compatibility;
// entries are matched in order so "crash"/"code" win over later keywords.
var kindKeywords = []struct {
	substr string
	kind   CartKind
}{
	{"crash", CartCrash},
	{"code", CartCrash},
	{"airway", CartAirway},
	{"med", CartMedication},
	{"iv", CartIV},
	{"procedure", CartProcedure},
	{"table", CartProcedure},
	{"trauma", CartTrauma},
}

// InferCartKind derives a cart kind from its name for documents saved before
// kinds were recorded. Names matching no keyword default to supply.
func InferCartKind(name string) CartKind {
	lower := strings.ToLower(name)
	for _, kw := range kindKeywords {
		if strings.Contains(lower, kw.substr) {
			return kw.kind
		}
	}
	return CartSupply
}
