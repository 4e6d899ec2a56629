package domain

import "testing"

func TestInferCartKind(t *testing.T) {
	cases := []struct {
		name string
		want CartKind
	}{
		{"Code Blue Cart", CartCrash},
		{"crash cart 2", CartCrash},
		{"Airway Station", CartAirway},
		{"Medication Cart", CartMedication},
		{"Meds", CartMedication},
		{"IV Pole", CartIV},
		{"Procedure Station", CartProcedure},
		{"Exam Table", CartProcedure},
		{"TRAUMA", CartTrauma},
		{"Mystery Box", CartSupply},
		{"", CartSupply},
	}
	for _, c := range cases {
		if got := InferCartKind(c.name); got != c.want {
			t.Fatalf("InferCartKind(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestDefaultsForUnknownKind(t *testing.T) {
	if got := DefaultsFor(CartKind("bogus")); got != DefaultsFor(CartSupply) {
		t.Fatalf("unknown kind should fall back to supply defaults, got %+v", got)
	}
}

func TestDefaultsCoverAllKinds(t *testing.T) {
	kinds := []CartKind{CartCrash, CartAirway, CartMedication, CartIV, CartProcedure, CartTrauma, CartSupply, CartCustom}
	for _, k := range kinds {
		d := DefaultsFor(k)
		if d.Name == "" || d.Color == "" || d.WidthFeet <= 0 || d.DepthFeet <= 0 || d.HeightFeet <= 0 {
			t.Fatalf("incomplete defaults for %q: %+v", k, d)
		}
	}
}
