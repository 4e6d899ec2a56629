package core

import "simroom/pkg/domain"

// DefaultRoomSettings returns the stock room dimensions.
func DefaultRoomSettings() domain.RoomSettings {
	return domain.RoomSettings{
		BackgroundColor: "#e8eaf0",
		WidthFeet:       24,
		DepthFeet:       18,
		HeightFeet:      10,
		PixelsPerFoot:   32,
	}
}

// DefaultScoringRules returns the stock scoring configuration passed through
// to the training simulation.
func DefaultScoringRules() domain.Settings {
	return domain.Settings{
		"essentialPoints": 10.0,
		"optionalPoints":  5.0,
		"wrongPenalty":    2.0,
		"timeBonusWindow": 120.0,
	}
}

// DefaultGeneralSettings returns the stock editor-agnostic settings block.
func DefaultGeneralSettings() domain.Settings {
	return domain.Settings{
		"simulationTitle": "Room Trainer",
		"timerSeconds":    300.0,
		"showHints":       true,
	}
}

// DefaultDocument returns the hardcoded starter scene used when no saved
// document exists and after a reset.
func DefaultDocument() domain.Document {
	carts := []domain.Cart{
		newDefaultCart("cart-crash", domain.CartCrash, 0.25, 0.3),
		newDefaultCart("cart-airway", domain.CartAirway, 0.5, 0.3),
		newDefaultCart("cart-supply", domain.CartSupply, 0.75, 0.3),
	}
	drawers := []domain.Drawer{
		{Base: domain.Base{ID: "drawer-crash-1"}, CartID: "cart-crash", Name: "Medications", Number: 1},
		{Base: domain.Base{ID: "drawer-crash-2"}, CartID: "cart-crash", Name: "Airway", Number: 2},
		{Base: domain.Base{ID: "drawer-crash-3"}, CartID: "cart-crash", Name: "IV Supplies", Number: 3},
	}
	items := []domain.Item{
		{Base: domain.Base{ID: "item-epi"}, Name: "Epinephrine", CartID: "cart-crash", DrawerID: "drawer-crash-1", Description: "1 mg/10 mL prefilled syringe"},
		{Base: domain.Base{ID: "item-bvm"}, Name: "Bag Valve Mask", CartID: "cart-crash", DrawerID: "drawer-crash-2"},
	}
	return domain.Document{
		Carts:           carts,
		Drawers:         drawers,
		Items:           items,
		Scenarios:       []domain.Scenario{},
		Achievements:    []domain.Achievement{},
		CameraViews:     []domain.CameraView{},
		RoomSettings:    DefaultRoomSettings(),
		ScoringRules:    DefaultScoringRules(),
		GeneralSettings: DefaultGeneralSettings(),
	}
}

func newDefaultCart(id string, kind domain.CartKind, x, y float64) domain.Cart {
	d := domain.DefaultsFor(kind)
	return domain.Cart{
		Base:  domain.Base{ID: id},
		Name:  d.Name,
		Kind:  kind,
		X:     x,
		Y:     y,
		Color: d.Color,
	}
}
