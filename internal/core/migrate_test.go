package core

import (
	"errors"
	"testing"

	"simroom/pkg/domain"
)

func TestMigrateRejectsMissingCarts(t *testing.T) {
	_, err := MigrateDocument([]byte(`{"drawers": []}`))
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "carts" {
		t.Fatalf("validation field = %q, want carts", verr.Field)
	}
}

func TestMigrateRejectsNonArrayCarts(t *testing.T) {
	_, err := MigrateDocument([]byte(`{"carts": {"a": 1}}`))
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "carts" {
		t.Fatalf("validation field = %q, want carts", verr.Field)
	}
}

func TestMigrateDefaultsRotationAndInfersKind(t *testing.T) {
	doc, err := MigrateDocument([]byte(`{"carts": [
		{"id": "c1", "name": "Code Blue Cart", "x": 0.3, "y": 0.4},
		{"id": "c2", "name": "Airway Station", "x": 0.5, "y": 0.5, "rotationDeg": 45},
		{"id": "c3", "name": "Meds", "x": 0.2, "y": 0.2},
		{"id": "c4", "name": "IV Pole", "x": 0.6, "y": 0.6},
		{"id": "c5", "name": "OR Table", "x": 0.7, "y": 0.7},
		{"id": "c6", "name": "Trauma Bay", "x": 0.8, "y": 0.8},
		{"id": "c7", "name": "Misc Storage", "x": 0.4, "y": 0.4}
	]}`))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	wantKinds := []domain.CartKind{
		domain.CartCrash,
		domain.CartAirway,
		domain.CartMedication,
		domain.CartIV,
		domain.CartProcedure,
		domain.CartTrauma,
		domain.CartSupply,
	}
	for i, want := range wantKinds {
		if doc.Carts[i].Kind != want {
			t.Errorf("cart %s kind = %q, want %q", doc.Carts[i].ID, doc.Carts[i].Kind, want)
		}
	}
	if doc.Carts[0].RotationDeg != 0 {
		t.Errorf("missing rotationDeg = %v, want 0", doc.Carts[0].RotationDeg)
	}
	if doc.Carts[1].RotationDeg != 45 {
		t.Errorf("explicit rotationDeg = %v, want 45", doc.Carts[1].RotationDeg)
	}
}

func TestMigrateKeepsExplicitKind(t *testing.T) {
	doc, err := MigrateDocument([]byte(`{"carts": [
		{"id": "c1", "name": "Code Blue Cart", "kind": "supply", "x": 0.3, "y": 0.4}
	]}`))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if doc.Carts[0].Kind != domain.CartSupply {
		t.Fatalf("kind = %q, explicit value must win over name inference", doc.Carts[0].Kind)
	}
}

func TestMigrateDefaultsCollectionsAndSettings(t *testing.T) {
	doc, err := MigrateDocument([]byte(`{"carts": []}`))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if doc.Drawers == nil || doc.Items == nil || doc.Scenarios == nil || doc.Achievements == nil || doc.CameraViews == nil {
		t.Fatal("missing collections must default to empty, not nil")
	}
	if doc.RoomSettings != DefaultRoomSettings() {
		t.Fatalf("room settings = %+v, want defaults", doc.RoomSettings)
	}
	if len(doc.ScoringRules) == 0 || len(doc.GeneralSettings) == 0 {
		t.Fatal("missing settings blocks must default to fixed objects")
	}
}

func TestMigrateClampsDrawerNumbers(t *testing.T) {
	doc, err := MigrateDocument([]byte(`{"carts": [], "drawers": [
		{"id": "d1", "cartId": "", "name": "Top", "number": 0},
		{"id": "d2", "cartId": "", "name": "Bottom", "number": 3}
	]}`))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if doc.Drawers[0].Number != 1 {
		t.Fatalf("drawer number 0 migrated to %d, want 1", doc.Drawers[0].Number)
	}
	if doc.Drawers[1].Number != 3 {
		t.Fatalf("drawer number 3 migrated to %d, want 3", doc.Drawers[1].Number)
	}
}

func TestMigrateRejectsGarbage(t *testing.T) {
	if _, err := MigrateDocument([]byte(`not json`)); err == nil {
		t.Fatal("garbage input must fail migration")
	}
}
