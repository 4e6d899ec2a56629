package core

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"simroom/pkg/domain"
)

func TestLoadPopulatesDefaultDocumentWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(svc.Store().ListCarts()); got == 0 {
		t.Fatal("empty store must load the default document")
	}
	if svc.Store().RoomSettings() != DefaultRoomSettings() {
		t.Fatal("default room settings not applied")
	}
}

func TestLoadKeepsExistingDocument(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	svc.Store().ImportState(domain.Document{
		Carts: []domain.Cart{{Base: domain.Base{ID: "keep"}, Name: "Keeper", Kind: domain.CartSupply, X: 0.5, Y: 0.5}},
	})
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	carts := svc.Store().ListCarts()
	if len(carts) != 1 || carts[0].ID != "keep" {
		t.Fatalf("existing document replaced on load: %+v", carts)
	}
}

func TestExportProducesTimestampedPrettyJSON(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.CreateCart(ctx, domain.CartCrash); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	data, name, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(name, "room-") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("filename = %q, want room-<timestamp>.json", name)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("export must be pretty-printed")
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not a valid document: %v", err)
	}
	if len(doc.Carts) != 1 {
		t.Fatalf("exported %d carts, want 1", len(doc.Carts))
	}
}

func TestImportReplacesDocumentAndClearsHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.CreateCart(ctx, domain.CartIV); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if err := svc.Import(ctx, []byte(`{"carts": [
		{"id": "imported", "name": "Crash Cart", "x": 0.4, "y": 0.4}
	]}`)); err != nil {
		t.Fatalf("import: %v", err)
	}

	carts := svc.Store().ListCarts()
	if len(carts) != 1 || carts[0].ID != "imported" {
		t.Fatalf("import did not replace document wholesale: %+v", carts)
	}
	if carts[0].Kind != domain.CartCrash {
		t.Fatalf("imported cart kind = %q, migration inference not applied", carts[0].Kind)
	}
	if svc.History().CanUndo() || svc.History().CanRedo() {
		t.Fatal("history must be cleared by import")
	}
	if _, id := svc.Selection().Selected(); id != "" {
		t.Fatal("selection must be cleared by import")
	}
	if svc.Selection().Unsaved() {
		t.Fatal("freshly imported document must not be flagged unsaved")
	}
}

func TestImportValidationErrorLeavesDocumentUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.CreateCart(ctx, domain.CartTrauma); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	before := svc.Store().ExportState()

	if err := svc.Import(ctx, []byte(`{"drawers": []}`)); err == nil {
		t.Fatal("import without carts must fail")
	}
	after := svc.Store().ExportState()
	if !reflect.DeepEqual(before, after) {
		t.Fatal("rejected import modified the live document")
	}
	if !svc.History().CanUndo() {
		t.Fatal("rejected import cleared history")
	}
}

func TestResetRestoresDefaultDocument(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.CreateCart(ctx, domain.CartCustom); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	want := DefaultDocument()
	got := svc.Store().ExportState()
	if len(got.Carts) != len(want.Carts) {
		t.Fatalf("reset produced %d carts, want %d", len(got.Carts), len(want.Carts))
	}
	if svc.History().CanUndo() {
		t.Fatal("history must be cleared by reset")
	}
}

// countingStore observes snapshot writes through the Snapshotter seam.
type countingStore struct {
	*MemoryStore
	persists int
	snapshot bool
}

func (c *countingStore) Persist(ctx context.Context) error {
	c.persists++
	c.snapshot = true
	return nil
}

func (c *countingStore) HasSnapshot() bool { return c.snapshot }

func TestLoadKeepsSavedDocumentWithoutCarts(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore(NewDefaultRulesEngine()), snapshot: true}
	svc := NewService(store, ServiceConfig{})

	// The author deleted every cart, drawer, and item but kept a scenario.
	store.ImportState(domain.Document{
		Scenarios:    []domain.Scenario{{Base: domain.Base{ID: "s1"}, Name: "Night Shift"}},
		RoomSettings: DefaultRoomSettings(),
	})
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(svc.Store().ListCarts()); got != 0 {
		t.Fatalf("saved cartless document reseeded with %d default carts", got)
	}
	scenarios := svc.Store().ListScenarios()
	if len(scenarios) != 1 || scenarios[0].ID != "s1" {
		t.Fatalf("saved scenario lost on load: %+v", scenarios)
	}
}

func TestLoadSeedsDefaultsWhenNoSnapshotExists(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore(NewDefaultRulesEngine())}
	svc := NewService(store, ServiceConfig{})

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(svc.Store().ListCarts()) == 0 {
		t.Fatal("snapshotless store must load the default document")
	}
	if store.persists == 0 {
		t.Fatal("seeded defaults must be persisted")
	}
}

func TestAutosaveGating(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore(NewDefaultRulesEngine())}
	svc := NewService(store, ServiceConfig{})
	saver := NewAutosaver(svc, 0)

	saver.tick(ctx)
	if store.persists != 0 {
		t.Fatal("clean document must not autosave")
	}

	svc.Selection().MarkUnsaved()
	svc.importing.Store(true)
	saver.tick(ctx)
	if store.persists != 0 {
		t.Fatal("autosave must be suppressed mid-import")
	}

	svc.importing.Store(false)
	saver.tick(ctx)
	if store.persists != 1 {
		t.Fatalf("persists = %d, want 1", store.persists)
	}
	if svc.Selection().Unsaved() {
		t.Fatal("autosave must clear the unsaved flag")
	}
}
