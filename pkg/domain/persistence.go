package domain

import "context"

// Transaction exposes the document operations a persistence implementation
// must support within an atomic scope. Create and update operations return
// the stored copy; lookups never error on missing ids.
type Transaction interface {
	CreateCart(Cart) (Cart, error)
	UpdateCart(id string, mutator func(*Cart) error) (Cart, error)
	// DeleteCart removes a cart and cascades to its drawers. The returned
	// changes include one delete per cascaded drawer so a replay can restore
	// them with identical field values.
	DeleteCart(id string) error
	CreateDrawer(Drawer) (Drawer, error)
	UpdateDrawer(id string, mutator func(*Drawer) error) (Drawer, error)
	DeleteDrawer(id string) error
	CreateItem(Item) (Item, error)
	UpdateItem(id string, mutator func(*Item) error) (Item, error)
	DeleteItem(id string) error
	CreateScenario(Scenario) (Scenario, error)
	UpdateScenario(id string, mutator func(*Scenario) error) (Scenario, error)
	DeleteScenario(id string) error
	CreateAchievement(Achievement) (Achievement, error)
	UpdateAchievement(id string, mutator func(*Achievement) error) (Achievement, error)
	DeleteAchievement(id string) error
	CreateCameraView(CameraView) (CameraView, error)
	UpdateCameraView(id string, mutator func(*CameraView) error) (CameraView, error)
	DeleteCameraView(id string) error
	SetRoomSettings(RoomSettings)
	SetScoringRules(Settings)
	SetGeneralSettings(Settings)
	// ApplyChange replays a recorded change in its stored direction. A change
	// targeting an id no longer present is a silent no-op, never an error:
	// history replay must degrade gracefully when cascade logic elsewhere has
	// already removed the target.
	ApplyChange(Change) error
	Snapshot() TransactionView
}

// TransactionView provides read-only access to snapshot data for rules and
// renderers.
type TransactionView interface {
	RuleView
}

// PersistentStore is a minimal abstraction over durable document backends.
// Implementations snapshot the full document after every successful
// transaction.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, []Change, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetCart(id string) (Cart, bool)
	GetDrawer(id string) (Drawer, bool)
	GetItem(id string) (Item, bool)
	GetScenario(id string) (Scenario, bool)
	GetAchievement(id string) (Achievement, bool)
	GetCameraView(id string) (CameraView, bool)
	ListCarts() []Cart
	ListDrawers() []Drawer
	ListItems() []Item
	ListScenarios() []Scenario
	ListAchievements() []Achievement
	ListCameraViews() []CameraView
	RoomSettings() RoomSettings
	ScoringRules() Settings
	GeneralSettings() Settings
	// ExportState returns a deep copy of the current document.
	ExportState() Document
	// ImportState replaces the document wholesale, bypassing rules. Used by
	// load, import, and reset paths after migration has validated the input.
	ImportState(Document)
	// Wipe clears both the in-memory document and any durable snapshot.
	Wipe(ctx context.Context) error
}
