// Package domain defines the persistent entities, value types, change
// records, and rule evaluation primitives used by the simroom editor core.
package domain

import "time"

// EntityType identifies the type of record stored in the scene document.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityCart identifies a positioned, categorized container in the room.
	EntityCart EntityType = "cart"
	// EntityDrawer identifies a drawer belonging to at most one cart.
	EntityDrawer EntityType = "drawer"
	// EntityItem identifies a leaf entity optionally placed in a drawer.
	EntityItem EntityType = "item"
	// EntityScenario identifies a training scenario record.
	EntityScenario EntityType = "scenario"
	// EntityAchievement identifies an achievement definition record.
	EntityAchievement EntityType = "achievement"
	// EntityCameraView identifies a saved 3D camera pose.
	EntityCameraView EntityType = "camera_view"
)

// Action labels the mutation captured by a Change record.
type Action string

// Canonical change actions recorded by the store.
const (
	// ActionCreate indicates the entity did not exist before the change.
	ActionCreate Action = "create"
	// ActionUpdate indicates a field-level mutation with before and after state.
	ActionUpdate Action = "update"
	// ActionDelete indicates the entity no longer exists after the change.
	ActionDelete Action = "delete"
)

// AchievementTrigger enumerates the conditions under which an achievement unlocks.
type AchievementTrigger string

// Canonical achievement triggers. The Value field's meaning depends on the
// trigger: seconds for TriggerSpeed, a count for TriggerCount, unused otherwise.
const (
	TriggerFirstScenario AchievementTrigger = "first-scenario"
	TriggerPerfectScore  AchievementTrigger = "perfect-score"
	TriggerSpeed         AchievementTrigger = "speed"
	TriggerEfficient     AchievementTrigger = "efficient"
	TriggerCount         AchievementTrigger = "count"
	TriggerAll           AchievementTrigger = "all"
)

// CameraKind classifies saved camera poses.
type CameraKind string

// Canonical camera pose kinds.
const (
	CameraOverview CameraKind = "overview"
	CameraCloseup  CameraKind = "closeup"
	CameraCustom   CameraKind = "custom"
)

// Base contains common fields for all scene entities.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cart is a positioned, categorized container entity in the room. X and Y are
// normalized room coordinates in [0,1]; interactive moves clamp them to
// [0.1, 0.9] so carts stay visible. The ID is immutable once referenced by
// drawers or camera views.
type Cart struct {
	Base
	Name        string   `json:"name"`
	Kind        CartKind `json:"kind"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	RotationDeg float64  `json:"rotationDeg"`
	Color       string   `json:"color"`
	IsInventory bool     `json:"isInventory"`
}

// Drawer is a sub-component of a cart, ordered by Number within its cart.
// A drawer with an empty CartID is unassigned and renders nowhere in 3D.
type Drawer struct {
	Base
	CartID string `json:"cartId"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Item is a leaf entity optionally placed in a drawer. When DrawerID is set,
// the referenced drawer's CartID must equal the item's CartID; the service
// enforces this by clearing DrawerID whenever CartID changes. ImageKey refers
// to an attachment in the blob store.
type Item struct {
	Base
	Name        string `json:"name"`
	CartID      string `json:"cartId"`
	DrawerID    string `json:"drawerId"`
	Description string `json:"description"`
	ImageKey    string `json:"image,omitempty"`
}

// Scenario is a named challenge defined by required and optional item sets.
// Both sets are duplicate-free; membership is toggled, never appended blindly.
type Scenario struct {
	Base
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	EssentialItemIDs []string `json:"essentialItemIds"`
	OptionalItemIDs  []string `json:"optionalItemIds"`
	SuccessText      string   `json:"successText"`
	PartialText      string   `json:"partialText"`
	FailureText      string   `json:"failureText"`
}

// Achievement defines an unlockable award evaluated by the training simulation.
type Achievement struct {
	Base
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	Trigger     AchievementTrigger `json:"trigger"`
	Value       float64            `json:"value"`
}

// CameraView is a saved 3D camera pose. Position and LookAt are expressed in
// feet from the room center.
type CameraView struct {
	Base
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Position       Vec3       `json:"position"`
	LookAt         Vec3       `json:"lookAt"`
	FOVDeg         float64    `json:"fovDeg"`
	Kind           CameraKind `json:"kind"`
	TargetCartID   string     `json:"targetCartId,omitempty"`
	TargetDrawerID string     `json:"targetDrawerId,omitempty"`
}

// RoomSettings is the singleton block describing the physical room.
type RoomSettings struct {
	BackgroundColor string  `json:"backgroundColor"`
	WidthFeet       float64 `json:"widthFeet"`
	DepthFeet       float64 `json:"depthFeet"`
	HeightFeet      float64 `json:"heightFeet"`
	PixelsPerFoot   float64 `json:"pixelsPerFoot"`
}

// Settings is an opaque key/value configuration block carried through the
// document without interpretation by the core.
type Settings map[string]any

// Clone returns a one-level copy of the settings block.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Document is the single serializable scene document holding all entity
// collections and settings blocks. It is the persisted top-level JSON shape.
type Document struct {
	Carts           []Cart        `json:"carts"`
	Drawers         []Drawer      `json:"drawers"`
	Items           []Item        `json:"items"`
	Scenarios       []Scenario    `json:"scenarios"`
	Achievements    []Achievement `json:"achievements"`
	CameraViews     []CameraView  `json:"cameraViews"`
	RoomSettings    RoomSettings  `json:"roomSettings"`
	ScoringRules    Settings      `json:"scoringRules"`
	GeneralSettings Settings      `json:"generalSettings"`
}

// ValidationError reports a rejected document during import or migration.
// The in-memory document is left untouched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "invalid document: " + e.Reason
	}
	return "invalid document: field " + e.Field + ": " + e.Reason
}
