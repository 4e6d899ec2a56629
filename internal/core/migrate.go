package core

import (
	"encoding/json"
	"fmt"
	"time"

	"simroom/pkg/domain"
)

// rawCart decodes a cart while distinguishing absent fields from zero values,
// which the typed struct cannot do.
type rawCart struct {
	domain.Cart
	RawRotationDeg *float64 `json:"rotationDeg"`
	RawKind        *string  `json:"kind"`
}

// MigrateDocument parses a persisted JSON document and upgrades it to the
// current schema. The carts collection must be present and must be an array;
// anything else is a ValidationError and the caller leaves the live document
// untouched. Other collections default to empty and settings blocks to the
// built-in defaults.
func MigrateDocument(data []byte) (domain.Document, error) {
	var raw struct {
		Carts           json.RawMessage      `json:"carts"`
		Drawers         []domain.Drawer      `json:"drawers"`
		Items           []domain.Item        `json:"items"`
		Scenarios       []domain.Scenario    `json:"scenarios"`
		Achievements    []domain.Achievement `json:"achievements"`
		CameraViews     []domain.CameraView  `json:"cameraViews"`
		RoomSettings    *domain.RoomSettings `json:"roomSettings"`
		ScoringRules    domain.Settings      `json:"scoringRules"`
		GeneralSettings domain.Settings      `json:"generalSettings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Document{}, domain.ValidationError{Reason: fmt.Sprintf("not a JSON document: %v", err)}
	}
	if len(raw.Carts) == 0 || string(raw.Carts) == "null" {
		return domain.Document{}, domain.ValidationError{Field: "carts", Reason: "required array is missing"}
	}
	var rawCarts []rawCart
	if err := json.Unmarshal(raw.Carts, &rawCarts); err != nil {
		return domain.Document{}, domain.ValidationError{Field: "carts", Reason: "must be an array"}
	}

	doc := domain.Document{
		Carts:           make([]domain.Cart, 0, len(rawCarts)),
		Drawers:         raw.Drawers,
		Items:           raw.Items,
		Scenarios:       raw.Scenarios,
		Achievements:    raw.Achievements,
		CameraViews:     raw.CameraViews,
		ScoringRules:    raw.ScoringRules,
		GeneralSettings: raw.GeneralSettings,
	}
	for _, rc := range rawCarts {
		c := rc.Cart
		if rc.RawRotationDeg == nil {
			c.RotationDeg = 0
		} else {
			c.RotationDeg = *rc.RawRotationDeg
		}
		if rc.RawKind == nil || *rc.RawKind == "" {
			c.Kind = domain.InferCartKind(c.Name)
		} else {
			c.Kind = domain.CartKind(*rc.RawKind)
		}
		doc.Carts = append(doc.Carts, c)
	}
	migrateDefaults(&doc, raw.RoomSettings)

	// Imported drawers keep their ordering but never a number below one.
	for i := range doc.Drawers {
		if doc.Drawers[i].Number < 1 {
			doc.Drawers[i].Number = 1
		}
	}
	stampMissingTimestamps(&doc, time.Now().UTC())
	return doc, nil
}

// stampMissingTimestamps backfills entity timestamps absent from documents
// saved before they were recorded.
func stampMissingTimestamps(doc *domain.Document, now time.Time) {
	stamp := func(b *domain.Base) {
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
	}
	for i := range doc.Carts {
		stamp(&doc.Carts[i].Base)
	}
	for i := range doc.Drawers {
		stamp(&doc.Drawers[i].Base)
	}
	for i := range doc.Items {
		stamp(&doc.Items[i].Base)
	}
	for i := range doc.Scenarios {
		stamp(&doc.Scenarios[i].Base)
	}
	for i := range doc.Achievements {
		stamp(&doc.Achievements[i].Base)
	}
	for i := range doc.CameraViews {
		stamp(&doc.CameraViews[i].Base)
	}
}

// migrateDefaults fills missing collections and settings blocks in place.
func migrateDefaults(doc *domain.Document, room *domain.RoomSettings) {
	if doc.Drawers == nil {
		doc.Drawers = []domain.Drawer{}
	}
	if doc.Items == nil {
		doc.Items = []domain.Item{}
	}
	if doc.Scenarios == nil {
		doc.Scenarios = []domain.Scenario{}
	}
	if doc.Achievements == nil {
		doc.Achievements = []domain.Achievement{}
	}
	if doc.CameraViews == nil {
		doc.CameraViews = []domain.CameraView{}
	}
	if room != nil {
		doc.RoomSettings = *room
	} else {
		doc.RoomSettings = DefaultRoomSettings()
	}
	if doc.RoomSettings.PixelsPerFoot <= 0 {
		doc.RoomSettings.PixelsPerFoot = DefaultRoomSettings().PixelsPerFoot
	}
	if doc.ScoringRules == nil {
		doc.ScoringRules = DefaultScoringRules()
	}
	if doc.GeneralSettings == nil {
		doc.GeneralSettings = DefaultGeneralSettings()
	}
}
