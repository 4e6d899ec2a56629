package core

import (
	"sync"

	"simroom/pkg/domain"
)

// CanvasMode selects which 2D surface the canvas renders.
type CanvasMode string

// Canvas modes. Room shows the positioned carts; overview shows the
// entity-count dashboard.
const (
	ModeRoom     CanvasMode = "room"
	ModeOverview CanvasMode = "overview"
)

// SelectionSnapshot is an immutable copy of the transient editor cursor,
// consumed by view synchronizers.
type SelectionSnapshot struct {
	SelectedKind  domain.EntityType
	SelectedID    string
	CanvasMode    CanvasMode
	DraggedCartID string
	// DragOffsetX/Y anchor the grab point relative to the dragged cart's
	// center, in canvas pixels.
	DragOffsetX  float64
	DragOffsetY  float64
	MouseX       float64
	MouseY       float64
	Unsaved      bool
	SnapToGrid   bool
	GridSizeFeet float64
}

// HasSelection reports whether an entity is selected.
func (s SelectionSnapshot) HasSelection() bool {
	return s.SelectedID != ""
}

// Selection is the transient, never-persisted cursor over the document:
// selected entity, canvas mode, drag target, and grid settings.
type Selection struct {
	mu    sync.Mutex
	state SelectionSnapshot
}

// NewSelection constructs a selection cursor with room mode and a 1ft grid.
func NewSelection() *Selection {
	return &Selection{state: SelectionSnapshot{CanvasMode: ModeRoom, GridSizeFeet: 1}}
}

// Snapshot returns a copy of the current selection state.
func (s *Selection) Snapshot() SelectionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select sets the selected kind and id atomically. Selecting the same entity
// again is a no-op.
func (s *Selection) Select(kind domain.EntityType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedKind = kind
	s.state.SelectedID = id
}

// Deselect clears both selection fields atomically.
func (s *Selection) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedKind = ""
	s.state.SelectedID = ""
}

// Selected returns the selected kind and id.
func (s *Selection) Selected() (domain.EntityType, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedKind, s.state.SelectedID
}

// IsSelected reports whether the given entity is the current selection.
func (s *Selection) IsSelected(kind domain.EntityType, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedKind == kind && s.state.SelectedID == id
}

// SetCanvasMode switches between room and overview rendering.
func (s *Selection) SetCanvasMode(mode CanvasMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CanvasMode = mode
}

// CanvasMode returns the active canvas mode.
func (s *Selection) CanvasMode() CanvasMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CanvasMode
}

// BeginDrag marks a cart as the active drag target and anchors the grab
// point. The document is not touched while the drag is live; the canvas
// renders the dragged cart at the cursor and a single move commits on
// release.
func (s *Selection) BeginDrag(cartID string, offX, offY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DraggedCartID = cartID
	s.state.DragOffsetX = offX
	s.state.DragOffsetY = offY
}

// EndDrag clears the drag target and its grab anchor.
func (s *Selection) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DraggedCartID = ""
	s.state.DragOffsetX = 0
	s.state.DragOffsetY = 0
}

// DraggedCart returns the active drag target, or "".
func (s *Selection) DraggedCart() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DraggedCartID
}

// SetMousePos records the last observed pointer position in canvas pixels.
func (s *Selection) SetMousePos(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MouseX = x
	s.state.MouseY = y
}

// MarkUnsaved flags the document as having changes the autosaver should
// persist.
func (s *Selection) MarkUnsaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Unsaved = true
}

// ClearUnsaved resets the unsaved flag after a successful save.
func (s *Selection) ClearUnsaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Unsaved = false
}

// Unsaved reports whether unsaved changes exist.
func (s *Selection) Unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Unsaved
}

// SetGrid configures snap-to-grid and the grid step in feet.
func (s *Selection) SetGrid(snap bool, sizeFeet float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SnapToGrid = snap
	if sizeFeet > 0 {
		s.state.GridSizeFeet = sizeFeet
	}
}
