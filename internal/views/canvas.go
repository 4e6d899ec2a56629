// Package views builds display lists from the scene document and selection
// state. Every builder here is a pure function of its inputs: renderers call
// them on change notifications and draw the result, never the reverse.
package views

import (
	"fmt"

	"simroom/internal/core"
	"simroom/pkg/domain"
)

// CartRect is a cart's axis-aligned footprint on the 2D canvas, in pixels.
// Quarter turns are already folded into the rect's sides; RotationDeg is
// carried for display only.
type CartRect struct {
	CartID      string
	X, Y        float64 // top-left
	W, H        float64
	RotationDeg float64
	Color       string
	Label       string
	Selected    bool
	IsInventory bool
}

// GridLine is one grid line on the canvas, in pixels.
type GridLine struct {
	X1, Y1, X2, Y2 float64
}

// CanvasFrame is everything the 2D renderer draws for one frame of room mode.
// Carts appear in document order; later entries stack on top.
type CanvasFrame struct {
	WidthPx, HeightPx float64
	Background        string
	Grid              []GridLine
	Carts             []CartRect
	// Overlay lines describe the selected cart, empty without a selection.
	Overlay []string
}

// cartFootprintPx returns a cart's footprint rectangle in canvas pixels,
// centered on its normalized position. The footprint stays axis-aligned;
// quarter turns swap the sides around the center. Hit-testing and rendering
// share this single definition, so a painted pixel is always a clickable
// pixel.
func cartFootprintPx(cart domain.Cart, room domain.RoomSettings) (x, y, w, h float64) {
	d := domain.DefaultsFor(cart.Kind)
	w = domain.FeetToPixels(d.WidthFeet, room.PixelsPerFoot)
	h = domain.FeetToPixels(d.DepthFeet, room.PixelsPerFoot)
	if quarterTurn(cart.RotationDeg) {
		w, h = h, w
	}
	cx := domain.NormalizedToPixels(cart.X, room.WidthFeet, room.PixelsPerFoot)
	cy := domain.NormalizedToPixels(cart.Y, room.DepthFeet, room.PixelsPerFoot)
	return cx - w/2, cy - h/2, w, h
}

// quarterTurn reports whether the rotation leaves the footprint sideways.
func quarterTurn(deg float64) bool {
	d := int(deg) % 180
	if d < 0 {
		d += 180
	}
	return d == 90
}

// BuildCanvas produces the room-mode display list.
func BuildCanvas(doc domain.Document, sel core.SelectionSnapshot) CanvasFrame {
	room := doc.RoomSettings
	frame := CanvasFrame{
		WidthPx:    domain.FeetToPixels(room.WidthFeet, room.PixelsPerFoot),
		HeightPx:   domain.FeetToPixels(room.DepthFeet, room.PixelsPerFoot),
		Background: room.BackgroundColor,
	}
	if sel.SnapToGrid && sel.GridSizeFeet > 0 {
		step := domain.FeetToPixels(sel.GridSizeFeet, room.PixelsPerFoot)
		for x := step; x < frame.WidthPx; x += step {
			frame.Grid = append(frame.Grid, GridLine{X1: x, Y1: 0, X2: x, Y2: frame.HeightPx})
		}
		for y := step; y < frame.HeightPx; y += step {
			frame.Grid = append(frame.Grid, GridLine{X1: 0, Y1: y, X2: frame.WidthPx, Y2: y})
		}
	}
	for _, cart := range doc.Carts {
		x, y, w, h := cartFootprintPx(cart, room)
		if sel.DraggedCartID == cart.ID {
			// A live drag follows the cursor without touching the
			// document; the move commits on release.
			x = sel.MouseX - sel.DragOffsetX - w/2
			y = sel.MouseY - sel.DragOffsetY - h/2
		}
		selected := sel.SelectedKind == domain.EntityCart && sel.SelectedID == cart.ID
		frame.Carts = append(frame.Carts, CartRect{
			CartID:      cart.ID,
			X:           x,
			Y:           y,
			W:           w,
			H:           h,
			RotationDeg: cart.RotationDeg,
			Color:       cart.Color,
			Label:       cart.Name,
			Selected:    selected,
			IsInventory: cart.IsInventory,
		})
		if selected {
			frame.Overlay = []string{
				cart.Name,
				fmt.Sprintf("kind: %s", cart.Kind),
				fmt.Sprintf("pos: %.2f, %.2f", cart.X, cart.Y),
				fmt.Sprintf("rot: %.0f°", cart.RotationDeg),
			}
		}
	}
	return frame
}

// HitTestCart returns the topmost cart under the given canvas pixel, honoring
// document stacking order (later carts draw on top, so they are tested
// first). The footprint is the same one the renderer draws, quarter turns
// included.
func HitTestCart(doc domain.Document, px, py float64) (domain.Cart, bool) {
	for i := len(doc.Carts) - 1; i >= 0; i-- {
		cart := doc.Carts[i]
		x, y, w, h := cartFootprintPx(cart, doc.RoomSettings)
		if px >= x && px <= x+w && py >= y && py <= y+h {
			return cart, true
		}
	}
	return domain.Cart{}, false
}

// OverviewCounts is the overview-mode dashboard content.
type OverviewCounts struct {
	Carts        int
	Drawers      int
	Items        int
	Scenarios    int
	Achievements int
	CameraViews  int
}

// BuildOverview produces the overview-mode entity dashboard.
func BuildOverview(doc domain.Document) OverviewCounts {
	return OverviewCounts{
		Carts:        len(doc.Carts),
		Drawers:      len(doc.Drawers),
		Items:        len(doc.Items),
		Scenarios:    len(doc.Scenarios),
		Achievements: len(doc.Achievements),
		CameraViews:  len(doc.CameraViews),
	}
}
