package ebitenui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"simroom/internal/core"
	"simroom/internal/views"
)

// Draw renders one frame: the canvas (room or overview), the hierarchy panel
// on the right, the status bar, and any live toasts on top.
func (e *Editor) Draw(screen *ebiten.Image) {
	doc := e.svc.Store().ExportState()
	sel := e.svc.Selection().Snapshot()

	screen.Fill(color.RGBA{R: 0x20, G: 0x22, B: 0x28, A: 0xff})

	if sel.CanvasMode == core.ModeOverview {
		e.drawOverview(screen, views.BuildOverview(doc))
	} else {
		e.drawCanvas(screen, views.BuildCanvas(doc, sel))
		e.drawSceneInset(screen, views.BuildScene(doc, sel, e.anim))
	}
	e.drawTree(screen, views.BuildTree(doc, sel))
	e.drawStatus(screen, sel)
	e.drawToasts(screen)
}

func (e *Editor) drawCanvas(screen *ebiten.Image, frame views.CanvasFrame) {
	vector.DrawFilledRect(screen, 0, 0, float32(frame.WidthPx), float32(frame.HeightPx), parseHexColor(frame.Background), false)

	gridColor := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x28}
	for _, g := range frame.Grid {
		vector.StrokeLine(screen, float32(g.X1), float32(g.Y1), float32(g.X2), float32(g.Y2), 1, gridColor, false)
	}

	for _, cart := range frame.Carts {
		// quarter turns are folded into the rect by the canvas builder
		x, y, w, h := cart.X, cart.Y, cart.W, cart.H
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), parseHexColor(cart.Color), false)
		if cart.Selected {
			vector.StrokeRect(screen, float32(x)-2, float32(y)-2, float32(w)+4, float32(h)+4, 2, color.RGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0xff}, false)
		}
		label := cart.Label
		if cart.IsInventory {
			label += " [inv]"
		}
		ebitenutil.DebugPrintAt(screen, label, int(x)+4, int(y)+4)
	}

	for i, line := range frame.Overlay {
		ebitenutil.DebugPrintAt(screen, line, 8, int(frame.HeightPx)-16*(len(frame.Overlay)-i)-8)
	}
}

func (e *Editor) drawOverview(screen *ebiten.Image, counts views.OverviewCounts) {
	lines := []string{
		"Overview",
		"",
		fmt.Sprintf("Carts         %d", counts.Carts),
		fmt.Sprintf("Drawers       %d", counts.Drawers),
		fmt.Sprintf("Items         %d", counts.Items),
		fmt.Sprintf("Scenarios     %d", counts.Scenarios),
		fmt.Sprintf("Achievements  %d", counts.Achievements),
		fmt.Sprintf("Camera views  %d", counts.CameraViews),
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 16, 16+16*i)
	}
}

func (e *Editor) drawTree(screen *ebiten.Image, nodes []views.TreeNode) {
	panelX := e.cfg.Width - treePanelWidth
	vector.DrawFilledRect(screen, float32(panelX), 0, float32(treePanelWidth), float32(e.cfg.Height), color.RGBA{R: 0x16, G: 0x18, B: 0x1d, A: 0xf0}, false)
	for i, node := range nodes {
		y := 8 + 16*i
		if y > e.cfg.Height-statusBarHeight-16 {
			break
		}
		marker := "  "
		if node.Selected {
			marker = "> "
		}
		ebitenutil.DebugPrintAt(screen, marker+strings.Repeat("  ", node.Depth)+node.Label, panelX+8, y)
	}
}

// drawSceneInset renders a side elevation of the 3D scene in the bottom-left
// corner: carts as boxes with their drawer slabs, the selected drawer sliding
// out by its animated offset.
func (e *Editor) drawSceneInset(screen *ebiten.Image, frame views.SceneFrame) {
	const insetW, insetH = 260.0, 140.0
	if frame.RoomSize.X <= 0 || frame.RoomSize.Y <= 0 {
		return
	}
	insetX := 8.0
	insetY := float64(e.cfg.Height) - statusBarHeight - insetH - 8

	vector.DrawFilledRect(screen, float32(insetX), float32(insetY), insetW, insetH, color.RGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xd0}, false)
	vector.StrokeRect(screen, float32(insetX), float32(insetY), insetW, insetH, 1, color.RGBA{R: 0x50, G: 0x55, B: 0x60, A: 0xff}, false)

	scaleX := insetW / frame.RoomSize.X
	scaleY := insetH / frame.RoomSize.Y
	floorY := insetY + insetH

	// world X is measured in feet from the room center
	toPx := func(worldX float64) float64 {
		return insetX + (worldX+frame.RoomSize.X/2)*scaleX
	}

	for _, cart := range frame.Carts {
		cx := toPx(cart.Box.Center.X - cart.Box.Size.X/2)
		cw := cart.Box.Size.X * scaleX
		ch := cart.Box.Size.Y * scaleY
		cy := floorY - (cart.Box.Center.Y+cart.Box.Size.Y/2)*scaleY
		vector.DrawFilledRect(screen, float32(cx), float32(cy), float32(cw), float32(ch), parseHexColor(cart.Color), false)
		if cart.Selected {
			vector.StrokeRect(screen, float32(cx)-1, float32(cy)-1, float32(cw)+2, float32(ch)+2, 1, color.RGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0xff}, false)
		}
		for _, d := range cart.Drawers {
			dx := toPx(d.Box.Center.X-d.Box.Size.X/2) + d.OpenOffset*scaleX
			dw := d.Box.Size.X * scaleX
			dh := d.Box.Size.Y * scaleY
			dy := floorY - (d.Box.Center.Y+d.Box.Size.Y/2)*scaleY
			slab := color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x50}
			if d.Selected {
				slab = color.RGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0x90}
			}
			vector.DrawFilledRect(screen, float32(dx), float32(dy), float32(dw), float32(dh), slab, false)
		}
	}
}

func (e *Editor) drawStatus(screen *ebiten.Image, sel core.SelectionSnapshot) {
	h := e.svc.History()
	parts := []string{string(sel.CanvasMode)}
	if sel.SnapToGrid {
		parts = append(parts, fmt.Sprintf("grid %.0fft", sel.GridSizeFeet))
	}
	parts = append(parts, fmt.Sprintf("undo %d / redo %d", h.UndoLen(), h.RedoLen()))
	if sel.Unsaved {
		parts = append(parts, "unsaved*")
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(parts, "  |  "), 8, e.cfg.Height-statusBarHeight)
}

func (e *Editor) drawToasts(screen *ebiten.Image) {
	toasts := e.activeToasts()
	for i, t := range toasts {
		y := 8 + 20*i
		bg := color.RGBA{R: 0x37, G: 0x3b, B: 0x45, A: 0xe0}
		switch t.level {
		case core.NotifySuccess:
			bg = color.RGBA{R: 0x1f, G: 0x5e, B: 0x2e, A: 0xe0}
		case core.NotifyError:
			bg = color.RGBA{R: 0x6e, G: 0x20, B: 0x20, A: 0xe0}
		}
		w := float32(8*len(t.message) + 16)
		vector.DrawFilledRect(screen, 8, float32(y), w, 18, bg, false)
		ebitenutil.DebugPrintAt(screen, t.message, 16, y+2)
	}
}
