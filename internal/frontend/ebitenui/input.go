package ebitenui

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"simroom/internal/core"
	"simroom/internal/views"
	"simroom/pkg/domain"
)

// handleKeyboard dispatches editor shortcuts. Ctrl combinations cover the
// document verbs, bare keys cover creation and canvas toggles.
func (e *Editor) handleKeyboard(ctx context.Context) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ) && shift:
			e.svc.Redo(ctx)
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			e.svc.Undo(ctx)
		case inpututil.IsKeyJustPressed(ebiten.KeyY):
			e.svc.Redo(ctx)
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			if err := e.svc.Save(ctx); err == nil {
				e.svc.Events().EmitNotification(core.Notification{Level: core.NotifySuccess, Message: "Saved"})
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			e.exportToFile(ctx)
		case inpututil.IsKeyJustPressed(ebiten.KeyO):
			e.importFromFile(ctx)
		case inpututil.IsKeyJustPressed(ebiten.KeyN):
			e.confirmReset(ctx)
		}
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		sel := e.svc.Selection()
		if sel.CanvasMode() == core.ModeRoom {
			sel.SetCanvasMode(core.ModeOverview)
		} else {
			sel.SetCanvasMode(core.ModeRoom)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		sel := e.svc.Selection()
		snap := sel.Snapshot()
		sel.SetGrid(!snap.SnapToGrid, snap.GridSizeFeet)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.svc.CreateCart(ctx, domain.CartSupply)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		if kind, id := e.svc.Selection().Selected(); kind == domain.EntityCart {
			e.svc.CreateDrawer(ctx, id)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		e.svc.CreateItem(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.rotateSelectedCart(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		e.deleteSelection(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.svc.Deselect()
	}
}

// rotateSelectedCart turns the selected cart a quarter turn clockwise.
func (e *Editor) rotateSelectedCart(ctx context.Context) {
	kind, id := e.svc.Selection().Selected()
	if kind != domain.EntityCart || id == "" {
		return
	}
	cart, ok := e.svc.Store().GetCart(id)
	if !ok {
		return
	}
	e.svc.MoveCart(ctx, id, cart.X, cart.Y, cart.RotationDeg+90)
}

// deleteSelection routes the delete key to the right entity operation.
func (e *Editor) deleteSelection(ctx context.Context) {
	kind, id := e.svc.Selection().Selected()
	if id == "" {
		return
	}
	switch kind {
	case domain.EntityCart:
		e.svc.DeleteCart(ctx, id)
	case domain.EntityDrawer:
		e.svc.DeleteDrawer(ctx, id)
	case domain.EntityItem:
		e.svc.DeleteItem(ctx, id)
	case domain.EntityScenario:
		e.svc.DeleteScenario(ctx, id)
	case domain.EntityAchievement:
		e.svc.DeleteAchievement(ctx, id)
	case domain.EntityCameraView:
		e.svc.DeleteCameraView(ctx, id)
	}
}

// handleMouse drives selection and cart dragging. A press picks the topmost
// cart under the cursor and starts a drag anchored at the grab point. The
// document stays untouched while the button is held; the canvas renders the
// dragged cart at the cursor, and release commits one move, so a whole drag
// is one undo step.
func (e *Editor) handleMouse(ctx context.Context) {
	cx, cy := ebiten.CursorPosition()
	px, py := float64(cx), float64(cy)
	sel := e.svc.Selection()
	sel.SetMousePos(px, py)

	if sel.CanvasMode() != core.ModeRoom {
		return
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		doc := e.svc.Store().ExportState()
		cart, ok := views.HitTestCart(doc, px, py)
		if !ok {
			e.svc.Deselect()
			return
		}
		e.svc.SelectEntity(domain.EntityCart, cart.ID)
		room := doc.RoomSettings
		centerX := domain.NormalizedToPixels(cart.X, room.WidthFeet, room.PixelsPerFoot)
		centerY := domain.NormalizedToPixels(cart.Y, room.DepthFeet, room.PixelsPerFoot)
		sel.BeginDrag(cart.ID, px-centerX, py-centerY)
		return
	}

	if sel.DraggedCart() == "" {
		return
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		e.finishDrag(ctx, px, py)
	}
}

// finishDrag commits the drag as a single move. Grid snap and clamping
// happen in MoveCart; a release on the starting spot records nothing.
func (e *Editor) finishDrag(ctx context.Context, px, py float64) {
	sel := e.svc.Selection()
	snap := sel.Snapshot()
	sel.EndDrag()
	if snap.DraggedCartID == "" {
		return
	}
	cart, ok := e.svc.Store().GetCart(snap.DraggedCartID)
	if !ok {
		return
	}
	room := e.svc.Store().RoomSettings()
	nx := domain.PixelsToNormalized(px-snap.DragOffsetX, room.WidthFeet, room.PixelsPerFoot)
	ny := domain.PixelsToNormalized(py-snap.DragOffsetY, room.DepthFeet, room.PixelsPerFoot)
	if nx == cart.X && ny == cart.Y {
		return
	}
	e.svc.MoveCart(ctx, snap.DraggedCartID, nx, ny, cart.RotationDeg)
}
