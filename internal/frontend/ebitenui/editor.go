// Package ebitenui is the desktop shell around the editor service: an
// ebiten game loop that feeds pointer and keyboard input into service
// operations and draws the display lists produced by the views package.
// It owns no document state of its own.
package ebitenui

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"simroom/internal/core"
	"simroom/internal/views"
	"simroom/pkg/domain"
)

const (
	toastLifetime   = 3 * time.Second
	drawerOpenFeet  = 1.2
	treePanelWidth  = 280
	statusBarHeight = 16
)

// Config sizes the window and names it.
type Config struct {
	Title  string
	Width  int
	Height int
}

type toast struct {
	level   core.NotificationLevel
	message string
	until   time.Time
}

// Editor implements ebiten.Game on top of a Service. All document reads go
// through ExportState snapshots; all writes go through service operations so
// that history, rules, and persistence stay in one place.
type Editor struct {
	svc    *core.Service
	cfg    Config
	logger zerolog.Logger

	anim *views.DrawerAnimator

	openDrawerID string

	// reset is a two-press action; the first press arms it briefly
	resetArmedUntil time.Time

	mu     sync.Mutex
	toasts []toast

	now func() time.Time
}

// New wires an editor shell to the service and subscribes to its toast
// notifications.
func New(svc *core.Service, cfg Config, logger zerolog.Logger) *Editor {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Title == "" {
		cfg.Title = "Room Editor"
	}
	ed := &Editor{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		anim:   views.NewDrawerAnimator(),
		now:    time.Now,
	}
	svc.Events().OnNotification(ed.pushToast)
	return ed
}

// Run opens the window and blocks until the user closes it.
func (e *Editor) Run() error {
	ebiten.SetWindowSize(e.cfg.Width, e.cfg.Height)
	ebiten.SetWindowTitle(e.cfg.Title)
	return ebiten.RunGame(e)
}

// Update advances one tick: input first, then the drawer animation.
func (e *Editor) Update() error {
	ctx := context.Background()
	e.handleKeyboard(ctx)
	e.handleMouse(ctx)
	e.syncDrawerAnimation()
	e.anim.Step(1.0 / float64(ebiten.TPS()))
	e.pruneToasts()
	return nil
}

// Layout reports the fixed logical resolution.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	return e.cfg.Width, e.cfg.Height
}

// syncDrawerAnimation opens the selected drawer and closes whichever drawer
// was open before. Selecting anything that is not a drawer closes all.
func (e *Editor) syncDrawerAnimation() {
	sel := e.svc.Selection().Snapshot()
	target := ""
	if sel.SelectedKind == domain.EntityDrawer {
		target = sel.SelectedID
	}
	if target == e.openDrawerID {
		return
	}
	if e.openDrawerID != "" {
		e.anim.SetOpen(e.openDrawerID, false, drawerOpenFeet)
	}
	if target != "" {
		e.anim.SetOpen(target, true, drawerOpenFeet)
	}
	e.openDrawerID = target
}

func (e *Editor) pushToast(n core.Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toasts = append(e.toasts, toast{level: n.Level, message: n.Message, until: e.now().Add(toastLifetime)})
	if len(e.toasts) > 5 {
		e.toasts = e.toasts[len(e.toasts)-5:]
	}
}

func (e *Editor) pruneToasts() {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	kept := e.toasts[:0]
	for _, t := range e.toasts {
		if t.until.After(now) {
			kept = append(kept, t)
		}
	}
	e.toasts = kept
}

func (e *Editor) activeToasts() []toast {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]toast, len(e.toasts))
	copy(out, e.toasts)
	return out
}

// exportToFile writes the current document next to the working directory and
// reports the outcome as a toast.
func (e *Editor) exportToFile(ctx context.Context) {
	data, name, err := e.svc.Export(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("export failed")
		return
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		e.logger.Error().Err(err).Str("file", name).Msg("export write failed")
		e.svc.Events().EmitNotification(core.Notification{Level: core.NotifyError, Message: fmt.Sprintf("export: %v", err)})
		return
	}
	e.svc.Events().EmitNotification(core.Notification{Level: core.NotifySuccess, Message: "Exported " + name})
}

// importFile is the fixed pickup path for Ctrl+O imports.
const importFile = "room-import.json"

// importFromFile loads room-import.json from the working directory. A
// migration failure leaves the current document untouched and the service
// reports it as an error toast.
func (e *Editor) importFromFile(ctx context.Context) {
	data, err := os.ReadFile(importFile)
	if err != nil {
		e.svc.Events().EmitNotification(core.Notification{Level: core.NotifyError, Message: fmt.Sprintf("import: %v", err)})
		return
	}
	e.svc.Import(ctx, data)
}

// confirmReset arms the reset on first invocation and performs it when
// invoked again while armed.
func (e *Editor) confirmReset(ctx context.Context) {
	now := e.now()
	if now.Before(e.resetArmedUntil) {
		e.resetArmedUntil = time.Time{}
		e.svc.Reset(ctx)
		return
	}
	e.resetArmedUntil = now.Add(toastLifetime)
	e.svc.Events().EmitNotification(core.Notification{Level: core.NotifyInfo, Message: "Press Ctrl+N again to reset the document"})
}
