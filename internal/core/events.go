package core

import "sync"

// Events is the explicit port between the mutation layer and the renderers:
// consuming views register against named callback slots instead of probing
// for functions in ambient scope. Callbacks run synchronously on the calling
// goroutine.
type Events struct {
	mu                 sync.Mutex
	onEntitiesChanged  []func()
	onSelectionChanged []func()
	onNotification     []func(Notification)
}

// NotificationLevel categorizes a transient user-facing message.
type NotificationLevel string

// Notification levels.
const (
	NotifySuccess NotificationLevel = "success"
	NotifyInfo    NotificationLevel = "info"
	NotifyError   NotificationLevel = "error"
)

// Notification is a toast-style message with a short display lifetime.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// NewEvents constructs an empty event registry.
func NewEvents() *Events {
	return &Events{}
}

// OnEntitiesChanged registers a callback fired after any document mutation,
// including history replay. Renderers rebuild their full output here; they
// must be idempotent since no minimal diff is computed.
func (e *Events) OnEntitiesChanged(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEntitiesChanged = append(e.onEntitiesChanged, fn)
}

// OnSelectionChanged registers a callback fired when the selection cursor
// moves.
func (e *Events) OnSelectionChanged(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSelectionChanged = append(e.onSelectionChanged, fn)
}

// OnNotification registers a callback receiving transient user messages.
func (e *Events) OnNotification(fn func(Notification)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onNotification = append(e.onNotification, fn)
}

// EmitEntitiesChanged fires the entities-changed slot.
func (e *Events) EmitEntitiesChanged() {
	e.mu.Lock()
	fns := append([]func(){}, e.onEntitiesChanged...)
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// EmitSelectionChanged fires the selection-changed slot.
func (e *Events) EmitSelectionChanged() {
	e.mu.Lock()
	fns := append([]func(){}, e.onSelectionChanged...)
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// EmitNotification fires the notification slot.
func (e *Events) EmitNotification(n Notification) {
	e.mu.Lock()
	fns := append([]func(Notification){}, e.onNotification...)
	e.mu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}
