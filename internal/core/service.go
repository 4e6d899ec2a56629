package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"simroom/pkg/domain"

	"github.com/rs/zerolog"
)

// ImageStore abstracts the blob backend holding item image attachments.
// internal/blob provides memory, filesystem, and S3 implementations.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// MetricsRecorder observes service operation outcomes.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// ServiceConfig bundles the collaborators a Service needs beyond its store.
// Zero fields fall back to working defaults.
type ServiceConfig struct {
	HistoryCapacity int
	Logger          zerolog.Logger
	Metrics         MetricsRecorder
	Images          ImageStore
}

// Service exposes the entity managers: every document mutation flows through
// it. Each operation mutates the store transactionally, records a history
// entry unless a replay is in flight, flags unsaved changes, and notifies the
// registered view synchronizers. There is exactly one definition per
// operation; renderers never mutate and managers never render.
type Service struct {
	store     domain.PersistentStore
	history   *History
	selection *Selection
	events    *Events
	images    ImageStore
	metrics   MetricsRecorder
	log       zerolog.Logger
	importing atomic.Bool
}

// NewService constructs a service over the given store and wires the history
// engine's replay hook to the entities-changed slot, so undo and redo trigger
// the same view resynchronization as forward operations.
func NewService(store domain.PersistentStore, cfg ServiceConfig) *Service {
	s := &Service{
		store:     store,
		history:   NewHistory(store, cfg.HistoryCapacity, cfg.Logger),
		selection: NewSelection(),
		events:    NewEvents(),
		images:    cfg.Images,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
	}
	s.history.SetReplayHook(func() {
		s.selection.MarkUnsaved()
		s.events.EmitEntitiesChanged()
	})
	return s
}

// Store returns the underlying document store.
func (s *Service) Store() domain.PersistentStore { return s.store }

// History returns the undo/redo engine.
func (s *Service) History() *History { return s.history }

// Selection returns the transient selection cursor.
func (s *Service) Selection() *Selection { return s.selection }

// Events returns the view-synchronization callback registry.
func (s *Service) Events() *Events { return s.events }

// Undo reverses the latest operation and reports whether anything changed.
func (s *Service) Undo(ctx context.Context) bool {
	done := s.beginOp(ctx, "undo")
	ok := s.history.Undo(ctx)
	done(ok)
	return ok
}

// Redo re-applies the latest undone operation.
func (s *Service) Redo(ctx context.Context) bool {
	done := s.beginOp(ctx, "redo")
	ok := s.history.Redo(ctx)
	done(ok)
	return ok
}

// SelectEntity moves the selection cursor and notifies listeners.
func (s *Service) SelectEntity(kind domain.EntityType, id string) {
	s.selection.Select(kind, id)
	s.events.EmitSelectionChanged()
}

// Deselect clears the selection cursor and notifies listeners.
func (s *Service) Deselect() {
	s.selection.Deselect()
	s.events.EmitSelectionChanged()
}

// beginOp starts a timed metrics span for an operation.
func (s *Service) beginOp(ctx context.Context, operation string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		if s.metrics != nil {
			s.metrics.Observe(ctx, operation, success, time.Since(start))
		}
	}
}

// commit finalizes a successful mutation: history, dirty flag, notification.
func (s *Service) commit(rec Record) {
	s.history.Record(rec)
	s.selection.MarkUnsaved()
	s.events.EmitEntitiesChanged()
}

// fail logs an operation error and emits an error toast.
func (s *Service) fail(what string, err error) {
	s.log.Error().Err(err).Msg(what)
	s.events.EmitNotification(Notification{Level: NotifyError, Message: fmt.Sprintf("%s: %v", what, err)})
}

// notify emits a success toast.
func (s *Service) notify(msg string) {
	s.events.EmitNotification(Notification{Level: NotifySuccess, Message: msg})
}

// deselectIfCurrent clears the selection when it points at the entity being
// deleted. Selection must never be left pointing at a removed entity.
func (s *Service) deselectIfCurrent(kind domain.EntityType, id string) {
	if s.selection.IsSelected(kind, id) {
		s.Deselect()
	}
}

// resolveID returns the explicit id when given, otherwise the current
// selection if it matches the expected kind. Empty means "nothing to do".
func (s *Service) resolveID(kind domain.EntityType, id string) string {
	if id != "" {
		return id
	}
	selKind, selID := s.selection.Selected()
	if selKind == kind {
		return selID
	}
	return ""
}
