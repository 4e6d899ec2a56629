package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshotter is implemented by stores that write a durable snapshot on
// demand and can say whether one exists. The in-memory store does not; the
// sqlite and postgres stores do.
type Snapshotter interface {
	Persist(ctx context.Context) error
	HasSnapshot() bool
}

// Load initializes the document: stores that already carry a saved snapshot
// keep it, fresh stores get the hardcoded default scene. Durable stores
// answer directly whether a snapshot exists, so a saved document holding
// only scenarios, achievements, or cameras is never mistaken for a fresh
// one. Stores without snapshots fall back to an emptiness check.
func (s *Service) Load(ctx context.Context) error {
	doc := s.store.ExportState()
	saved := len(doc.Carts) > 0 || len(doc.Drawers) > 0 || len(doc.Items) > 0
	if sn, ok := s.store.(Snapshotter); ok {
		saved = sn.HasSnapshot()
	}
	if saved {
		s.log.Info().Int("carts", len(doc.Carts)).Msg("loaded existing document")
		return nil
	}
	s.store.ImportState(DefaultDocument())
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("persist default document: %w", err)
	}
	s.log.Info().Msg("initialized default document")
	s.events.EmitEntitiesChanged()
	return nil
}

// Export serializes the current document to pretty-printed JSON and returns
// it with a timestamped filename.
func (s *Service) Export(ctx context.Context) ([]byte, string, error) {
	done := s.beginOp(ctx, "export")
	doc := s.store.ExportState()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		done(false)
		return nil, "", fmt.Errorf("encode document: %w", err)
	}
	name := "room-" + time.Now().Format("20060102-150405") + ".json"
	done(true)
	return data, name, nil
}

// Import migrates the given JSON document and replaces the live document
// wholesale. On a validation error the live document is untouched. A
// successful import persists, clears history and selection, and triggers
// full view resynchronization.
func (s *Service) Import(ctx context.Context, data []byte) error {
	done := s.beginOp(ctx, "import")
	doc, err := MigrateDocument(data)
	if err != nil {
		done(false)
		s.fail("import document", err)
		return err
	}

	s.importing.Store(true)
	defer s.importing.Store(false)

	s.store.ImportState(doc)
	if err := s.persist(ctx); err != nil {
		done(false)
		s.fail("persist imported document", err)
		return err
	}
	s.history.Clear()
	s.Deselect()
	s.selection.ClearUnsaved()
	s.events.EmitEntitiesChanged()
	s.notify("Document imported")
	done(true)
	return nil
}

// Reset wipes persisted storage and reloads the hardcoded default document.
// Callers must have confirmed the action with the author first.
func (s *Service) Reset(ctx context.Context) error {
	done := s.beginOp(ctx, "reset")

	s.importing.Store(true)
	defer s.importing.Store(false)

	if err := s.store.Wipe(ctx); err != nil {
		done(false)
		s.fail("reset document", err)
		return err
	}
	s.store.ImportState(DefaultDocument())
	if err := s.persist(ctx); err != nil {
		done(false)
		s.fail("persist default document", err)
		return err
	}
	s.history.Clear()
	s.Deselect()
	s.selection.ClearUnsaved()
	s.events.EmitEntitiesChanged()
	s.notify("Document reset")
	done(true)
	return nil
}

// Save writes a durable snapshot and clears the unsaved flag.
func (s *Service) Save(ctx context.Context) error {
	done := s.beginOp(ctx, "save")
	if err := s.persist(ctx); err != nil {
		done(false)
		s.fail("save document", err)
		return err
	}
	s.selection.ClearUnsaved()
	done(true)
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	if sn, ok := s.store.(Snapshotter); ok {
		return sn.Persist(ctx)
	}
	return nil
}

// Autosaver periodically saves the document while unsaved changes exist.
// Saves are suppressed mid-import so a partially swapped document is never
// snapshotted.
type Autosaver struct {
	service  *Service
	interval time.Duration
}

// NewAutosaver builds an autosaver; a non-positive interval defaults to five
// seconds.
func NewAutosaver(s *Service, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Autosaver{service: s, interval: interval}
}

// Run ticks until the context is cancelled.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

func (a *Autosaver) tick(ctx context.Context) {
	if a.service.importing.Load() || !a.service.selection.Unsaved() {
		return
	}
	if err := a.service.persist(ctx); err != nil {
		a.service.log.Warn().Err(err).Msg("autosave failed")
		return
	}
	a.service.selection.ClearUnsaved()
	a.service.log.Debug().Msg("autosaved")
}
