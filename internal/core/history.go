package core

import (
	"context"
	"sync"
	"time"

	"simroom/pkg/domain"

	"github.com/rs/zerolog"
)

// RecordKind labels a history record for list display and metrics.
type RecordKind string

// History record kinds. Move and update are both replayed as generic
// overwrite changes; the kind only distinguishes them for presentation.
const (
	RecordCreate RecordKind = "create"
	RecordDelete RecordKind = "delete"
	RecordMove   RecordKind = "move"
	RecordUpdate RecordKind = "update"
)

// DefaultHistoryCapacity bounds the undo stack when no capacity is configured.
const DefaultHistoryCapacity = 50

// Record is one undoable step: the changes committed by a single service
// operation, with payloads frozen at record time. A record moves between the
// undo and redo stacks and is only ever discarded by stack eviction.
type Record struct {
	Kind     RecordKind
	Entity   domain.EntityType
	EntityID string
	Label    string
	At       time.Time
	Changes  []domain.Change
}

// History replays recorded changes against the store in either direction.
// Each record is a two-state machine: applied (undo stack) or reversed (redo
// stack). Recording a fresh operation clears the redo stack; this is a linear
// history, not a tree.
type History struct {
	mu        sync.Mutex
	store     domain.PersistentStore
	log       zerolog.Logger
	capacity  int
	undo      []Record
	redo      []Record
	replaying bool
	// onReplay re-runs the full set of view resynchronizations after an
	// undo or redo, matching what the forward operation triggered.
	onReplay func()
}

// NewHistory constructs a history engine bound to the given store.
func NewHistory(store domain.PersistentStore, capacity int, log zerolog.Logger) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{store: store, capacity: capacity, log: log}
}

// SetReplayHook registers the view resynchronization callback invoked after
// every undo and redo.
func (h *History) SetReplayHook(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReplay = fn
}

// Record pushes a freshly applied operation onto the undo stack. Calls made
// while a replay is in flight are dropped: programmatic re-application of a
// mutation must not look like a new user action. Recording clears the redo
// stack and evicts the oldest entry beyond capacity.
func (h *History) Record(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.replaying {
		return
	}
	if len(rec.Changes) == 0 {
		return
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	h.undo = append(h.undo, rec)
	if len(h.undo) > h.capacity {
		h.undo = h.undo[len(h.undo)-h.capacity:]
	}
	h.redo = h.redo[:0]
}

// Undo reverses the most recent record. It reports false when the undo stack
// is empty, leaving both stacks untouched.
func (h *History) Undo(ctx context.Context) bool {
	h.mu.Lock()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return false
	}
	rec := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.mu.Unlock()

	if err := h.replay(ctx, rec, true); err != nil {
		h.log.Error().Err(err).Str("label", rec.Label).Msg("undo failed, restoring record")
		h.mu.Lock()
		h.undo = append(h.undo, rec)
		h.mu.Unlock()
		return false
	}

	h.mu.Lock()
	h.redo = append(h.redo, rec)
	h.mu.Unlock()
	return true
}

// Redo re-applies the most recently undone record. It reports false when the
// redo stack is empty.
func (h *History) Redo(ctx context.Context) bool {
	h.mu.Lock()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return false
	}
	rec := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.mu.Unlock()

	if err := h.replay(ctx, rec, false); err != nil {
		h.log.Error().Err(err).Str("label", rec.Label).Msg("redo failed, restoring record")
		h.mu.Lock()
		h.redo = append(h.redo, rec)
		h.mu.Unlock()
		return false
	}

	h.mu.Lock()
	h.undo = append(h.undo, rec)
	h.mu.Unlock()
	return true
}

// replay applies a record's changes inside a transaction. For undo the
// changes are inverted and applied newest-first so cascades unwind in the
// opposite order they were recorded. The replaying guard is cleared by defer:
// a failed apply must not wedge the engine.
func (h *History) replay(ctx context.Context, rec Record, invert bool) error {
	h.setReplaying(true)
	defer h.setReplaying(false)

	_, _, err := h.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if invert {
			for i := len(rec.Changes) - 1; i >= 0; i-- {
				if err := tx.ApplyChange(rec.Changes[i].Inverted()); err != nil {
					return err
				}
			}
			return nil
		}
		for _, change := range rec.Changes {
			if err := tx.ApplyChange(change); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	hook := h.onReplay
	h.mu.Unlock()
	if hook != nil {
		hook()
	}
	h.log.Debug().Str("label", rec.Label).Bool("invert", invert).Int("changes", len(rec.Changes)).Msg("history replay")
	return nil
}

func (h *History) setReplaying(v bool) {
	h.mu.Lock()
	h.replaying = v
	h.mu.Unlock()
}

// IsReplaying reports whether an undo or redo is currently applying.
func (h *History) IsReplaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replaying
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoLen returns the undo stack depth.
func (h *History) UndoLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoLen returns the redo stack depth.
func (h *History) RedoLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Clear drops both stacks. Used when the document is replaced wholesale by
// import or reset; records from the previous document cannot replay against
// the new one.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
