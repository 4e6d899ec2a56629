package domain

import "encoding/json"

// ChangePayload wraps a JSON snapshot of an entity's before or after state.
// Snapshots are deep, frozen-in-time copies: entities are mutated in place
// after recording, so a shallow reference would alias live state and corrupt
// history replay.
type ChangePayload struct {
	defined bool
	raw     json.RawMessage
}

// NewChangePayload builds a payload wrapper from raw JSON. The bytes are
// cloned to prevent callers from mutating shared state. Passing a nil slice
// yields a defined but empty payload; use UndefinedChangePayload for "not set".
func NewChangePayload(raw json.RawMessage) ChangePayload {
	payload := ChangePayload{defined: true}
	if raw != nil {
		payload.raw = cloneRawMessage(raw)
	}
	return payload
}

// NewChangePayloadFromValue marshals a typed value into a ChangePayload.
func NewChangePayloadFromValue[T any](value T) (ChangePayload, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return ChangePayload{}, err
	}
	return NewChangePayload(raw), nil
}

// UndefinedChangePayload returns an uninitialized payload wrapper.
func UndefinedChangePayload() ChangePayload {
	return ChangePayload{}
}

// Defined reports whether the payload has been initialized.
func (p ChangePayload) Defined() bool {
	return p.defined
}

// IsEmpty reports whether the payload contains no bytes.
func (p ChangePayload) IsEmpty() bool {
	if !p.defined {
		return true
	}
	return len(p.raw) == 0
}

// Raw returns a cloned copy of the underlying JSON bytes. Nil is returned
// when the payload is undefined or empty.
func (p ChangePayload) Raw() json.RawMessage {
	if !p.defined || len(p.raw) == 0 {
		return nil
	}
	return cloneRawMessage(p.raw)
}

// Decode unmarshals the payload into out. It reports false when the payload
// is undefined, empty, or fails to unmarshal.
func (p ChangePayload) Decode(out any) bool {
	if !p.defined || len(p.raw) == 0 {
		return false
	}
	return json.Unmarshal(p.raw, out) == nil
}

func cloneRawMessage(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	cloned := make(json.RawMessage, len(raw))
	copy(cloned, raw)
	return cloned
}

// Change describes a single entity mutation applied within a transaction.
// Before and After carry enough state to apply the mutation in either
// direction without re-deriving anything from current state, which may have
// drifted since the change was recorded.
type Change struct {
	Entity   EntityType
	Action   Action
	EntityID string
	// Property names the mutated field for update changes; empty for
	// whole-entity create/delete changes.
	Property string
	Before   ChangePayload
	After    ChangePayload
	// OrderIndex is the entity's position in its collection's insertion
	// order at record time: where it was appended for creates, where it sat
	// at the moment of removal for deletes. Replay-insert restores the
	// entity at this index so undoing a delete preserves document order,
	// which drives 2D stacking.
	OrderIndex int
}

// Inverted returns the change with direction reversed: creates become
// deletes, deletes become creates, and updates swap their payloads.
func (c Change) Inverted() Change {
	inv := Change{Entity: c.Entity, EntityID: c.EntityID, Property: c.Property, Before: c.After, After: c.Before, OrderIndex: c.OrderIndex}
	switch c.Action {
	case ActionCreate:
		inv.Action = ActionDelete
	case ActionDelete:
		inv.Action = ActionCreate
	default:
		inv.Action = ActionUpdate
	}
	return inv
}
