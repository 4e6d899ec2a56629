package domain

import (
	"encoding/json"
	"testing"
)

func TestChangePayloadDeepCopies(t *testing.T) {
	raw := json.RawMessage(`{"id":"c1"}`)
	p := NewChangePayload(raw)
	raw[2] = 'X'
	if string(p.Raw()) != `{"id":"c1"}` {
		t.Fatalf("payload aliased caller bytes: %s", p.Raw())
	}
	out := p.Raw()
	out[2] = 'Y'
	if string(p.Raw()) != `{"id":"c1"}` {
		t.Fatalf("payload exposed internal bytes: %s", p.Raw())
	}
}

func TestChangePayloadFromValueSurvivesMutation(t *testing.T) {
	cart := Cart{Base: Base{ID: "c1"}, Name: "before", Kind: CartCrash}
	p, err := NewChangePayloadFromValue(cart)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cart.Name = "after"

	var decoded Cart
	if !p.Decode(&decoded) {
		t.Fatalf("decode failed")
	}
	if decoded.Name != "before" {
		t.Fatalf("payload tracked live entity: %q", decoded.Name)
	}
}

func TestUndefinedAndEmptyPayloads(t *testing.T) {
	undef := UndefinedChangePayload()
	if undef.Defined() || !undef.IsEmpty() || undef.Raw() != nil {
		t.Fatalf("undefined payload misbehaves")
	}
	empty := NewChangePayload(nil)
	if !empty.Defined() || !empty.IsEmpty() || empty.Raw() != nil {
		t.Fatalf("empty payload misbehaves")
	}
	var cart Cart
	if undef.Decode(&cart) || empty.Decode(&cart) {
		t.Fatalf("decode of empty payload should report false")
	}
}

func TestChangeInverted(t *testing.T) {
	before, _ := NewChangePayloadFromValue(Cart{Base: Base{ID: "c1"}, X: 0.2})
	after, _ := NewChangePayloadFromValue(Cart{Base: Base{ID: "c1"}, X: 0.6})

	create := Change{Entity: EntityCart, Action: ActionCreate, EntityID: "c1", After: after}
	inv := create.Inverted()
	if inv.Action != ActionDelete || !inv.Before.Defined() || inv.After.Defined() {
		t.Fatalf("inverted create wrong: %+v", inv)
	}
	if inv.Inverted().Action != ActionCreate {
		t.Fatalf("double inversion should restore action")
	}

	update := Change{Entity: EntityCart, Action: ActionUpdate, EntityID: "c1", Property: "x", Before: before, After: after}
	invU := update.Inverted()
	var got Cart
	if !invU.After.Decode(&got) || got.X != 0.2 {
		t.Fatalf("inverted update should apply old value, got %+v", got)
	}
}
