package core

import (
	"context"
	"fmt"
	"math"

	"simroom/pkg/domain"
)

// CreateCart inserts a cart of the given kind at the room center, applying
// the kind's default name and color, and selects it.
func (s *Service) CreateCart(ctx context.Context, kind domain.CartKind) (domain.Cart, error) {
	done := s.beginOp(ctx, "create_cart")
	defaults := domain.DefaultsFor(kind)
	var created domain.Cart
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateCart(domain.Cart{
			Name:  defaults.Name,
			Kind:  kind,
			Color: defaults.Color,
			X:     0.5,
			Y:     0.5,
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("create cart", err)
		return domain.Cart{}, err
	}
	s.commit(Record{Kind: RecordCreate, Entity: domain.EntityCart, EntityID: created.ID, Label: "Create " + created.Name, Changes: changes})
	s.SelectEntity(domain.EntityCart, created.ID)
	done(true)
	return created, nil
}

// UpdateCartProperty sets one cart field by name. An empty id targets the
// current selection; a missing cart is a no-op. Changing the kind overwrites
// the cart's name and color with the new kind's defaults — the creation flow
// depends on this even though it discards author customization.
func (s *Service) UpdateCartProperty(ctx context.Context, id, property string, value any) error {
	id = s.resolveID(domain.EntityCart, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetCart(id); !ok {
		s.log.Debug().Str("cart", id).Msg("update of missing cart ignored")
		return nil
	}
	done := s.beginOp(ctx, "update_cart")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateCart(id, func(c *domain.Cart) error {
			return applyCartProperty(c, property, value)
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update cart", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityCart, EntityID: id, Label: "Edit cart " + property, Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = property
	}
	s.commit(rec)
	done(true)
	return nil
}

func applyCartProperty(c *domain.Cart, property string, value any) error {
	switch property {
	case "name":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("cart name must be a string")
		}
		c.Name = v
	case "kind":
		kind, err := coerceCartKind(value)
		if err != nil {
			return err
		}
		defaults := domain.DefaultsFor(kind)
		c.Kind = kind
		c.Name = defaults.Name
		c.Color = defaults.Color
	case "color":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("cart color must be a hex string")
		}
		c.Color = v
	case "x":
		v, err := coerceFloat(value)
		if err != nil {
			return fmt.Errorf("cart x: %w", err)
		}
		c.X = v
	case "y":
		v, err := coerceFloat(value)
		if err != nil {
			return fmt.Errorf("cart y: %w", err)
		}
		c.Y = v
	case "rotationDeg":
		v, err := coerceFloat(value)
		if err != nil {
			return fmt.Errorf("cart rotation: %w", err)
		}
		c.RotationDeg = normalizeDegrees(v)
	case "isInventory":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("cart isInventory must be a bool")
		}
		c.IsInventory = v
	default:
		return fmt.Errorf("unknown cart property %q", property)
	}
	return nil
}

func coerceCartKind(value any) (domain.CartKind, error) {
	switch v := value.(type) {
	case domain.CartKind:
		return v, nil
	case string:
		return domain.CartKind(v), nil
	default:
		return "", fmt.Errorf("cart kind must be a string")
	}
}

func coerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// MoveCart places a cart at an absolute normalized position, clamping to the
// interactive inset and applying grid snap when enabled. Drag handlers call
// this once on release with the absolute target, never a delta, so a whole
// drag is a single history record.
func (s *Service) MoveCart(ctx context.Context, id string, x, y, rotationDeg float64) error {
	id = s.resolveID(domain.EntityCart, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetCart(id); !ok {
		s.log.Debug().Str("cart", id).Msg("move of missing cart ignored")
		return nil
	}
	done := s.beginOp(ctx, "move_cart")
	sel := s.selection.Snapshot()
	room := s.store.RoomSettings()
	if sel.SnapToGrid {
		x = domain.SnapNormalized(x, room.WidthFeet, sel.GridSizeFeet)
		y = domain.SnapNormalized(y, room.DepthFeet, sel.GridSizeFeet)
	}
	x = domain.ClampCartPosition(x)
	y = domain.ClampCartPosition(y)
	rotationDeg = normalizeDegrees(rotationDeg)

	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateCart(id, func(c *domain.Cart) error {
			c.X = x
			c.Y = y
			c.RotationDeg = rotationDeg
			return nil
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("move cart", err)
		return err
	}
	s.commit(Record{Kind: RecordMove, Entity: domain.EntityCart, EntityID: id, Label: "Move cart", Changes: changes})
	done(true)
	return nil
}

// DeleteCart removes a cart and its drawers. The cascade is captured in the
// history record so one undo restores the cart and every drawer with
// identical field values. The selection is cleared first when it points at
// the doomed cart or one of its drawers.
func (s *Service) DeleteCart(ctx context.Context, id string) error {
	id = s.resolveID(domain.EntityCart, id)
	if id == "" {
		return nil
	}
	cart, ok := s.store.GetCart(id)
	if !ok {
		s.log.Debug().Str("cart", id).Msg("delete of missing cart ignored")
		return nil
	}
	s.deselectIfCurrent(domain.EntityCart, id)
	if selKind, selID := s.selection.Selected(); selKind == domain.EntityDrawer {
		if d, ok := s.store.GetDrawer(selID); ok && d.CartID == id {
			s.Deselect()
		}
	}

	done := s.beginOp(ctx, "delete_cart")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteCart(id)
	})
	if err != nil {
		done(false)
		s.fail("delete cart", err)
		return err
	}
	s.commit(Record{Kind: RecordDelete, Entity: domain.EntityCart, EntityID: id, Label: "Delete " + cart.Name, Changes: changes})
	s.notify("Deleted " + cart.Name)
	done(true)
	return nil
}
