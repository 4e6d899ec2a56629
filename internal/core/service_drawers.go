package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// CreateDrawer inserts a drawer assigned to the given cart, numbered after
// the cart's highest existing drawer. An empty cartID creates an unassigned
// drawer.
func (s *Service) CreateDrawer(ctx context.Context, cartID string) (domain.Drawer, error) {
	done := s.beginOp(ctx, "create_drawer")
	number := 1
	if cartID != "" {
		for _, d := range s.store.ListDrawers() {
			if d.CartID == cartID && d.Number >= number {
				number = d.Number + 1
			}
		}
	}
	var created domain.Drawer
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateDrawer(domain.Drawer{
			CartID: cartID,
			Name:   fmt.Sprintf("Drawer %d", number),
			Number: number,
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("create drawer", err)
		return domain.Drawer{}, err
	}
	s.commit(Record{Kind: RecordCreate, Entity: domain.EntityDrawer, EntityID: created.ID, Label: "Create " + created.Name, Changes: changes})
	s.SelectEntity(domain.EntityDrawer, created.ID)
	done(true)
	return created, nil
}

// UpdateDrawerProperty sets one drawer field by name. An empty id targets the
// current selection; a missing drawer is a no-op.
func (s *Service) UpdateDrawerProperty(ctx context.Context, id, property string, value any) error {
	id = s.resolveID(domain.EntityDrawer, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetDrawer(id); !ok {
		s.log.Debug().Str("drawer", id).Msg("update of missing drawer ignored")
		return nil
	}
	done := s.beginOp(ctx, "update_drawer")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateDrawer(id, func(d *domain.Drawer) error {
			switch property {
			case "name":
				v, ok := value.(string)
				if !ok {
					return fmt.Errorf("drawer name must be a string")
				}
				d.Name = v
			case "number":
				v, err := coerceFloat(value)
				if err != nil {
					return fmt.Errorf("drawer number: %w", err)
				}
				if v < 1 {
					v = 1
				}
				d.Number = int(v)
			case "cartId":
				v, ok := value.(string)
				if !ok {
					return fmt.Errorf("drawer cartId must be a string")
				}
				d.CartID = v
			default:
				return fmt.Errorf("unknown drawer property %q", property)
			}
			return nil
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update drawer", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityDrawer, EntityID: id, Label: "Edit drawer " + property, Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = property
	}
	s.commit(rec)
	done(true)
	return nil
}

// DeleteDrawer removes a drawer. Items pointing at it keep a dangling
// reference, which lookups treat as unassigned.
func (s *Service) DeleteDrawer(ctx context.Context, id string) error {
	id = s.resolveID(domain.EntityDrawer, id)
	if id == "" {
		return nil
	}
	drawer, ok := s.store.GetDrawer(id)
	if !ok {
		s.log.Debug().Str("drawer", id).Msg("delete of missing drawer ignored")
		return nil
	}
	s.deselectIfCurrent(domain.EntityDrawer, id)

	done := s.beginOp(ctx, "delete_drawer")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteDrawer(id)
	})
	if err != nil {
		done(false)
		s.fail("delete drawer", err)
		return err
	}
	s.commit(Record{Kind: RecordDelete, Entity: domain.EntityDrawer, EntityID: id, Label: "Delete " + drawer.Name, Changes: changes})
	done(true)
	return nil
}
