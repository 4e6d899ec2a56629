package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// CreateItem inserts an unplaced item and selects it.
func (s *Service) CreateItem(ctx context.Context) (domain.Item, error) {
	done := s.beginOp(ctx, "create_item")
	var created domain.Item
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateItem(domain.Item{Name: "New Item"})
		return err
	})
	if err != nil {
		done(false)
		s.fail("create item", err)
		return domain.Item{}, err
	}
	s.commit(Record{Kind: RecordCreate, Entity: domain.EntityItem, EntityID: created.ID, Label: "Create item", Changes: changes})
	s.SelectEntity(domain.EntityItem, created.ID)
	done(true)
	return created, nil
}

// UpdateItemProperty sets one item field by name. Assigning a new cart clears
// the drawer placement (an item may only sit in a drawer of its own cart);
// assigning a drawer belonging to a different cart is rejected.
func (s *Service) UpdateItemProperty(ctx context.Context, id, property string, value any) error {
	id = s.resolveID(domain.EntityItem, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetItem(id); !ok {
		s.log.Debug().Str("item", id).Msg("update of missing item ignored")
		return nil
	}
	done := s.beginOp(ctx, "update_item")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateItem(id, func(it *domain.Item) error {
			switch property {
			case "name":
				v, ok := value.(string)
				if !ok {
					return fmt.Errorf("item name must be a string")
				}
				it.Name = v
			case "description":
				v, ok := value.(string)
				if !ok {
					return fmt.Errorf("item description must be a string")
				}
				it.Description = v
			case "cartId":
				v, ok := value.(string)
				if !ok {
					return fmt.Errorf("item cartId must be a string")
				}
				it.CartID = v
			case "drawerId":
				v, ok := value.(string)
				if !ok {
					return fmt.Errorf("item drawerId must be a string")
				}
				if v != "" {
					drawer, ok := tx.Snapshot().FindDrawer(v)
					if !ok {
						return fmt.Errorf("drawer %q not found", v)
					}
					if drawer.CartID != it.CartID {
						return fmt.Errorf("drawer %q belongs to a different cart", v)
					}
				}
				it.DrawerID = v
			default:
				return fmt.Errorf("unknown item property %q", property)
			}
			return nil
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update item", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityItem, EntityID: id, Label: "Edit item " + property, Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = property
	}
	s.commit(rec)
	done(true)
	return nil
}

// DeleteItem removes an item. Scenario membership sets keep the id; renderers
// tolerate the dangling reference.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	id = s.resolveID(domain.EntityItem, id)
	if id == "" {
		return nil
	}
	item, ok := s.store.GetItem(id)
	if !ok {
		s.log.Debug().Str("item", id).Msg("delete of missing item ignored")
		return nil
	}
	s.deselectIfCurrent(domain.EntityItem, id)

	done := s.beginOp(ctx, "delete_item")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteItem(id)
	})
	if err != nil {
		done(false)
		s.fail("delete item", err)
		return err
	}
	s.commit(Record{Kind: RecordDelete, Entity: domain.EntityItem, EntityID: id, Label: "Delete " + item.Name, Changes: changes})
	done(true)
	return nil
}

// AttachItemImage stores image bytes in the blob store and links the blob key
// on the item. The image itself is not part of history payloads; undo of the
// link leaves the blob in place.
func (s *Service) AttachItemImage(ctx context.Context, id string, data []byte) error {
	id = s.resolveID(domain.EntityItem, id)
	if id == "" {
		return nil
	}
	if s.images == nil {
		return fmt.Errorf("no image store configured")
	}
	if _, ok := s.store.GetItem(id); !ok {
		s.log.Debug().Str("item", id).Msg("image attach to missing item ignored")
		return nil
	}
	key := "items/" + id
	if err := s.images.Put(ctx, key, data); err != nil {
		s.fail("store item image", err)
		return err
	}
	return s.UpdateItemImageKey(ctx, id, key)
}

// UpdateItemImageKey records the blob key for an item's image.
func (s *Service) UpdateItemImageKey(ctx context.Context, id, key string) error {
	done := s.beginOp(ctx, "update_item_image")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateItem(id, func(it *domain.Item) error {
			it.ImageKey = key
			return nil
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update item image", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityItem, EntityID: id, Label: "Attach item image", Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = "image"
	}
	s.commit(rec)
	done(true)
	return nil
}

// LoadItemImage fetches an item's image bytes from the blob store. Items
// without an image return nil with no error.
func (s *Service) LoadItemImage(ctx context.Context, id string) ([]byte, error) {
	item, ok := s.store.GetItem(id)
	if !ok || item.ImageKey == "" {
		return nil, nil
	}
	if s.images == nil {
		return nil, fmt.Errorf("no image store configured")
	}
	return s.images.Get(ctx, item.ImageKey)
}
