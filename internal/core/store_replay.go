package core

import (
	"fmt"

	"simroom/pkg/domain"
)

// ApplyChange replays a recorded change in its stored direction. Replay is
// intentionally forgiving: a create over an existing id or a delete/update of
// a missing id is a silent no-op, because the target may have been removed
// through another path since the change was recorded. Errors are reserved for
// undecodable payloads, which indicate a corrupted history record.
// Re-inserts land at the change's recorded order index, keeping document
// order identical across a delete/undo round trip.
func (tx *Transaction) ApplyChange(change domain.Change) error {
	switch change.Action {
	case domain.ActionCreate:
		return tx.replayInsert(change)
	case domain.ActionDelete:
		tx.replayRemove(change)
		return nil
	case domain.ActionUpdate:
		return tx.replayOverwrite(change)
	default:
		return fmt.Errorf("unknown change action %q", change.Action)
	}
}

func (tx *Transaction) replayInsert(change domain.Change) error {
	payload := change.After
	if !payload.Defined() {
		payload = change.Before
	}
	switch change.Entity {
	case domain.EntityCart:
		if _, exists := tx.state.carts[change.EntityID]; exists {
			return nil
		}
		var c domain.Cart
		if !payload.Decode(&c) {
			return fmt.Errorf("replay cart %s: undecodable payload", change.EntityID)
		}
		tx.state.carts[c.ID] = c
		tx.state.cartOrder = insertID(tx.state.cartOrder, c.ID, change.OrderIndex)
	case domain.EntityDrawer:
		if _, exists := tx.state.drawers[change.EntityID]; exists {
			return nil
		}
		var d domain.Drawer
		if !payload.Decode(&d) {
			return fmt.Errorf("replay drawer %s: undecodable payload", change.EntityID)
		}
		tx.state.drawers[d.ID] = d
		tx.state.drawerOrder = insertID(tx.state.drawerOrder, d.ID, change.OrderIndex)
	case domain.EntityItem:
		if _, exists := tx.state.items[change.EntityID]; exists {
			return nil
		}
		var it domain.Item
		if !payload.Decode(&it) {
			return fmt.Errorf("replay item %s: undecodable payload", change.EntityID)
		}
		tx.state.items[it.ID] = it
		tx.state.itemOrder = insertID(tx.state.itemOrder, it.ID, change.OrderIndex)
	case domain.EntityScenario:
		if _, exists := tx.state.scenarios[change.EntityID]; exists {
			return nil
		}
		var sc domain.Scenario
		if !payload.Decode(&sc) {
			return fmt.Errorf("replay scenario %s: undecodable payload", change.EntityID)
		}
		tx.state.scenarios[sc.ID] = sc
		tx.state.scenarioOrder = insertID(tx.state.scenarioOrder, sc.ID, change.OrderIndex)
	case domain.EntityAchievement:
		if _, exists := tx.state.achievements[change.EntityID]; exists {
			return nil
		}
		var a domain.Achievement
		if !payload.Decode(&a) {
			return fmt.Errorf("replay achievement %s: undecodable payload", change.EntityID)
		}
		tx.state.achievements[a.ID] = a
		tx.state.achievementOrder = insertID(tx.state.achievementOrder, a.ID, change.OrderIndex)
	case domain.EntityCameraView:
		if _, exists := tx.state.cameras[change.EntityID]; exists {
			return nil
		}
		var cv domain.CameraView
		if !payload.Decode(&cv) {
			return fmt.Errorf("replay camera view %s: undecodable payload", change.EntityID)
		}
		tx.state.cameras[cv.ID] = cv
		tx.state.cameraOrder = insertID(tx.state.cameraOrder, cv.ID, change.OrderIndex)
	}
	tx.recordChange(change)
	return nil
}

func (tx *Transaction) replayRemove(change domain.Change) {
	id := change.EntityID
	switch change.Entity {
	case domain.EntityCart:
		if _, ok := tx.state.carts[id]; !ok {
			return
		}
		delete(tx.state.carts, id)
		tx.state.cartOrder = removeID(tx.state.cartOrder, id)
	case domain.EntityDrawer:
		if _, ok := tx.state.drawers[id]; !ok {
			return
		}
		delete(tx.state.drawers, id)
		tx.state.drawerOrder = removeID(tx.state.drawerOrder, id)
	case domain.EntityItem:
		if _, ok := tx.state.items[id]; !ok {
			return
		}
		delete(tx.state.items, id)
		tx.state.itemOrder = removeID(tx.state.itemOrder, id)
	case domain.EntityScenario:
		if _, ok := tx.state.scenarios[id]; !ok {
			return
		}
		delete(tx.state.scenarios, id)
		tx.state.scenarioOrder = removeID(tx.state.scenarioOrder, id)
	case domain.EntityAchievement:
		if _, ok := tx.state.achievements[id]; !ok {
			return
		}
		delete(tx.state.achievements, id)
		tx.state.achievementOrder = removeID(tx.state.achievementOrder, id)
	case domain.EntityCameraView:
		if _, ok := tx.state.cameras[id]; !ok {
			return
		}
		delete(tx.state.cameras, id)
		tx.state.cameraOrder = removeID(tx.state.cameraOrder, id)
	default:
		return
	}
	tx.recordChange(change)
}

func (tx *Transaction) replayOverwrite(change domain.Change) error {
	id := change.EntityID
	switch change.Entity {
	case domain.EntityCart:
		if _, ok := tx.state.carts[id]; !ok {
			return nil
		}
		var c domain.Cart
		if !change.After.Decode(&c) {
			return fmt.Errorf("replay cart %s: undecodable payload", id)
		}
		tx.state.carts[id] = c
	case domain.EntityDrawer:
		if _, ok := tx.state.drawers[id]; !ok {
			return nil
		}
		var d domain.Drawer
		if !change.After.Decode(&d) {
			return fmt.Errorf("replay drawer %s: undecodable payload", id)
		}
		tx.state.drawers[id] = d
	case domain.EntityItem:
		if _, ok := tx.state.items[id]; !ok {
			return nil
		}
		var it domain.Item
		if !change.After.Decode(&it) {
			return fmt.Errorf("replay item %s: undecodable payload", id)
		}
		tx.state.items[id] = it
	case domain.EntityScenario:
		if _, ok := tx.state.scenarios[id]; !ok {
			return nil
		}
		var sc domain.Scenario
		if !change.After.Decode(&sc) {
			return fmt.Errorf("replay scenario %s: undecodable payload", id)
		}
		tx.state.scenarios[id] = sc
	case domain.EntityAchievement:
		if _, ok := tx.state.achievements[id]; !ok {
			return nil
		}
		var a domain.Achievement
		if !change.After.Decode(&a) {
			return fmt.Errorf("replay achievement %s: undecodable payload", id)
		}
		tx.state.achievements[id] = a
	case domain.EntityCameraView:
		if _, ok := tx.state.cameras[id]; !ok {
			return nil
		}
		var cv domain.CameraView
		if !change.After.Decode(&cv) {
			return fmt.Errorf("replay camera view %s: undecodable payload", id)
		}
		tx.state.cameras[id] = cv
	default:
		return nil
	}
	tx.recordChange(change)
	return nil
}
