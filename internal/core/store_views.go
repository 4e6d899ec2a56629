package core

import (
	"context"

	"simroom/pkg/domain"
)

// TransactionView exposes a read-only snapshot of the transactional state to
// rules and renderers.
type TransactionView struct {
	state *documentState
}

var _ domain.TransactionView = TransactionView{}

func newTransactionView(state *documentState) TransactionView {
	return TransactionView{state: state}
}

// ListCarts returns all carts in insertion order.
func (v TransactionView) ListCarts() []domain.Cart {
	out := make([]domain.Cart, 0, len(v.state.cartOrder))
	for _, id := range v.state.cartOrder {
		if c, ok := v.state.carts[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ListDrawers returns all drawers in insertion order.
func (v TransactionView) ListDrawers() []domain.Drawer {
	out := make([]domain.Drawer, 0, len(v.state.drawerOrder))
	for _, id := range v.state.drawerOrder {
		if d, ok := v.state.drawers[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// ListItems returns all items in insertion order.
func (v TransactionView) ListItems() []domain.Item {
	out := make([]domain.Item, 0, len(v.state.itemOrder))
	for _, id := range v.state.itemOrder {
		if it, ok := v.state.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// ListScenarios returns all scenarios in insertion order.
func (v TransactionView) ListScenarios() []domain.Scenario {
	out := make([]domain.Scenario, 0, len(v.state.scenarioOrder))
	for _, id := range v.state.scenarioOrder {
		if sc, ok := v.state.scenarios[id]; ok {
			out = append(out, cloneScenario(sc))
		}
	}
	return out
}

// ListCameraViews returns all camera poses in insertion order.
func (v TransactionView) ListCameraViews() []domain.CameraView {
	out := make([]domain.CameraView, 0, len(v.state.cameraOrder))
	for _, id := range v.state.cameraOrder {
		if cv, ok := v.state.cameras[id]; ok {
			out = append(out, cv)
		}
	}
	return out
}

// FindCart retrieves a cart by id from the snapshot.
func (v TransactionView) FindCart(id string) (domain.Cart, bool) {
	c, ok := v.state.carts[id]
	return c, ok
}

// FindDrawer retrieves a drawer by id from the snapshot.
func (v TransactionView) FindDrawer(id string) (domain.Drawer, bool) {
	d, ok := v.state.drawers[id]
	return d, ok
}

// FindItem retrieves an item by id from the snapshot.
func (v TransactionView) FindItem(id string) (domain.Item, bool) {
	it, ok := v.state.items[id]
	return it, ok
}

// RoomSettings returns the room settings block.
func (v TransactionView) RoomSettings() domain.RoomSettings {
	return v.state.room
}

// GetCart retrieves a cart by id. Missing ids report false, never an error.
//
// Each Get below takes the read lock per call, so a service-level existence
// check can race a concurrent delete. That is fine: the check only gates
// logging for obvious no-ops, and the transaction re-checks the id under the
// write lock before mutating.
func (s *MemoryStore) GetCart(id string) (domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.carts[id]
	return c, ok
}

// GetDrawer retrieves a drawer by id.
func (s *MemoryStore) GetDrawer(id string) (domain.Drawer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.state.drawers[id]
	return d, ok
}

// GetItem retrieves an item by id.
func (s *MemoryStore) GetItem(id string) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.state.items[id]
	return it, ok
}

// GetScenario retrieves a scenario by id.
func (s *MemoryStore) GetScenario(id string) (domain.Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.state.scenarios[id]
	if !ok {
		return domain.Scenario{}, false
	}
	return cloneScenario(sc), true
}

// GetAchievement retrieves an achievement by id.
func (s *MemoryStore) GetAchievement(id string) (domain.Achievement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.achievements[id]
	return a, ok
}

// GetCameraView retrieves a camera pose by id.
func (s *MemoryStore) GetCameraView(id string) (domain.CameraView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cv, ok := s.state.cameras[id]
	return cv, ok
}

// ListCarts returns all carts in insertion order.
func (s *MemoryStore) ListCarts() []domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListCarts()
}

// ListDrawers returns all drawers in insertion order.
func (s *MemoryStore) ListDrawers() []domain.Drawer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListDrawers()
}

// ListItems returns all items in insertion order.
func (s *MemoryStore) ListItems() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListItems()
}

// ListScenarios returns all scenarios in insertion order.
func (s *MemoryStore) ListScenarios() []domain.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListScenarios()
}

// ListAchievements returns all achievements in insertion order.
func (s *MemoryStore) ListAchievements() []domain.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Achievement, 0, len(s.state.achievementOrder))
	for _, id := range s.state.achievementOrder {
		if a, ok := s.state.achievements[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// ListCameraViews returns all camera poses in insertion order.
func (s *MemoryStore) ListCameraViews() []domain.CameraView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListCameraViews()
}

// RoomSettings returns the room settings block.
func (s *MemoryStore) RoomSettings() domain.RoomSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.room
}

// ScoringRules returns a copy of the opaque scoring rules block.
func (s *MemoryStore) ScoringRules() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.scoring.Clone()
}

// GeneralSettings returns a copy of the opaque general settings block.
func (s *MemoryStore) GeneralSettings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.general.Clone()
}

// ExportState returns a deep copy of the current document.
func (s *MemoryStore) ExportState() domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := newTransactionView(&s.state)
	achievements := make([]domain.Achievement, 0, len(s.state.achievementOrder))
	for _, id := range s.state.achievementOrder {
		if a, ok := s.state.achievements[id]; ok {
			achievements = append(achievements, a)
		}
	}
	return domain.Document{
		Carts:           view.ListCarts(),
		Drawers:         view.ListDrawers(),
		Items:           view.ListItems(),
		Scenarios:       view.ListScenarios(),
		Achievements:    achievements,
		CameraViews:     view.ListCameraViews(),
		RoomSettings:    s.state.room,
		ScoringRules:    s.state.scoring.Clone(),
		GeneralSettings: s.state.general.Clone(),
	}
}

// ImportState replaces the document wholesale, bypassing rules. Callers run
// migration first; this path trusts its input.
func (s *MemoryStore) ImportState(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := newDocumentState()
	for _, c := range doc.Carts {
		state.carts[c.ID] = c
		state.cartOrder = append(state.cartOrder, c.ID)
	}
	for _, d := range doc.Drawers {
		state.drawers[d.ID] = d
		state.drawerOrder = append(state.drawerOrder, d.ID)
	}
	for _, it := range doc.Items {
		state.items[it.ID] = it
		state.itemOrder = append(state.itemOrder, it.ID)
	}
	for _, sc := range doc.Scenarios {
		state.scenarios[sc.ID] = cloneScenario(sc)
		state.scenarioOrder = append(state.scenarioOrder, sc.ID)
	}
	for _, a := range doc.Achievements {
		state.achievements[a.ID] = a
		state.achievementOrder = append(state.achievementOrder, a.ID)
	}
	for _, cv := range doc.CameraViews {
		state.cameras[cv.ID] = cv
		state.cameraOrder = append(state.cameraOrder, cv.ID)
	}
	state.room = doc.RoomSettings
	state.scoring = doc.ScoringRules.Clone()
	state.general = doc.GeneralSettings.Clone()
	if state.scoring == nil {
		state.scoring = domain.Settings{}
	}
	if state.general == nil {
		state.general = domain.Settings{}
	}
	s.state = state
}

// Wipe clears the in-memory document. Durable drivers additionally clear
// their snapshot storage.
func (s *MemoryStore) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newDocumentState()
	return nil
}
