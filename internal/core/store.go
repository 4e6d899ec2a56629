package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"simroom/pkg/domain"

	"github.com/google/uuid"
)

// documentState holds every collection keyed by id plus the insertion order
// per collection. Insertion order is significant: the 2D renderer stacks
// carts in creation order and list surfaces display collections as authored.
type documentState struct {
	carts        map[string]domain.Cart
	drawers      map[string]domain.Drawer
	items        map[string]domain.Item
	scenarios    map[string]domain.Scenario
	achievements map[string]domain.Achievement
	cameras      map[string]domain.CameraView

	cartOrder        []string
	drawerOrder      []string
	itemOrder        []string
	scenarioOrder    []string
	achievementOrder []string
	cameraOrder      []string

	room    domain.RoomSettings
	scoring domain.Settings
	general domain.Settings
}

func newDocumentState() documentState {
	return documentState{
		carts:        make(map[string]domain.Cart),
		drawers:      make(map[string]domain.Drawer),
		items:        make(map[string]domain.Item),
		scenarios:    make(map[string]domain.Scenario),
		achievements: make(map[string]domain.Achievement),
		cameras:      make(map[string]domain.CameraView),
		scoring:      domain.Settings{},
		general:      domain.Settings{},
	}
}

func (s documentState) clone() documentState {
	cloned := newDocumentState()
	for k, v := range s.carts {
		cloned.carts[k] = v
	}
	for k, v := range s.drawers {
		cloned.drawers[k] = v
	}
	for k, v := range s.items {
		cloned.items[k] = v
	}
	for k, v := range s.scenarios {
		cloned.scenarios[k] = cloneScenario(v)
	}
	for k, v := range s.achievements {
		cloned.achievements[k] = v
	}
	for k, v := range s.cameras {
		cloned.cameras[k] = v
	}
	cloned.cartOrder = append([]string(nil), s.cartOrder...)
	cloned.drawerOrder = append([]string(nil), s.drawerOrder...)
	cloned.itemOrder = append([]string(nil), s.itemOrder...)
	cloned.scenarioOrder = append([]string(nil), s.scenarioOrder...)
	cloned.achievementOrder = append([]string(nil), s.achievementOrder...)
	cloned.cameraOrder = append([]string(nil), s.cameraOrder...)
	cloned.room = s.room
	cloned.scoring = s.scoring.Clone()
	cloned.general = s.general.Clone()
	return cloned
}

func cloneScenario(sc domain.Scenario) domain.Scenario {
	cp := sc
	cp.EssentialItemIDs = append([]string(nil), sc.EssentialItemIDs...)
	cp.OptionalItemIDs = append([]string(nil), sc.OptionalItemIDs...)
	return cp
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return len(order)
}

func insertID(order []string, id string, index int) []string {
	if index < 0 || index > len(order) {
		index = len(order)
	}
	order = append(order, "")
	copy(order[index+1:], order[index:])
	order[index] = id
	return order
}

// MemoryStore provides an in-memory transactional store for the scene
// document. It is the canonical domain.PersistentStore implementation;
// durable drivers embed it and snapshot after commit.
type MemoryStore struct {
	mu     sync.RWMutex
	state  documentState
	engine *domain.RulesEngine
	nowFn  func() time.Time
}

var _ domain.PersistentStore = (*MemoryStore)(nil)

// NewMemoryStore constructs an in-memory store backed by the provided rules
// engine. A nil engine disables rule evaluation.
func NewMemoryStore(engine *domain.RulesEngine) *MemoryStore {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &MemoryStore{
		state:  newDocumentState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) newID() string {
	return uuid.NewString()
}

// Transaction represents a mutation set applied to a cloned document state.
type Transaction struct {
	store   *MemoryStore
	state   documentState
	changes []domain.Change
	now     time.Time
}

var _ domain.Transaction = (*Transaction)(nil)

// RunInTransaction executes fn within a transactional copy of the document.
// On success the clone replaces the live state and the recorded changes are
// returned so callers can build history records from them.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, []domain.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, nil, err
	}

	var result domain.Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, nil, err
		}
		result = res
		if res.HasBlocking() {
			return res, nil, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, tx.changes, nil
}

// View executes fn against a read-only snapshot of the document.
func (s *MemoryStore) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

func (tx *Transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

func (tx *Transaction) recordCreate(entity domain.EntityType, id string, after any, orderIndex int) error {
	payload, err := domain.NewChangePayloadFromValue(after)
	if err != nil {
		return fmt.Errorf("snapshot %s %s: %w", entity, id, err)
	}
	tx.recordChange(domain.Change{Entity: entity, Action: domain.ActionCreate, EntityID: id, After: payload, OrderIndex: orderIndex})
	return nil
}

func (tx *Transaction) recordUpdate(entity domain.EntityType, id, property string, before, after any) error {
	beforePayload, err := domain.NewChangePayloadFromValue(before)
	if err != nil {
		return fmt.Errorf("snapshot %s %s: %w", entity, id, err)
	}
	afterPayload, err := domain.NewChangePayloadFromValue(after)
	if err != nil {
		return fmt.Errorf("snapshot %s %s: %w", entity, id, err)
	}
	tx.recordChange(domain.Change{Entity: entity, Action: domain.ActionUpdate, EntityID: id, Property: property, Before: beforePayload, After: afterPayload})
	return nil
}

// recordDelete captures the entity at its removal-time order index. Replay
// applies a record's inverses newest-first, so reinserting each entity at
// this index unwinds a multi-delete exactly.
func (tx *Transaction) recordDelete(entity domain.EntityType, id string, before any, orderIndex int) error {
	payload, err := domain.NewChangePayloadFromValue(before)
	if err != nil {
		return fmt.Errorf("snapshot %s %s: %w", entity, id, err)
	}
	tx.recordChange(domain.Change{Entity: entity, Action: domain.ActionDelete, EntityID: id, Before: payload, OrderIndex: orderIndex})
	return nil
}

// Snapshot exposes the transactional state to rules and renderers.
func (tx *Transaction) Snapshot() domain.TransactionView {
	return newTransactionView(&tx.state)
}

// CreateCart stores a new cart within the transaction.
func (tx *Transaction) CreateCart(c domain.Cart) (domain.Cart, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.carts[c.ID]; exists {
		return domain.Cart{}, fmt.Errorf("cart %q already exists", c.ID)
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.carts[c.ID] = c
	tx.state.cartOrder = append(tx.state.cartOrder, c.ID)
	if err := tx.recordCreate(domain.EntityCart, c.ID, c, len(tx.state.cartOrder)-1); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// UpdateCart mutates a cart using the provided mutator function.
func (tx *Transaction) UpdateCart(id string, mutator func(*domain.Cart) error) (domain.Cart, error) {
	current, ok := tx.state.carts[id]
	if !ok {
		return domain.Cart{}, fmt.Errorf("cart %q not found", id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Cart{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.carts[id] = current
	if err := tx.recordUpdate(domain.EntityCart, id, "", before, current); err != nil {
		return domain.Cart{}, err
	}
	return current, nil
}

// DeleteCart removes a cart and cascades to every drawer referencing it. One
// delete change is recorded per cascaded drawer so replay restores them with
// identical field values.
func (tx *Transaction) DeleteCart(id string) error {
	current, ok := tx.state.carts[id]
	if !ok {
		return fmt.Errorf("cart %q not found", id)
	}
	doomed := make([]string, 0)
	for _, drawerID := range tx.state.drawerOrder {
		if drawer, ok := tx.state.drawers[drawerID]; ok && drawer.CartID == id {
			doomed = append(doomed, drawerID)
		}
	}
	for _, drawerID := range doomed {
		drawer := tx.state.drawers[drawerID]
		idx := indexOf(tx.state.drawerOrder, drawerID)
		if err := tx.recordDelete(domain.EntityDrawer, drawerID, drawer, idx); err != nil {
			return err
		}
		delete(tx.state.drawers, drawerID)
		tx.state.drawerOrder = removeID(tx.state.drawerOrder, drawerID)
	}
	idx := indexOf(tx.state.cartOrder, id)
	delete(tx.state.carts, id)
	tx.state.cartOrder = removeID(tx.state.cartOrder, id)
	return tx.recordDelete(domain.EntityCart, id, current, idx)
}

// CreateDrawer stores a new drawer.
func (tx *Transaction) CreateDrawer(d domain.Drawer) (domain.Drawer, error) {
	if d.ID == "" {
		d.ID = tx.store.newID()
	}
	if _, exists := tx.state.drawers[d.ID]; exists {
		return domain.Drawer{}, fmt.Errorf("drawer %q already exists", d.ID)
	}
	if d.Number < 1 {
		d.Number = 1
	}
	d.CreatedAt = tx.now
	d.UpdatedAt = tx.now
	tx.state.drawers[d.ID] = d
	tx.state.drawerOrder = append(tx.state.drawerOrder, d.ID)
	if err := tx.recordCreate(domain.EntityDrawer, d.ID, d, len(tx.state.drawerOrder)-1); err != nil {
		return domain.Drawer{}, err
	}
	return d, nil
}

// UpdateDrawer mutates an existing drawer.
func (tx *Transaction) UpdateDrawer(id string, mutator func(*domain.Drawer) error) (domain.Drawer, error) {
	current, ok := tx.state.drawers[id]
	if !ok {
		return domain.Drawer{}, fmt.Errorf("drawer %q not found", id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Drawer{}, err
	}
	if current.Number < 1 {
		current.Number = 1
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.drawers[id] = current
	if err := tx.recordUpdate(domain.EntityDrawer, id, "", before, current); err != nil {
		return domain.Drawer{}, err
	}
	return current, nil
}

// DeleteDrawer removes a drawer. Items referencing it keep their dangling
// reference; lookups tolerate it as "unassigned".
func (tx *Transaction) DeleteDrawer(id string) error {
	current, ok := tx.state.drawers[id]
	if !ok {
		return fmt.Errorf("drawer %q not found", id)
	}
	idx := indexOf(tx.state.drawerOrder, id)
	delete(tx.state.drawers, id)
	tx.state.drawerOrder = removeID(tx.state.drawerOrder, id)
	return tx.recordDelete(domain.EntityDrawer, id, current, idx)
}

// CreateItem stores a new item.
func (tx *Transaction) CreateItem(it domain.Item) (domain.Item, error) {
	if it.ID == "" {
		it.ID = tx.store.newID()
	}
	if _, exists := tx.state.items[it.ID]; exists {
		return domain.Item{}, fmt.Errorf("item %q already exists", it.ID)
	}
	it.CreatedAt = tx.now
	it.UpdatedAt = tx.now
	tx.state.items[it.ID] = it
	tx.state.itemOrder = append(tx.state.itemOrder, it.ID)
	if err := tx.recordCreate(domain.EntityItem, it.ID, it, len(tx.state.itemOrder)-1); err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

// UpdateItem mutates an existing item. Changing the cart reference clears the
// drawer reference: an item may only sit in a drawer of its own cart.
func (tx *Transaction) UpdateItem(id string, mutator func(*domain.Item) error) (domain.Item, error) {
	current, ok := tx.state.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %q not found", id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Item{}, err
	}
	if current.CartID != before.CartID {
		current.DrawerID = ""
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.items[id] = current
	if err := tx.recordUpdate(domain.EntityItem, id, "", before, current); err != nil {
		return domain.Item{}, err
	}
	return current, nil
}

// DeleteItem removes an item. Scenario sets referencing it keep their ids;
// renderers tolerate the dangling reference.
func (tx *Transaction) DeleteItem(id string) error {
	current, ok := tx.state.items[id]
	if !ok {
		return fmt.Errorf("item %q not found", id)
	}
	idx := indexOf(tx.state.itemOrder, id)
	delete(tx.state.items, id)
	tx.state.itemOrder = removeID(tx.state.itemOrder, id)
	return tx.recordDelete(domain.EntityItem, id, current, idx)
}

// CreateScenario stores a new scenario.
func (tx *Transaction) CreateScenario(sc domain.Scenario) (domain.Scenario, error) {
	if sc.ID == "" {
		sc.ID = tx.store.newID()
	}
	if _, exists := tx.state.scenarios[sc.ID]; exists {
		return domain.Scenario{}, fmt.Errorf("scenario %q already exists", sc.ID)
	}
	sc.CreatedAt = tx.now
	sc.UpdatedAt = tx.now
	sc = cloneScenario(sc)
	tx.state.scenarios[sc.ID] = sc
	tx.state.scenarioOrder = append(tx.state.scenarioOrder, sc.ID)
	if err := tx.recordCreate(domain.EntityScenario, sc.ID, sc, len(tx.state.scenarioOrder)-1); err != nil {
		return domain.Scenario{}, err
	}
	return cloneScenario(sc), nil
}

// UpdateScenario mutates an existing scenario.
func (tx *Transaction) UpdateScenario(id string, mutator func(*domain.Scenario) error) (domain.Scenario, error) {
	current, ok := tx.state.scenarios[id]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("scenario %q not found", id)
	}
	before := cloneScenario(current)
	working := cloneScenario(current)
	if err := mutator(&working); err != nil {
		return domain.Scenario{}, err
	}
	working.ID = id
	working.UpdatedAt = tx.now
	tx.state.scenarios[id] = cloneScenario(working)
	if err := tx.recordUpdate(domain.EntityScenario, id, "", before, working); err != nil {
		return domain.Scenario{}, err
	}
	return working, nil
}

// DeleteScenario removes a scenario.
func (tx *Transaction) DeleteScenario(id string) error {
	current, ok := tx.state.scenarios[id]
	if !ok {
		return fmt.Errorf("scenario %q not found", id)
	}
	idx := indexOf(tx.state.scenarioOrder, id)
	delete(tx.state.scenarios, id)
	tx.state.scenarioOrder = removeID(tx.state.scenarioOrder, id)
	return tx.recordDelete(domain.EntityScenario, id, cloneScenario(current), idx)
}

// CreateAchievement stores a new achievement.
func (tx *Transaction) CreateAchievement(a domain.Achievement) (domain.Achievement, error) {
	if a.ID == "" {
		a.ID = tx.store.newID()
	}
	if _, exists := tx.state.achievements[a.ID]; exists {
		return domain.Achievement{}, fmt.Errorf("achievement %q already exists", a.ID)
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	tx.state.achievements[a.ID] = a
	tx.state.achievementOrder = append(tx.state.achievementOrder, a.ID)
	if err := tx.recordCreate(domain.EntityAchievement, a.ID, a, len(tx.state.achievementOrder)-1); err != nil {
		return domain.Achievement{}, err
	}
	return a, nil
}

// UpdateAchievement mutates an existing achievement.
func (tx *Transaction) UpdateAchievement(id string, mutator func(*domain.Achievement) error) (domain.Achievement, error) {
	current, ok := tx.state.achievements[id]
	if !ok {
		return domain.Achievement{}, fmt.Errorf("achievement %q not found", id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Achievement{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.achievements[id] = current
	if err := tx.recordUpdate(domain.EntityAchievement, id, "", before, current); err != nil {
		return domain.Achievement{}, err
	}
	return current, nil
}

// DeleteAchievement removes an achievement.
func (tx *Transaction) DeleteAchievement(id string) error {
	current, ok := tx.state.achievements[id]
	if !ok {
		return fmt.Errorf("achievement %q not found", id)
	}
	idx := indexOf(tx.state.achievementOrder, id)
	delete(tx.state.achievements, id)
	tx.state.achievementOrder = removeID(tx.state.achievementOrder, id)
	return tx.recordDelete(domain.EntityAchievement, id, current, idx)
}

// CreateCameraView stores a new camera pose.
func (tx *Transaction) CreateCameraView(cv domain.CameraView) (domain.CameraView, error) {
	if cv.ID == "" {
		cv.ID = tx.store.newID()
	}
	if _, exists := tx.state.cameras[cv.ID]; exists {
		return domain.CameraView{}, fmt.Errorf("camera view %q already exists", cv.ID)
	}
	cv.CreatedAt = tx.now
	cv.UpdatedAt = tx.now
	tx.state.cameras[cv.ID] = cv
	tx.state.cameraOrder = append(tx.state.cameraOrder, cv.ID)
	if err := tx.recordCreate(domain.EntityCameraView, cv.ID, cv, len(tx.state.cameraOrder)-1); err != nil {
		return domain.CameraView{}, err
	}
	return cv, nil
}

// UpdateCameraView mutates an existing camera pose.
func (tx *Transaction) UpdateCameraView(id string, mutator func(*domain.CameraView) error) (domain.CameraView, error) {
	current, ok := tx.state.cameras[id]
	if !ok {
		return domain.CameraView{}, fmt.Errorf("camera view %q not found", id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.CameraView{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.cameras[id] = current
	if err := tx.recordUpdate(domain.EntityCameraView, id, "", before, current); err != nil {
		return domain.CameraView{}, err
	}
	return current, nil
}

// DeleteCameraView removes a camera pose.
func (tx *Transaction) DeleteCameraView(id string) error {
	current, ok := tx.state.cameras[id]
	if !ok {
		return fmt.Errorf("camera view %q not found", id)
	}
	idx := indexOf(tx.state.cameraOrder, id)
	delete(tx.state.cameras, id)
	tx.state.cameraOrder = removeID(tx.state.cameraOrder, id)
	return tx.recordDelete(domain.EntityCameraView, id, current, idx)
}

// SetRoomSettings replaces the room settings block.
func (tx *Transaction) SetRoomSettings(r domain.RoomSettings) {
	tx.state.room = r
}

// SetScoringRules replaces the opaque scoring rules block.
func (tx *Transaction) SetScoringRules(s domain.Settings) {
	tx.state.scoring = s.Clone()
}

// SetGeneralSettings replaces the opaque general settings block.
func (tx *Transaction) SetGeneralSettings(s domain.Settings) {
	tx.state.general = s.Clone()
}
