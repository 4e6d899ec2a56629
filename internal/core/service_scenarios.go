package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// ScenarioSet selects which membership set a toggle targets.
type ScenarioSet string

// Scenario membership sets.
const (
	SetEssential ScenarioSet = "essential"
	SetOptional  ScenarioSet = "optional"
)

// CreateScenario inserts an empty scenario and selects it.
func (s *Service) CreateScenario(ctx context.Context) (domain.Scenario, error) {
	done := s.beginOp(ctx, "create_scenario")
	var created domain.Scenario
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateScenario(domain.Scenario{Name: "New Scenario"})
		return err
	})
	if err != nil {
		done(false)
		s.fail("create scenario", err)
		return domain.Scenario{}, err
	}
	s.commit(Record{Kind: RecordCreate, Entity: domain.EntityScenario, EntityID: created.ID, Label: "Create scenario", Changes: changes})
	s.SelectEntity(domain.EntityScenario, created.ID)
	done(true)
	return created, nil
}

// UpdateScenarioProperty sets one scenario text field by name.
func (s *Service) UpdateScenarioProperty(ctx context.Context, id, property string, value any) error {
	id = s.resolveID(domain.EntityScenario, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetScenario(id); !ok {
		s.log.Debug().Str("scenario", id).Msg("update of missing scenario ignored")
		return nil
	}
	done := s.beginOp(ctx, "update_scenario")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateScenario(id, func(sc *domain.Scenario) error {
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("scenario %s must be a string", property)
			}
			switch property {
			case "name":
				sc.Name = v
			case "description":
				sc.Description = v
			case "successText":
				sc.SuccessText = v
			case "partialText":
				sc.PartialText = v
			case "failureText":
				sc.FailureText = v
			default:
				return fmt.Errorf("unknown scenario property %q", property)
			}
			return nil
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update scenario", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityScenario, EntityID: id, Label: "Edit scenario " + property, Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = property
	}
	s.commit(rec)
	done(true)
	return nil
}

// ToggleScenarioItem flips an item's membership in one of a scenario's sets:
// present ids are removed, absent ids appended. The toggle is deliberately
// not recorded in history, matching the editor's established behavior; undo
// skips over membership changes.
func (s *Service) ToggleScenarioItem(ctx context.Context, scenarioID, itemID string, set ScenarioSet) error {
	scenarioID = s.resolveID(domain.EntityScenario, scenarioID)
	if scenarioID == "" || itemID == "" {
		return nil
	}
	if _, ok := s.store.GetScenario(scenarioID); !ok {
		s.log.Debug().Str("scenario", scenarioID).Msg("toggle on missing scenario ignored")
		return nil
	}
	done := s.beginOp(ctx, "toggle_scenario_item")
	_, _, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateScenario(scenarioID, func(sc *domain.Scenario) error {
			switch set {
			case SetEssential:
				sc.EssentialItemIDs = toggleID(sc.EssentialItemIDs, itemID)
			case SetOptional:
				sc.OptionalItemIDs = toggleID(sc.OptionalItemIDs, itemID)
			default:
				return fmt.Errorf("unknown scenario set %q", set)
			}
			return nil
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("toggle scenario item", err)
		return err
	}
	s.selection.MarkUnsaved()
	s.events.EmitEntitiesChanged()
	done(true)
	return nil
}

func toggleID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

// DeleteScenario removes a scenario.
func (s *Service) DeleteScenario(ctx context.Context, id string) error {
	id = s.resolveID(domain.EntityScenario, id)
	if id == "" {
		return nil
	}
	sc, ok := s.store.GetScenario(id)
	if !ok {
		s.log.Debug().Str("scenario", id).Msg("delete of missing scenario ignored")
		return nil
	}
	s.deselectIfCurrent(domain.EntityScenario, id)

	done := s.beginOp(ctx, "delete_scenario")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteScenario(id)
	})
	if err != nil {
		done(false)
		s.fail("delete scenario", err)
		return err
	}
	s.commit(Record{Kind: RecordDelete, Entity: domain.EntityScenario, EntityID: id, Label: "Delete " + sc.Name, Changes: changes})
	done(true)
	return nil
}
