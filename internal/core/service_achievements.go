package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// CreateAchievement inserts a blank achievement and selects it.
func (s *Service) CreateAchievement(ctx context.Context) (domain.Achievement, error) {
	done := s.beginOp(ctx, "create_achievement")
	var created domain.Achievement
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateAchievement(domain.Achievement{
			Title:   "New Achievement",
			Icon:    "star",
			Trigger: domain.TriggerCount,
			Value:   1,
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("create achievement", err)
		return domain.Achievement{}, err
	}
	s.commit(Record{Kind: RecordCreate, Entity: domain.EntityAchievement, EntityID: created.ID, Label: "Create achievement", Changes: changes})
	s.SelectEntity(domain.EntityAchievement, created.ID)
	done(true)
	return created, nil
}

// UpdateAchievementProperty sets one achievement field by name.
func (s *Service) UpdateAchievementProperty(ctx context.Context, id, property string, value any) error {
	id = s.resolveID(domain.EntityAchievement, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetAchievement(id); !ok {
		s.log.Debug().Str("achievement", id).Msg("update of missing achievement ignored")
		return nil
	}
	done := s.beginOp(ctx, "update_achievement")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateAchievement(id, func(a *domain.Achievement) error {
			return applyAchievementProperty(a, property, value)
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update achievement", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityAchievement, EntityID: id, Label: "Edit achievement " + property, Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = property
	}
	s.commit(rec)
	done(true)
	return nil
}

func applyAchievementProperty(a *domain.Achievement, property string, value any) error {
	switch property {
	case "title":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("achievement title must be a string")
		}
		a.Title = v
	case "description":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("achievement description must be a string")
		}
		a.Description = v
	case "icon":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("achievement icon must be a string")
		}
		a.Icon = v
	case "trigger":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("achievement trigger must be a string")
		}
		a.Trigger = domain.AchievementTrigger(v)
	case "value":
		v, err := coerceFloat(value)
		if err != nil {
			return fmt.Errorf("achievement value: %w", err)
		}
		a.Value = v
	default:
		return fmt.Errorf("unknown achievement property %q", property)
	}
	return nil
}

// DeleteAchievement removes an achievement.
func (s *Service) DeleteAchievement(ctx context.Context, id string) error {
	id = s.resolveID(domain.EntityAchievement, id)
	if id == "" {
		return nil
	}
	a, ok := s.store.GetAchievement(id)
	if !ok {
		s.log.Debug().Str("achievement", id).Msg("delete of missing achievement ignored")
		return nil
	}
	s.deselectIfCurrent(domain.EntityAchievement, id)

	done := s.beginOp(ctx, "delete_achievement")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteAchievement(id)
	})
	if err != nil {
		done(false)
		s.fail("delete achievement", err)
		return err
	}
	s.commit(Record{Kind: RecordDelete, Entity: domain.EntityAchievement, EntityID: id, Label: "Delete " + a.Title, Changes: changes})
	done(true)
	return nil
}
