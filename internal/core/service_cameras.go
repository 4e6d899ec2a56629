package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// CreateCameraView saves the given pose as a new camera view and selects it.
func (s *Service) CreateCameraView(ctx context.Context, pos, lookAt domain.Vec3) (domain.CameraView, error) {
	done := s.beginOp(ctx, "create_camera_view")
	var created domain.CameraView
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateCameraView(domain.CameraView{
			Name:     "New View",
			Position: pos,
			LookAt:   lookAt,
			FOVDeg:   60,
			Kind:     domain.CameraCustom,
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("create camera view", err)
		return domain.CameraView{}, err
	}
	s.commit(Record{Kind: RecordCreate, Entity: domain.EntityCameraView, EntityID: created.ID, Label: "Create camera view", Changes: changes})
	s.SelectEntity(domain.EntityCameraView, created.ID)
	done(true)
	return created, nil
}

// UpdateCameraViewProperty sets one camera view field by name.
func (s *Service) UpdateCameraViewProperty(ctx context.Context, id, property string, value any) error {
	id = s.resolveID(domain.EntityCameraView, id)
	if id == "" {
		return nil
	}
	if _, ok := s.store.GetCameraView(id); !ok {
		s.log.Debug().Str("camera_view", id).Msg("update of missing camera view ignored")
		return nil
	}
	done := s.beginOp(ctx, "update_camera_view")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateCameraView(id, func(cv *domain.CameraView) error {
			return applyCameraViewProperty(cv, property, value)
		})
		return err
	})
	if err != nil {
		done(false)
		s.fail("update camera view", err)
		return err
	}
	rec := Record{Kind: RecordUpdate, Entity: domain.EntityCameraView, EntityID: id, Label: "Edit camera view " + property, Changes: changes}
	for i := range rec.Changes {
		rec.Changes[i].Property = property
	}
	s.commit(rec)
	done(true)
	return nil
}

func applyCameraViewProperty(cv *domain.CameraView, property string, value any) error {
	str := func() (string, error) {
		v, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("camera view %s must be a string", property)
		}
		return v, nil
	}
	switch property {
	case "name":
		v, err := str()
		if err != nil {
			return err
		}
		cv.Name = v
	case "description":
		v, err := str()
		if err != nil {
			return err
		}
		cv.Description = v
	case "position":
		v, ok := value.(domain.Vec3)
		if !ok {
			return fmt.Errorf("camera view position must be a vector")
		}
		cv.Position = v
	case "lookAt":
		v, ok := value.(domain.Vec3)
		if !ok {
			return fmt.Errorf("camera view lookAt must be a vector")
		}
		cv.LookAt = v
	case "fovDeg":
		v, err := coerceFloat(value)
		if err != nil {
			return fmt.Errorf("camera view fovDeg: %w", err)
		}
		cv.FOVDeg = v
	case "kind":
		v, err := str()
		if err != nil {
			return err
		}
		cv.Kind = domain.CameraKind(v)
	case "targetCartId":
		v, err := str()
		if err != nil {
			return err
		}
		cv.TargetCartID = v
	case "targetDrawerId":
		v, err := str()
		if err != nil {
			return err
		}
		cv.TargetDrawerID = v
	default:
		return fmt.Errorf("unknown camera view property %q", property)
	}
	return nil
}

// DeleteCameraView removes a saved camera view.
func (s *Service) DeleteCameraView(ctx context.Context, id string) error {
	id = s.resolveID(domain.EntityCameraView, id)
	if id == "" {
		return nil
	}
	cv, ok := s.store.GetCameraView(id)
	if !ok {
		s.log.Debug().Str("camera_view", id).Msg("delete of missing camera view ignored")
		return nil
	}
	s.deselectIfCurrent(domain.EntityCameraView, id)

	done := s.beginOp(ctx, "delete_camera_view")
	_, changes, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteCameraView(id)
	})
	if err != nil {
		done(false)
		s.fail("delete camera view", err)
		return err
	}
	s.commit(Record{Kind: RecordDelete, Entity: domain.EntityCameraView, EntityID: id, Label: "Delete " + cv.Name, Changes: changes})
	done(true)
	return nil
}

// UpdateRoomSettings replaces the room settings block. Settings blocks carry
// no change records, so the edit is not undoable.
func (s *Service) UpdateRoomSettings(ctx context.Context, rs domain.RoomSettings) error {
	done := s.beginOp(ctx, "update_room_settings")
	_, _, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		tx.SetRoomSettings(rs)
		return nil
	})
	if err != nil {
		done(false)
		s.fail("update room settings", err)
		return err
	}
	s.selection.MarkUnsaved()
	s.events.EmitEntitiesChanged()
	done(true)
	return nil
}

// UpdateScoringRules replaces the opaque scoring rules block.
func (s *Service) UpdateScoringRules(ctx context.Context, rules domain.Settings) error {
	done := s.beginOp(ctx, "update_scoring_rules")
	_, _, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		tx.SetScoringRules(rules)
		return nil
	})
	if err != nil {
		done(false)
		s.fail("update scoring rules", err)
		return err
	}
	s.selection.MarkUnsaved()
	s.events.EmitEntitiesChanged()
	done(true)
	return nil
}

// UpdateGeneralSettings replaces the opaque general settings block.
func (s *Service) UpdateGeneralSettings(ctx context.Context, settings domain.Settings) error {
	done := s.beginOp(ctx, "update_general_settings")
	_, _, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		tx.SetGeneralSettings(settings)
		return nil
	})
	if err != nil {
		done(false)
		s.fail("update general settings", err)
		return err
	}
	s.selection.MarkUnsaved()
	s.events.EmitEntitiesChanged()
	done(true)
	return nil
}
