package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// NewCameraTargetsRule returns the rule checking camera view targets. A
// camera may point at a cart or a drawer; when that entity is gone the view
// still renders from its stored pose, so a dangling target only warns.
func NewCameraTargetsRule() domain.Rule {
	return cameraTargetsRule{}
}

type cameraTargetsRule struct{}

func (cameraTargetsRule) Name() string { return "camera_targets" }

func (cameraTargetsRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, cam := range view.ListCameraViews() {
		if cam.TargetCartID != "" {
			if _, ok := view.FindCart(cam.TargetCartID); !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "camera_targets",
					Severity: domain.SeverityWarn,
					Message:  fmt.Sprintf("camera %s (%s) targets missing cart %s", cam.Name, cam.ID, cam.TargetCartID),
					Entity:   domain.EntityCameraView,
					EntityID: cam.ID,
				})
			}
		}
		if cam.TargetDrawerID != "" {
			if _, ok := view.FindDrawer(cam.TargetDrawerID); !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "camera_targets",
					Severity: domain.SeverityWarn,
					Message:  fmt.Sprintf("camera %s (%s) targets missing drawer %s", cam.Name, cam.ID, cam.TargetDrawerID),
					Entity:   domain.EntityCameraView,
					EntityID: cam.ID,
				})
			}
		}
	}
	return res, nil
}
