package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// NewReferenceIntegrityRule returns the in-transaction rule guarding entity
// references. Every dangling reference warns and nothing blocks: imported
// legacy documents can carry drawers whose cart is gone, and a blocking
// violation over pre-existing state would reject every later commit. Lookups
// treat a dangling id as unassigned.
func NewReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, drawer := range view.ListDrawers() {
		if drawer.CartID == "" {
			continue
		}
		if _, ok := view.FindCart(drawer.CartID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "reference_integrity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("drawer %s (%s) references missing cart %s", drawer.Name, drawer.ID, drawer.CartID),
				Entity:   domain.EntityDrawer,
				EntityID: drawer.ID,
			})
		}
	}
	for _, item := range view.ListItems() {
		if item.DrawerID == "" {
			continue
		}
		drawer, ok := view.FindDrawer(item.DrawerID)
		if !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "reference_integrity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("item %s (%s) references missing drawer %s", item.Name, item.ID, item.DrawerID),
				Entity:   domain.EntityItem,
				EntityID: item.ID,
			})
			continue
		}
		if drawer.CartID != item.CartID {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "reference_integrity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("item %s (%s) placed in drawer %s of a different cart", item.Name, item.ID, item.DrawerID),
				Entity:   domain.EntityItem,
				EntityID: item.ID,
			})
		}
	}
	return res, nil
}
