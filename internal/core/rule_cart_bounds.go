package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// NewCartBoundsRule returns the rule warning about carts positioned outside
// the inset band interactive moves clamp to. Imported documents may place
// carts anywhere in [0,1]; the editor renders them but flags the pose.
func NewCartBoundsRule() domain.Rule {
	return cartBoundsRule{}
}

type cartBoundsRule struct{}

func (cartBoundsRule) Name() string { return "cart_bounds" }

func (cartBoundsRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, cart := range view.ListCarts() {
		if cart.X < domain.CartMinNormalized || cart.X > domain.CartMaxNormalized ||
			cart.Y < domain.CartMinNormalized || cart.Y > domain.CartMaxNormalized {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "cart_bounds",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("cart %s (%s) at (%.2f, %.2f) is outside the visible inset", cart.Name, cart.ID, cart.X, cart.Y),
				Entity:   domain.EntityCart,
				EntityID: cart.ID,
			})
		}
	}
	return res, nil
}
