package core

import (
	"context"
	"fmt"

	"simroom/pkg/domain"
)

// NewScenarioItemsRule returns the rule warning about scenario item sets that
// reference deleted items. These references are tolerated (the simulation
// skips them) but the author should know the scenario has decayed.
func NewScenarioItemsRule() domain.Rule {
	return scenarioItemsRule{}
}

type scenarioItemsRule struct{}

func (scenarioItemsRule) Name() string { return "scenario_items" }

func (scenarioItemsRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, sc := range view.ListScenarios() {
		missing := 0
		for _, set := range [][]string{sc.EssentialItemIDs, sc.OptionalItemIDs} {
			for _, id := range set {
				if _, ok := view.FindItem(id); !ok {
					missing++
				}
			}
		}
		if missing > 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "scenario_items",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("scenario %s (%s) references %d deleted item(s)", sc.Name, sc.ID, missing),
				Entity:   domain.EntityScenario,
				EntityID: sc.ID,
			})
		}
	}
	return res, nil
}
