package core

import "simroom/pkg/domain"

// NewDefaultRulesEngine returns an engine with the standard editor rules
// registered.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewReferenceIntegrityRule())
	engine.Register(NewScenarioItemsRule())
	engine.Register(NewCartBoundsRule())
	engine.Register(NewCameraTargetsRule())
	return engine
}
