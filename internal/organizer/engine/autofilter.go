package engine

import "github.com/furnidesk/FurniOrganizer/internal/organizer/domain"

// ItemClassifier resolves a furni type to its intrinsic traits. The evaluator
// only consumes this capability; it never reaches into item data itself, so
// it stays a pure predicate over whatever trait source the client wires in.
type ItemClassifier interface {
	Traits(itemType int64) (domain.ItemTraits, bool)
}

// StaticClassifier is a map-backed ItemClassifier. The game client fills it
// once from the furni data feed; tests fill it by hand.
type StaticClassifier map[int64]domain.ItemTraits

func (c StaticClassifier) Traits(itemType int64) (domain.ItemTraits, bool) {
	traits, ok := c[itemType]
	return traits, ok
}

// AutoFilterEvaluator decides whether an item falls under an auto-filter
// rule. Total and side-effect-free: an unknown rule or an unknown item
// evaluates to false rather than erroring, so rule-set mismatches between
// client and server degrade to "no match" instead of breaking classification.
type AutoFilterEvaluator struct {
	classifier ItemClassifier
}

func NewAutoFilterEvaluator(classifier ItemClassifier) *AutoFilterEvaluator {
	return &AutoFilterEvaluator{classifier: classifier}
}

func (e *AutoFilterEvaluator) Matches(itemType int64, rule domain.AutoFilterRule) bool {
	traits, ok := e.classifier.Traits(itemType)
	if !ok {
		return false
	}
	switch rule {
	case domain.RuleWallItems:
		return traits.Placement == domain.PlacementWall
	case domain.RuleFloorItems:
		return traits.Placement == domain.PlacementFloor
	case domain.RuleWiredItems:
		return traits.IsWired()
	case domain.RuleWallpaper:
		return traits.FurniCategory == domain.FurniCategoryWallpaper ||
			traits.FurniCategory == domain.FurniCategoryLandscape
	case domain.RulePoster:
		return traits.FurniCategory == domain.FurniCategoryPoster
	case domain.RuleTrophy:
		return traits.FurniCategory == domain.FurniCategoryTrophy
	case domain.RuleGroupFurni:
		return traits.HasGroup
	case domain.RuleRareFurni:
		return traits.FurniCategory == domain.FurniCategoryRare ||
			traits.FurniCategory == domain.FurniCategoryCredit
	}
	return false
}
