package domain

import "strings"

// AutoFilterRule names a predicate that classifies items into a category
// automatically, without explicit per-item assignment. The empty rule means
// the category is manual-only.
type AutoFilterRule string

const (
	RuleWallItems  AutoFilterRule = "wall"
	RuleFloorItems AutoFilterRule = "floor"
	RuleWiredItems AutoFilterRule = "wired"
	RuleWallpaper  AutoFilterRule = "wallpaper"
	RulePoster     AutoFilterRule = "poster"
	RuleTrophy     AutoFilterRule = "trophy"
	RuleGroupFurni AutoFilterRule = "group"
	RuleRareFurni  AutoFilterRule = "rare"
)

// KnownRule reports whether the rule belongs to the fixed enumeration.
// Unknown rules are tolerated everywhere (they simply never match) so that a
// client and a server running different rule sets degrade gracefully.
func KnownRule(rule AutoFilterRule) bool {
	switch rule {
	case RuleWallItems, RuleFloorItems, RuleWiredItems, RuleWallpaper,
		RulePoster, RuleTrophy, RuleGroupFurni, RuleRareFurni:
		return true
	}
	return false
}

// Placement tells whether a furni type sits on the floor or hangs on a wall.
type Placement string

const (
	PlacementFloor Placement = "floor"
	PlacementWall  Placement = "wall"
)

// FurniCategory is the game server's native classification code for a furni
// type. Only the codes the auto-filter rules test for are named here.
type FurniCategory int

const (
	FurniCategoryGeneric   FurniCategory = 0
	FurniCategoryWallpaper FurniCategory = 2
	FurniCategoryLandscape FurniCategory = 4
	FurniCategoryPoster    FurniCategory = 6
	FurniCategoryTrophy    FurniCategory = 7
	FurniCategoryCredit    FurniCategory = 8
	FurniCategoryRare      FurniCategory = 9
)

// wiredClassPrefix marks wired logic pieces in furni class names.
const wiredClassPrefix = "wf_"

// ItemTraits are the intrinsic attributes of a furni type that the
// auto-filter rules test against.
type ItemTraits struct {
	ClassName     string
	Placement     Placement
	FurniCategory FurniCategory
	HasGroup      bool
}

// IsWired reports whether the class name marks a wired logic piece.
func (t ItemTraits) IsWired() bool {
	return strings.HasPrefix(t.ClassName, wiredClassPrefix)
}
