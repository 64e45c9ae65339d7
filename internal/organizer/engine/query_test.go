package engine

import (
	"testing"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	"github.com/stretchr/testify/assert"
)

func newTestQueryService() (*CategoryStore, *QueryService) {
	store := NewCategoryStore()
	store.SetCategories([]domain.Category{
		{ID: 1, Name: "Wall Stuff", Color: "#3b82f6", AutoFilter: domain.RuleWallItems, Order: 0},
		{ID: 2, Name: "Favorites", Color: "#ef4444", Order: 1},
	})
	return store, NewQueryService(store, NewAutoFilterEvaluator(testClassifier()))
}

func TestIsMember_ExplicitAssignmentOrRule(t *testing.T) {
	store, query := newTestQueryService()
	// Item 100 is a floor item; only the explicit assignment puts it in the
	// wall category.
	store.SetAssignments(map[int64][]int64{100: {1}})

	wall, _ := store.CategoryByID(1)
	assert.True(t, query.IsMember(100, wall), "explicitly assigned floor item")
	assert.True(t, query.IsMember(101, wall), "wall item caught by the rule alone")
	assert.False(t, query.IsMember(102, wall), "unassigned floor item")
}

func TestIsMember_PlainCategoryRequiresAssignment(t *testing.T) {
	store, query := newTestQueryService()
	store.SetAssignments(map[int64][]int64{100: {2}})

	favorites, _ := store.CategoryByID(2)
	assert.True(t, query.IsMember(100, favorites))
	assert.False(t, query.IsMember(101, favorites), "a category without a rule admits only assigned items")
}

func TestFilterByCategory_ZeroIsAllView(t *testing.T) {
	_, query := newTestQueryService()
	items := []int64{100, 101, 102}

	assert.Equal(t, items, query.FilterByCategory(items, 0))
	assert.Equal(t, len(items), query.CountFor(0, items))
}

func TestFilterByCategory_CombinesRuleAndAssignments(t *testing.T) {
	store, query := newTestQueryService()
	store.SetAssignments(map[int64][]int64{100: {1}})
	items := []int64{100, 101, 102}

	assert.Equal(t, []int64{100, 101}, query.FilterByCategory(items, 1))
	assert.Equal(t, 2, query.CountFor(1, items))
}

func TestFilterByCategory_UnknownCategoryIsEmpty(t *testing.T) {
	_, query := newTestQueryService()
	assert.Empty(t, query.FilterByCategory([]int64{100, 101}, 99))
	assert.Equal(t, 0, query.CountFor(99, []int64{100, 101}))
}

func TestVisibleItems_FollowsActiveSelection(t *testing.T) {
	store, query := newTestQueryService()
	items := []int64{100, 101, 102}

	assert.Equal(t, items, query.VisibleItems(items), "no selection means the All view")

	store.SetActiveCategory(1)
	assert.Equal(t, []int64{101}, query.VisibleItems(items))
}
