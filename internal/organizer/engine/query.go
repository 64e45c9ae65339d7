package engine

import "github.com/furnidesk/FurniOrganizer/internal/organizer/domain"

// QueryService derives read-only views from the CategoryStore. Membership is
// the OR of explicit assignment and the category's auto-filter rule: explicit
// assignment always wins, and a rule-based category still accepts manual
// overrides. Counts are recomputed from current state on every call;
// assignment changes are rare next to renders and correctness matters more
// than a cached counter here.
type QueryService struct {
	store     *CategoryStore
	evaluator *AutoFilterEvaluator
}

func NewQueryService(store *CategoryStore, evaluator *AutoFilterEvaluator) *QueryService {
	return &QueryService{store: store, evaluator: evaluator}
}

// IsMember reports whether the item belongs to the category, either through
// an explicit assignment or through the category's auto-filter rule.
func (q *QueryService) IsMember(itemType int64, category domain.Category) bool {
	if q.store.IsAssigned(itemType, category.ID) {
		return true
	}
	if category.AutoFilter == "" {
		return false
	}
	return q.evaluator.Matches(itemType, category.AutoFilter)
}

// FilterByCategory returns the subset of items belonging to the category.
// A zero category id is the "All" view: items come back unchanged.
func (q *QueryService) FilterByCategory(items []int64, categoryID int64) []int64 {
	if categoryID == 0 {
		return items
	}
	category, ok := q.store.CategoryByID(categoryID)
	if !ok {
		return nil
	}
	var out []int64
	for _, itemType := range items {
		if q.IsMember(itemType, category) {
			out = append(out, itemType)
		}
	}
	return out
}

// CountFor is the per-chip badge count: the cardinality of FilterByCategory.
func (q *QueryService) CountFor(categoryID int64, items []int64) int {
	if categoryID == 0 {
		return len(items)
	}
	return len(q.FilterByCategory(items, categoryID))
}

// VisibleItems filters by the active category selection.
func (q *QueryService) VisibleItems(items []int64) []int64 {
	return q.FilterByCategory(items, q.store.ActiveCategoryID())
}
