package engine

import (
	"sort"
	"sync"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
)

// CategoryStore is the authoritative client-side snapshot of the user's
// categories and explicit item assignments. It lives for the whole game
// session and is shared by reference across view trees; the MutationEngine is
// its single writer, everything else reads derived views through the
// QueryService.
type CategoryStore struct {
	mu          sync.RWMutex
	categories  []domain.Category
	assignments map[int64]map[int64]struct{}
	activeID    int64
}

// Snapshot is a deep copy of the store state, taken before an optimistic
// mutation so a failed confirmation can restore the exact prior state.
type Snapshot struct {
	categories  []domain.Category
	assignments map[int64]map[int64]struct{}
	activeID    int64
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{
		assignments: make(map[int64]map[int64]struct{}),
	}
}

// Reset clears all state on session teardown.
func (s *CategoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = nil
	s.assignments = make(map[int64]map[int64]struct{})
	s.activeID = 0
}

// Categories returns a copy of the category list ordered by rank.
func (s *CategoryStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// CategoryByID looks a category up by its current id, temporary or server
// assigned.
func (s *CategoryStore) CategoryByID(id int64) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// AssignmentsFor returns the category ids the item type is explicitly
// assigned to.
func (s *CategoryStore) AssignmentsFor(itemType int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.assignments[itemType]
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func (s *CategoryStore) IsAssigned(itemType, categoryID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assignments[itemType][categoryID]
	return ok
}

// ActiveCategoryID returns the currently selected category, 0 for the "All"
// view.
func (s *CategoryStore) ActiveCategoryID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

func (s *CategoryStore) SetActiveCategory(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

// SetCategories replaces the whole category list (initial load and bulk
// restore paths).
func (s *CategoryStore) SetCategories(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make([]domain.Category, len(categories))
	copy(s.categories, categories)
}

// SetAssignments replaces the whole assignment table from a loaded snapshot.
func (s *CategoryStore) SetAssignments(assignments map[int64][]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = make(map[int64]map[int64]struct{}, len(assignments))
	for itemType, ids := range assignments {
		set := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		s.assignments[itemType] = set
	}
}

// Snapshot deep-copies the full store state.
func (s *CategoryStore) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &Snapshot{
		categories:  make([]domain.Category, len(s.categories)),
		assignments: copyAssignments(s.assignments),
		activeID:    s.activeID,
	}
	copy(snap.categories, s.categories)
	return snap
}

// Restore puts the store back to a previously captured snapshot.
func (s *CategoryStore) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make([]domain.Category, len(snap.categories))
	copy(s.categories, snap.categories)
	s.assignments = copyAssignments(snap.assignments)
	s.activeID = snap.activeID
}

func copyAssignments(in map[int64]map[int64]struct{}) map[int64]map[int64]struct{} {
	out := make(map[int64]map[int64]struct{}, len(in))
	for itemType, set := range in {
		dup := make(map[int64]struct{}, len(set))
		for id := range set {
			dup[id] = struct{}{}
		}
		out[itemType] = dup
	}
	return out
}

// The mutators below are the only write paths besides the bulk setters; they
// are reserved for the MutationEngine.

func (s *CategoryStore) appendCategory(category domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, category)
}

// updateCategory applies fn to the category with the given id under the write
// lock and reports whether the id was found.
func (s *CategoryStore) updateCategory(id int64, fn func(*domain.Category)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			fn(&s.categories[i])
			return true
		}
	}
	return false
}

// removeCategory deletes the category and prunes its id from every assignment
// set in the same critical section, so no dangling reference is ever
// observable. It also clears the active selection if it pointed at the
// removed category.
func (s *CategoryStore) removeCategory(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	for itemType, set := range s.assignments {
		delete(set, id)
		if len(set) == 0 {
			delete(s.assignments, itemType)
		}
	}
	if s.activeID == id {
		s.activeID = 0
	}
}

func (s *CategoryStore) addAssignment(itemType, categoryID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.assignments[itemType]
	if !ok {
		set = make(map[int64]struct{})
		s.assignments[itemType] = set
	}
	set[categoryID] = struct{}{}
}

func (s *CategoryStore) removeAssignment(itemType, categoryID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.assignments[itemType]
	if !ok {
		return
	}
	delete(set, categoryID)
	if len(set) == 0 {
		delete(s.assignments, itemType)
	}
}

// applyOrder rewrites the rank of every listed category to its index in
// orderedIDs and re-sorts the list. Ids not listed keep their rank; callers
// are expected to always supply the full id set.
func (s *CategoryStore) applyOrder(orderedIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rank := make(map[int64]int, len(orderedIDs))
	for i, id := range orderedIDs {
		rank[id] = i
	}
	for i := range s.categories {
		if r, ok := rank[s.categories[i].ID]; ok {
			s.categories[i].Order = r
		}
	}
	sort.SliceStable(s.categories, func(i, j int) bool {
		return s.categories[i].Order < s.categories[j].Order
	})
}

// replaceCategoryID rewrites a temp id to its server-assigned id in the
// category list, in every assignment set and in the active selection, all in
// one critical section. Cross-references held by assignment entries are
// reconciled together with the category itself.
func (s *CategoryStore) replaceCategoryID(oldID, newID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == oldID {
			s.categories[i].ID = newID
		}
	}
	for _, set := range s.assignments {
		if _, ok := set[oldID]; ok {
			delete(set, oldID)
			set[newID] = struct{}{}
		}
	}
	if s.activeID == oldID {
		s.activeID = newID
	}
}
