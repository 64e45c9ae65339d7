package application

import (
	"strings"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	orgErrors "github.com/furnidesk/FurniOrganizer/internal/organizer/errors"
)

// CategoryService is the server-side counterpart of the client engine: plain
// CRUD over the category repository with the same validation rules the client
// applies before it ever sends a request. Auto-filter rules are stored as
// given, even unknown ones, so old servers keep working for newer clients.
type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetSnapshot returns the user's full category state: the ordered category
// list plus the explicit item assignments.
func (s *CategoryService) GetSnapshot(userID string) (*domain.CategorySnapshot, error) {
	categories, err := s.repo.FindCategories(userID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.FindAssignments(userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	if assignments == nil {
		assignments = map[int64][]int64{}
	}
	return &domain.CategorySnapshot{Categories: categories, Assignments: assignments}, nil
}

// CreateCategory persists a new category at the end of the user's list and
// returns it with its server-assigned id.
func (s *CategoryService) CreateCategory(userID, name, color string, rule domain.AutoFilterRule) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, orgErrors.ErrEmptyCategoryName
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, orgErrors.ErrCategoryNameTooLong
	}
	if !domain.IsPaletteColor(color) {
		return nil, orgErrors.ErrUnknownPaletteColor
	}
	existing, err := s.repo.FindCategories(userID)
	if err != nil {
		return nil, err
	}
	category := domain.Category{
		Name:       name,
		Color:      color,
		AutoFilter: rule,
		Order:      len(existing),
	}
	if err := s.repo.InsertCategory(userID, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies a partial update and returns the updated category.
func (s *CategoryService) UpdateCategory(userID string, categoryID int64, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, orgErrors.ErrEmptyCategoryName
		}
		if len(trimmed) > domain.MaxCategoryNameLength {
			return nil, orgErrors.ErrCategoryNameTooLong
		}
		patch.Name = &trimmed
	}
	if patch.Color != nil && !domain.IsPaletteColor(*patch.Color) {
		return nil, orgErrors.ErrUnknownPaletteColor
	}
	if err := s.requireCategory(userID, categoryID); err != nil {
		return nil, err
	}
	return s.repo.UpdateCategory(userID, categoryID, patch)
}

// DeleteCategory removes the category together with every assignment row that
// references it.
func (s *CategoryService) DeleteCategory(userID string, categoryID int64) error {
	if err := s.requireCategory(userID, categoryID); err != nil {
		return err
	}
	return s.repo.DeleteCategory(userID, categoryID)
}

// AssignItem records an explicit item assignment. Idempotent: assigning an
// already assigned pairing succeeds without effect.
func (s *CategoryService) AssignItem(userID string, categoryID, itemType int64) error {
	if err := s.requireCategory(userID, categoryID); err != nil {
		return err
	}
	return s.repo.InsertAssignment(userID, categoryID, itemType)
}

// UnassignItem removes an explicit item assignment. Idempotent.
func (s *CategoryService) UnassignItem(userID string, categoryID, itemType int64) error {
	if err := s.requireCategory(userID, categoryID); err != nil {
		return err
	}
	return s.repo.DeleteAssignment(userID, categoryID, itemType)
}

// ReorderCategories rewrites every listed category's rank to its index in
// order.
func (s *CategoryService) ReorderCategories(userID string, order []int64) error {
	seen := make(map[int64]struct{}, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup {
			return orgErrors.ErrIncompleteOrder
		}
		seen[id] = struct{}{}
		if err := s.requireCategory(userID, id); err != nil {
			return err
		}
	}
	return s.repo.UpdateOrder(userID, order)
}

// PruneOrphanedAssignments drops assignment rows whose category no longer
// exists. The delete path already cascades; this sweep is a safety net run on
// a schedule.
func (s *CategoryService) PruneOrphanedAssignments() (int64, error) {
	return s.repo.DeleteOrphanedAssignments()
}

func (s *CategoryService) requireCategory(userID string, categoryID int64) error {
	exists, err := s.repo.CategoryExists(userID, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return orgErrors.ErrCategoryNotFound
	}
	return nil
}
