package application

import (
	"errors"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
)

var errRepoFailure = errors.New("repository failure")

// MockCategoryRepository is an in-memory CategoryRepository double for service
// tests. FailAll makes every call error; NextID feeds InsertCategory.
type MockCategoryRepository struct {
	FailAll bool
	NextID  int64

	Categories  []domain.Category
	Assignments map[int64][]int64

	InsertAssignmentCalls int
	DeletedCategoryIDs    []int64
	LastOrder             []int64
	OrphansPruned         int64
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		NextID:      1,
		Assignments: map[int64][]int64{},
	}
}

func (m *MockCategoryRepository) FindCategories(_ string) ([]domain.Category, error) {
	if m.FailAll {
		return nil, errRepoFailure
	}
	return append([]domain.Category(nil), m.Categories...), nil
}

func (m *MockCategoryRepository) FindAssignments(_ string) (map[int64][]int64, error) {
	if m.FailAll {
		return nil, errRepoFailure
	}
	return m.Assignments, nil
}

func (m *MockCategoryRepository) CategoryExists(_ string, categoryID int64) (bool, error) {
	if m.FailAll {
		return false, errRepoFailure
	}
	for _, c := range m.Categories {
		if c.ID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCategoryRepository) InsertCategory(_ string, category *domain.Category) error {
	if m.FailAll {
		return errRepoFailure
	}
	category.ID = m.NextID
	m.NextID++
	m.Categories = append(m.Categories, *category)
	return nil
}

func (m *MockCategoryRepository) UpdateCategory(_ string, categoryID int64, patch domain.CategoryPatch) (*domain.Category, error) {
	if m.FailAll {
		return nil, errRepoFailure
	}
	for i := range m.Categories {
		if m.Categories[i].ID != categoryID {
			continue
		}
		if patch.Name != nil {
			m.Categories[i].Name = *patch.Name
		}
		if patch.Color != nil {
			m.Categories[i].Color = *patch.Color
		}
		if patch.Order != nil {
			m.Categories[i].Order = *patch.Order
		}
		if patch.AutoFilter != nil {
			m.Categories[i].AutoFilter = *patch.AutoFilter
		}
		updated := m.Categories[i]
		return &updated, nil
	}
	return nil, errRepoFailure
}

func (m *MockCategoryRepository) DeleteCategory(_ string, categoryID int64) error {
	if m.FailAll {
		return errRepoFailure
	}
	m.DeletedCategoryIDs = append(m.DeletedCategoryIDs, categoryID)
	kept := m.Categories[:0]
	for _, c := range m.Categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	m.Categories = kept
	return nil
}

func (m *MockCategoryRepository) InsertAssignment(_ string, categoryID, itemType int64) error {
	if m.FailAll {
		return errRepoFailure
	}
	m.InsertAssignmentCalls++
	for _, id := range m.Assignments[itemType] {
		if id == categoryID {
			return nil
		}
	}
	m.Assignments[itemType] = append(m.Assignments[itemType], categoryID)
	return nil
}

func (m *MockCategoryRepository) DeleteAssignment(_ string, categoryID, itemType int64) error {
	if m.FailAll {
		return errRepoFailure
	}
	kept := m.Assignments[itemType][:0]
	for _, id := range m.Assignments[itemType] {
		if id != categoryID {
			kept = append(kept, id)
		}
	}
	m.Assignments[itemType] = kept
	return nil
}

func (m *MockCategoryRepository) UpdateOrder(_ string, order []int64) error {
	if m.FailAll {
		return errRepoFailure
	}
	m.LastOrder = append([]int64(nil), order...)
	return nil
}

func (m *MockCategoryRepository) DeleteOrphanedAssignments() (int64, error) {
	if m.FailAll {
		return 0, errRepoFailure
	}
	return m.OrphansPruned, nil
}
