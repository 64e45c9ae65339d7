package interfaces

import (
	"errors"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
)

var errMockFailure = errors.New("mock service failure")

// MockCategoryService is a hand-rolled CategoryServiceInterface double. Err
// makes every call fail; the Last* fields record the most recent arguments.
type MockCategoryService struct {
	Err error

	SnapshotResult *domain.CategorySnapshot
	CreateResult   *domain.Category
	UpdateResult   *domain.Category

	LastUserID     string
	LastName       string
	LastColor      string
	LastRule       domain.AutoFilterRule
	LastCategoryID int64
	LastItemType   int64
	LastPatch      domain.CategoryPatch
	LastOrder      []int64
}

func (m *MockCategoryService) GetSnapshot(userID string) (*domain.CategorySnapshot, error) {
	m.LastUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	if m.SnapshotResult != nil {
		return m.SnapshotResult, nil
	}
	return &domain.CategorySnapshot{
		Categories:  []domain.Category{},
		Assignments: map[int64][]int64{},
	}, nil
}

func (m *MockCategoryService) CreateCategory(userID, name, color string, rule domain.AutoFilterRule) (*domain.Category, error) {
	m.LastUserID = userID
	m.LastName = name
	m.LastColor = color
	m.LastRule = rule
	if m.Err != nil {
		return nil, m.Err
	}
	if m.CreateResult != nil {
		return m.CreateResult, nil
	}
	return &domain.Category{ID: 1, Name: name, Color: color, AutoFilter: rule}, nil
}

func (m *MockCategoryService) UpdateCategory(userID string, categoryID int64, patch domain.CategoryPatch) (*domain.Category, error) {
	m.LastUserID = userID
	m.LastCategoryID = categoryID
	m.LastPatch = patch
	if m.Err != nil {
		return nil, m.Err
	}
	if m.UpdateResult != nil {
		return m.UpdateResult, nil
	}
	return &domain.Category{ID: categoryID}, nil
}

func (m *MockCategoryService) DeleteCategory(userID string, categoryID int64) error {
	m.LastUserID = userID
	m.LastCategoryID = categoryID
	return m.Err
}

func (m *MockCategoryService) AssignItem(userID string, categoryID, itemType int64) error {
	m.LastUserID = userID
	m.LastCategoryID = categoryID
	m.LastItemType = itemType
	return m.Err
}

func (m *MockCategoryService) UnassignItem(userID string, categoryID, itemType int64) error {
	m.LastUserID = userID
	m.LastCategoryID = categoryID
	m.LastItemType = itemType
	return m.Err
}

func (m *MockCategoryService) ReorderCategories(userID string, order []int64) error {
	m.LastUserID = userID
	m.LastOrder = append([]int64(nil), order...)
	return m.Err
}
