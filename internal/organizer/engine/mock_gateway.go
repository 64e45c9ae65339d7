package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
)

var errGatewayFailure = errors.New("gateway failure")

// MockGateway is a controllable in-memory CategoryGateway for engine tests.
// Fail* flags make the matching call report failure; a *Gate channel, when
// set, holds the matching call open until the channel is closed so tests can
// observe the optimistic state before the confirmation settles.
type MockGateway struct {
	mu sync.Mutex

	NextID     int64
	LoadResult *domain.CategorySnapshot

	FailLoad     bool
	FailCreate   bool
	FailUpdate   bool
	FailRemove   bool
	FailAssign   bool
	FailUnassign bool
	FailReorder  bool

	CreateGate   chan struct{}
	UpdateGate   chan struct{}
	AssignGate   chan struct{}
	UnassignGate chan struct{}

	CreateCalls   int
	UpdateCalls   int
	RemoveCalls   int
	AssignCalls   int
	UnassignCalls int
	ReorderCalls  int

	LastPatch   domain.CategoryPatch
	LastReorder []int64
}

func NewMockGateway() *MockGateway {
	return &MockGateway{NextID: 1}
}

func (g *MockGateway) Load(_ context.Context) (*domain.CategorySnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailLoad {
		return nil, errGatewayFailure
	}
	if g.LoadResult != nil {
		return g.LoadResult, nil
	}
	return &domain.CategorySnapshot{Assignments: map[int64][]int64{}}, nil
}

func (g *MockGateway) Create(_ context.Context, name, color string, rule domain.AutoFilterRule) (*domain.Category, error) {
	if g.CreateGate != nil {
		<-g.CreateGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CreateCalls++
	if g.FailCreate {
		return nil, errGatewayFailure
	}
	id := g.NextID
	g.NextID++
	return &domain.Category{ID: id, Name: name, Color: color, AutoFilter: rule}, nil
}

func (g *MockGateway) Update(_ context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	if g.UpdateGate != nil {
		<-g.UpdateGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.UpdateCalls++
	g.LastPatch = patch
	if g.FailUpdate {
		return nil, errGatewayFailure
	}
	return &domain.Category{ID: id}, nil
}

func (g *MockGateway) Remove(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RemoveCalls++
	if g.FailRemove {
		return errGatewayFailure
	}
	return nil
}

func (g *MockGateway) Assign(_ context.Context, categoryID, itemType int64) error {
	if g.AssignGate != nil {
		<-g.AssignGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.AssignCalls++
	if g.FailAssign {
		return errGatewayFailure
	}
	return nil
}

func (g *MockGateway) Unassign(_ context.Context, categoryID, itemType int64) error {
	if g.UnassignGate != nil {
		<-g.UnassignGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.UnassignCalls++
	if g.FailUnassign {
		return errGatewayFailure
	}
	return nil
}

func (g *MockGateway) Reorder(_ context.Context, order []int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ReorderCalls++
	g.LastReorder = append([]int64(nil), order...)
	if g.FailReorder {
		return errGatewayFailure
	}
	return nil
}
