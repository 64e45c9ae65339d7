package domain

import "context"

// MaxCategoryNameLength is part of the category service contract: names longer
// than this are rejected before any request is made.
const MaxCategoryNameLength = 30

// Palette is the fixed set of chip colors a category may carry. Colors are not
// unique across categories; a category created without an explicit color gets
// one round-robin from this list.
var Palette = []string{
	"#3b82f6",
	"#ef4444",
	"#f59e0b",
	"#10b981",
	"#8b5cf6",
	"#ec4899",
	"#14b8a6",
	"#64748b",
}

func IsPaletteColor(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

// Category is a user-defined label grouping inventory items, independent of the
// game server's native item categorization. Server-assigned ids are positive;
// a category created locally but not yet confirmed holds a negative temp id.
type Category struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Color      string         `json:"color"`
	AutoFilter AutoFilterRule `json:"autoFilter,omitempty"`
	Order      int            `json:"order"`
}

// IsTemporary reports whether the category still carries a locally issued id.
func (c Category) IsTemporary() bool {
	return c.ID < 0
}

// CategoryPatch is a partial update; nil fields are left untouched.
type CategoryPatch struct {
	Name       *string         `json:"name,omitempty"`
	Color      *string         `json:"color,omitempty"`
	Order      *int            `json:"order,omitempty"`
	AutoFilter *AutoFilterRule `json:"autoFilter,omitempty"`
}

// CategorySnapshot is the full per-user category state as served by the
// category service: the category list plus the explicit item assignments
// (item type -> category ids).
type CategorySnapshot struct {
	Categories  []Category        `json:"categories"`
	Assignments map[int64][]int64 `json:"assignments"`
}

// CategoryGateway is the client-side view of the remote category service.
// Every call can succeed, fail, or be slow; any non-2xx response surfaces as a
// plain error. Credentials ride along implicitly (session cookie).
type CategoryGateway interface {
	Load(ctx context.Context) (*CategorySnapshot, error)
	Create(ctx context.Context, name, color string, rule AutoFilterRule) (*Category, error)
	Update(ctx context.Context, id int64, patch CategoryPatch) (*Category, error)
	Remove(ctx context.Context, id int64) error
	Assign(ctx context.Context, categoryID, itemType int64) error
	Unassign(ctx context.Context, categoryID, itemType int64) error
	Reorder(ctx context.Context, order []int64) error
}

// CategoryRepository is the server-side persistence port backing the category
// service.
type CategoryRepository interface {
	FindCategories(userID string) ([]Category, error)
	FindAssignments(userID string) (map[int64][]int64, error)
	CategoryExists(userID string, categoryID int64) (bool, error)
	InsertCategory(userID string, category *Category) error
	UpdateCategory(userID string, categoryID int64, patch CategoryPatch) (*Category, error)
	DeleteCategory(userID string, categoryID int64) error
	InsertAssignment(userID string, categoryID, itemType int64) error
	DeleteAssignment(userID string, categoryID, itemType int64) error
	UpdateOrder(userID string, order []int64) error
	DeleteOrphanedAssignments() (int64, error)
}
