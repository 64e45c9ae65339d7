package infrastructure

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	orgErrors "github.com/furnidesk/FurniOrganizer/internal/organizer/errors"
)

const schema = `
CREATE TABLE user_categories (
    id          BIGSERIAL PRIMARY KEY,
    user_id     UUID NOT NULL,
    name        VARCHAR(30) NOT NULL,
    color       VARCHAR(7) NOT NULL,
    auto_filter TEXT,
    sort_order  INT NOT NULL DEFAULT 0
);
CREATE TABLE category_assignments (
    user_id     UUID NOT NULL,
    item_type   BIGINT NOT NULL,
    category_id BIGINT NOT NULL REFERENCES user_categories (id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, item_type, category_id)
);
`

const (
	testUserID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	otherUserID = "550e8400-e29b-41d4-a716-446655440000"
)

func setupRepository(t *testing.T) *CategoryRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repository test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("furniorganizer"),
		postgres.WithUsername("furni"),
		postgres.WithPassword("furni"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("could not terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)

	return NewCategoryRepository(db)
}

func TestCategoryRepository_RoundTrip(t *testing.T) {
	repo := setupRepository(t)

	first := &domain.Category{Name: "Rares", Color: "#ef4444", AutoFilter: domain.RuleRareFurni, Order: 0}
	require.NoError(t, repo.InsertCategory(testUserID, first))
	assert.Greater(t, first.ID, int64(0), "insert must surface the server-assigned id")

	second := &domain.Category{Name: "Plain", Color: "#3b82f6", Order: 1}
	require.NoError(t, repo.InsertCategory(testUserID, second))

	categories, err := repo.FindCategories(testUserID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Rares", categories[0].Name)
	assert.Equal(t, domain.RuleRareFurni, categories[0].AutoFilter)
	assert.Equal(t, domain.AutoFilterRule(""), categories[1].AutoFilter, "a NULL auto_filter scans to the empty rule")

	exists, err := repo.CategoryExists(testUserID, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.CategoryExists(otherUserID, first.ID)
	require.NoError(t, err)
	assert.False(t, exists, "categories are scoped per user")
}

func TestCategoryRepository_UpdatePatchesOnlySetFields(t *testing.T) {
	repo := setupRepository(t)

	category := &domain.Category{Name: "Before", Color: "#3b82f6", Order: 0}
	require.NoError(t, repo.InsertCategory(testUserID, category))

	name := "After"
	updated, err := repo.UpdateCategory(testUserID, category.ID, domain.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "#3b82f6", updated.Color, "unset patch fields must stay untouched")

	rule := domain.RuleTrophy
	updated, err = repo.UpdateCategory(testUserID, category.ID, domain.CategoryPatch{AutoFilter: &rule})
	require.NoError(t, err)
	assert.Equal(t, domain.RuleTrophy, updated.AutoFilter)

	empty := domain.AutoFilterRule("")
	updated, err = repo.UpdateCategory(testUserID, category.ID, domain.CategoryPatch{AutoFilter: &empty})
	require.NoError(t, err)
	assert.Equal(t, domain.AutoFilterRule(""), updated.AutoFilter, "clearing the rule stores NULL")

	_, err = repo.UpdateCategory(testUserID, 99999, domain.CategoryPatch{Name: &name})
	assert.ErrorIs(t, err, orgErrors.ErrCategoryNotFound)
}

func TestCategoryRepository_AssignmentsAndCascade(t *testing.T) {
	repo := setupRepository(t)

	category := &domain.Category{Name: "Plants", Color: "#10b981", Order: 0}
	require.NoError(t, repo.InsertCategory(testUserID, category))

	require.NoError(t, repo.InsertAssignment(testUserID, category.ID, 500))
	require.NoError(t, repo.InsertAssignment(testUserID, category.ID, 500), "duplicate insert must be a no-op")
	require.NoError(t, repo.InsertAssignment(testUserID, category.ID, 501))

	assignments, err := repo.FindAssignments(testUserID)
	require.NoError(t, err)
	assert.Equal(t, []int64{category.ID}, assignments[500])
	assert.Equal(t, []int64{category.ID}, assignments[501])

	require.NoError(t, repo.DeleteAssignment(testUserID, category.ID, 501))
	assignments, err = repo.FindAssignments(testUserID)
	require.NoError(t, err)
	assert.NotContains(t, assignments, int64(501))

	require.NoError(t, repo.DeleteCategory(testUserID, category.ID))
	assignments, err = repo.FindAssignments(testUserID)
	require.NoError(t, err)
	assert.Empty(t, assignments, "deleting a category must take its assignment rows with it")
}

func TestCategoryRepository_UpdateOrder(t *testing.T) {
	repo := setupRepository(t)

	var ids []int64
	for i, name := range []string{"A", "B", "C"} {
		category := &domain.Category{Name: name, Color: "#3b82f6", Order: i}
		require.NoError(t, repo.InsertCategory(testUserID, category))
		ids = append(ids, category.ID)
	}

	require.NoError(t, repo.UpdateOrder(testUserID, []int64{ids[2], ids[0], ids[1]}))

	categories, err := repo.FindCategories(testUserID)
	require.NoError(t, err)
	got := make([]int64, 0, 3)
	for _, c := range categories {
		got = append(got, c.ID)
	}
	assert.Equal(t, []int64{ids[2], ids[0], ids[1]}, got)
}
