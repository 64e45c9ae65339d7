package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	orgErrors "github.com/furnidesk/FurniOrganizer/internal/organizer/errors"
)

// CategoryRepository persists user categories and item assignments in
// Postgres.
//
// Schema:
//
//	CREATE TABLE user_categories (
//	    id          BIGSERIAL PRIMARY KEY,
//	    user_id     UUID NOT NULL,
//	    name        VARCHAR(30) NOT NULL,
//	    color       VARCHAR(7) NOT NULL,
//	    auto_filter TEXT,
//	    sort_order  INT NOT NULL DEFAULT 0
//	);
//	CREATE TABLE category_assignments (
//	    user_id     UUID NOT NULL,
//	    item_type   BIGINT NOT NULL,
//	    category_id BIGINT NOT NULL REFERENCES user_categories (id) ON DELETE CASCADE,
//	    PRIMARY KEY (user_id, item_type, category_id)
//	);
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindCategories(userID string) ([]domain.Category, error) {
	query := `
		SELECT id, name, color, auto_filter, sort_order
		FROM user_categories
		WHERE user_id = $1
		ORDER BY sort_order, id
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query categories: %v", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		var autoFilter sql.NullString
		if err := rows.Scan(&category.ID, &category.Name, &category.Color, &autoFilter, &category.Order); err != nil {
			return nil, err
		}
		if autoFilter.Valid {
			category.AutoFilter = domain.AutoFilterRule(autoFilter.String)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindAssignments(userID string) (map[int64][]int64, error) {
	rows, err := r.db.Query("SELECT item_type, category_id FROM category_assignments WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("could not query assignments: %v", err)
	}
	defer rows.Close()

	assignments := make(map[int64][]int64)
	for rows.Next() {
		var itemType, categoryID int64
		if err := rows.Scan(&itemType, &categoryID); err != nil {
			return nil, err
		}
		assignments[itemType] = append(assignments[itemType], categoryID)
	}
	return assignments, rows.Err()
}

func (r *CategoryRepository) CategoryExists(userID string, categoryID int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM user_categories WHERE id = $1 AND user_id = $2)"
	err := r.db.QueryRow(query, categoryID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CategoryRepository) InsertCategory(userID string, category *domain.Category) error {
	query := `
		INSERT INTO user_categories (user_id, name, color, auto_filter, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	var id int64
	err := r.db.QueryRow(query, userID, category.Name, category.Color, nullableRule(category.AutoFilter), category.Order).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create category: %v", err)
	}
	category.ID = id
	return nil
}

func (r *CategoryRepository) UpdateCategory(userID string, categoryID int64, patch domain.CategoryPatch) (*domain.Category, error) {
	var sets []string
	var args []interface{}
	next := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", next))
		args = append(args, *patch.Name)
		next++
	}
	if patch.Color != nil {
		sets = append(sets, fmt.Sprintf("color = $%d", next))
		args = append(args, *patch.Color)
		next++
	}
	if patch.Order != nil {
		sets = append(sets, fmt.Sprintf("sort_order = $%d", next))
		args = append(args, *patch.Order)
		next++
	}
	if patch.AutoFilter != nil {
		sets = append(sets, fmt.Sprintf("auto_filter = $%d", next))
		args = append(args, nullableRule(*patch.AutoFilter))
		next++
	}
	if len(sets) == 0 {
		return r.findCategory(userID, categoryID)
	}

	query := fmt.Sprintf(
		"UPDATE user_categories SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), next, next+1,
	)
	args = append(args, categoryID, userID)
	if _, err := r.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("could not update category: %v", err)
	}
	return r.findCategory(userID, categoryID)
}

func (r *CategoryRepository) DeleteCategory(userID string, categoryID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM category_assignments WHERE category_id = $1 AND user_id = $2", categoryID, userID); err != nil {
		return fmt.Errorf("could not delete assignments: %v", err)
	}
	if _, err := tx.Exec("DELETE FROM user_categories WHERE id = $1 AND user_id = $2", categoryID, userID); err != nil {
		return fmt.Errorf("could not delete category: %v", err)
	}
	return tx.Commit()
}

func (r *CategoryRepository) InsertAssignment(userID string, categoryID, itemType int64) error {
	query := `
		INSERT INTO category_assignments (user_id, item_type, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING;
	`
	if _, err := r.db.Exec(query, userID, itemType, categoryID); err != nil {
		return fmt.Errorf("could not create assignment: %v", err)
	}
	return nil
}

func (r *CategoryRepository) DeleteAssignment(userID string, categoryID, itemType int64) error {
	query := "DELETE FROM category_assignments WHERE user_id = $1 AND item_type = $2 AND category_id = $3"
	if _, err := r.db.Exec(query, userID, itemType, categoryID); err != nil {
		return fmt.Errorf("could not delete assignment: %v", err)
	}
	return nil
}

func (r *CategoryRepository) UpdateOrder(userID string, order []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for rank, categoryID := range order {
		if _, err := tx.Exec("UPDATE user_categories SET sort_order = $1 WHERE id = $2 AND user_id = $3", rank, categoryID, userID); err != nil {
			return fmt.Errorf("could not update order: %v", err)
		}
	}
	return tx.Commit()
}

func (r *CategoryRepository) DeleteOrphanedAssignments() (int64, error) {
	query := `
		DELETE FROM category_assignments ca
		WHERE NOT EXISTS (
			SELECT 1 FROM user_categories c
			WHERE c.id = ca.category_id AND c.user_id = ca.user_id
		)
	`
	result, err := r.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("could not prune assignments: %v", err)
	}
	return result.RowsAffected()
}

func (r *CategoryRepository) findCategory(userID string, categoryID int64) (*domain.Category, error) {
	query := `
		SELECT id, name, color, auto_filter, sort_order
		FROM user_categories
		WHERE id = $1 AND user_id = $2
	`
	var category domain.Category
	var autoFilter sql.NullString
	err := r.db.QueryRow(query, categoryID, userID).Scan(&category.ID, &category.Name, &category.Color, &autoFilter, &category.Order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orgErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("could not find category: %v", err)
	}
	if autoFilter.Valid {
		category.AutoFilter = domain.AutoFilterRule(autoFilter.String)
	}
	return &category, nil
}

func nullableRule(rule domain.AutoFilterRule) interface{} {
	if rule == "" {
		return nil
	}
	return string(rule)
}
