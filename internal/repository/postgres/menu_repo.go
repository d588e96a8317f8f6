package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
)

type MenuRepo struct {
	store *Store
}

func NewMenuRepo(store *Store) *MenuRepo {
	return &MenuRepo{store: store}
}

var _ repository.MenuRepository = (*MenuRepo)(nil)

func (r *MenuRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := r.store.q(ctx).QueryRow(ctx, `
		INSERT INTO categories (name, description, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id
	`, c.Name, c.Description, c.SortOrder).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *MenuRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	tag, err := r.store.q(ctx).Exec(ctx, `
		UPDATE categories SET name = $1, description = $2, sort_order = $3 WHERE id = $4
	`, c.Name, c.Description, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category not found")
	}
	return nil
}

func (r *MenuRepo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.store.q(ctx).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category not found")
	}
	return nil
}

func (r *MenuRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.store.q(ctx).Query(ctx,
		`SELECT id, name, description, sort_order FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const menuItemColumns = `id, name, description, price, category_id, is_available`

func (r *MenuRepo) CreateItem(ctx context.Context, it *domain.MenuItem) error {
	err := r.store.q(ctx).QueryRow(ctx, `
		INSERT INTO menu_items (name, description, price, category_id, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, it.Name, it.Description, it.Price, it.CategoryID, it.IsAvailable).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *MenuRepo) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var it domain.MenuItem
	err := r.store.q(ctx).QueryRow(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.CategoryID, &it.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("menu item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	return &it, nil
}

func (r *MenuRepo) UpdateItem(ctx context.Context, it *domain.MenuItem) error {
	tag, err := r.store.q(ctx).Exec(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category_id = $4, is_available = $5
		WHERE id = $6
	`, it.Name, it.Description, it.Price, it.CategoryID, it.IsAvailable, it.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("menu item not found")
	}
	return nil
}

func (r *MenuRepo) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.store.q(ctx).Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("menu item not found")
	}
	return nil
}

func (r *MenuRepo) ListItems(ctx context.Context, f repository.MenuFilter) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE 1=1`
	args := []any{}

	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if f.Available != nil {
		args = append(args, *f.Available)
		query += fmt.Sprintf(` AND is_available = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, n, n)
	}
	query += ` ORDER BY name`

	rows, err := r.store.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

func (r *MenuRepo) ListAvailableByIDs(ctx context.Context, ids []int64) ([]domain.MenuItem, error) {
	rows, err := r.store.q(ctx).Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1) AND is_available`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

func scanMenuItems(rows pgx.Rows) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	for rows.Next() {
		var it domain.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.CategoryID, &it.IsAvailable); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
