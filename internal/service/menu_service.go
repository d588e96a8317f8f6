package service

import (
	"context"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
)

// MenuService is the catalog surface: public reads, staff writes.
type MenuService struct {
	menu repository.MenuRepository
}

func NewMenuService(menu repository.MenuRepository) *MenuService {
	return &MenuService{menu: menu}
}

func (s *MenuService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.menu.ListCategories(ctx)
}

func (s *MenuService) CreateCategory(ctx context.Context, p Principal, c domain.Category) (*domain.Category, error) {
	if err := Authorize(p, ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, apperrors.Validation("category name is required")
	}
	if err := s.menu.CreateCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, p Principal, c domain.Category) (*domain.Category, error) {
	if err := Authorize(p, ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, apperrors.Validation("category name is required")
	}
	if err := s.menu.UpdateCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MenuService) DeleteCategory(ctx context.Context, p Principal, id int64) error {
	if err := Authorize(p, ActionManageCatalog, 0); err != nil {
		return err
	}
	return s.menu.DeleteCategory(ctx, id)
}

func (s *MenuService) ListItems(ctx context.Context, f repository.MenuFilter) ([]domain.MenuItem, error) {
	return s.menu.ListItems(ctx, f)
}

func (s *MenuService) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	return s.menu.GetItem(ctx, id)
}

func validateMenuItem(it domain.MenuItem) error {
	if it.Name == "" {
		return apperrors.Validation("menu item name is required")
	}
	if it.Price <= 0 {
		return apperrors.Validation("menu item price must be positive")
	}
	if it.CategoryID <= 0 {
		return apperrors.Validation("category_id is required")
	}
	return nil
}

func (s *MenuService) CreateItem(ctx context.Context, p Principal, it domain.MenuItem) (*domain.MenuItem, error) {
	if err := Authorize(p, ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if err := validateMenuItem(it); err != nil {
		return nil, err
	}
	if err := s.menu.CreateItem(ctx, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, p Principal, it domain.MenuItem) (*domain.MenuItem, error) {
	if err := Authorize(p, ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if err := validateMenuItem(it); err != nil {
		return nil, err
	}
	if err := s.menu.UpdateItem(ctx, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, p Principal, id int64) error {
	if err := Authorize(p, ActionManageCatalog, 0); err != nil {
		return err
	}
	return s.menu.DeleteItem(ctx, id)
}
