package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidCategory)
	}
	return name, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	c, err := s.categories.CreateCategory(ctx, name)
	if err != nil {
		return domain.Category{}, err
	}
	slog.InfoContext(ctx, "category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) RenameCategory(ctx context.Context, id int64, name string) (domain.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	c := domain.Category{ID: id, Name: name}
	if err := s.categories.UpdateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	slog.InfoContext(ctx, "category renamed", "category_id", id, "name", name)
	return c, nil
}

// DeleteCategory removes an empty category. Products, trashed ones included,
// must be moved or purged first.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}
