// Package catalog administers categories, products, stock and discounts.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// DefaultLowStockThreshold is the stock level at or under which admins are
// warned.
const DefaultLowStockThreshold = 20

var hundred = decimal.NewFromInt(100)

type Service struct {
	products   ProductRepository
	categories CategoryRepository
	discounts  DiscountRepository
	notifier   StockNotifier
	threshold  int
	now        func() time.Time
}

func NewService(products ProductRepository, categories CategoryRepository, discounts DiscountRepository, notifier StockNotifier, lowStockThreshold int) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &Service{
		products:   products,
		categories: categories,
		discounts:  discounts,
		notifier:   notifier,
		threshold:  lowStockThreshold,
		now:        time.Now,
	}
}

// ListProducts returns the live products matching f.
func (s *Service) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	f.Query = strings.TrimSpace(f.Query)
	return s.products.ListProducts(ctx, f)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidProduct)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := validateProduct(&p); err != nil {
		return domain.Product{}, err
	}
	p.CreatedAt = s.now().UTC()

	created, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	slog.InfoContext(ctx, "product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateProduct edits a product's name, price, category and image. Stock is
// ignored; use SetStock so the alerts fire.
func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Stock = 0
	if err := validateProduct(&p); err != nil {
		return domain.Product{}, err
	}
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	slog.InfoContext(ctx, "product updated", "product_id", p.ID, "name", p.Name)
	return s.products.GetProduct(ctx, p.ID)
}

// DeleteProduct moves a product to the trash. It no longer lists, prices or
// sells, but can be restored.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "product trashed", "product_id", id)
	return nil
}

func (s *Service) Trash(ctx context.Context) ([]domain.Product, error) {
	return s.products.DeletedProducts(ctx)
}

func (s *Service) RestoreProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := s.products.RestoreProduct(ctx, id); err != nil {
		return domain.Product{}, err
	}
	slog.InfoContext(ctx, "product restored", "product_id", id)
	return s.products.GetProduct(ctx, id)
}

// PurgeProduct deletes a trashed product for good.
func (s *Service) PurgeProduct(ctx context.Context, id int64) error {
	if err := s.products.PurgeProduct(ctx, id); err != nil {
		return err
	}
	slog.WarnContext(ctx, "product purged", "product_id", id)
	return nil
}

// SetStock overwrites a product's stock and raises the matching alert.
func (s *Service) SetStock(ctx context.Context, id int64, stock int) (domain.StockLevel, error) {
	if stock < 0 {
		return domain.StockLevel{}, domain.ErrInvalidQuantity
	}
	lvl, err := s.products.SetStock(ctx, id, stock)
	if err != nil {
		return domain.StockLevel{}, err
	}
	slog.InfoContext(ctx, "stock updated", "product_id", id, "before", lvl.Before, "after", lvl.After)
	s.CheckStock(ctx, lvl)
	return lvl, nil
}

// CheckStock notifies the alert a stock change crossed, if any.
func (s *Service) CheckStock(ctx context.Context, lvl domain.StockLevel) {
	switch lvl.Alert(s.threshold) {
	case domain.StockAlertRupture:
		s.notifier.StockRupture(ctx, lvl.ProductID, lvl.Name)
	case domain.StockAlertLow:
		s.notifier.StockLow(ctx, lvl.ProductID, lvl.Name, lvl.After)
	case domain.StockAlertRestock:
		slog.InfoContext(ctx, "product restocked", "product_id", lvl.ProductID, "stock", lvl.After)
		s.notifier.ProductRestock(ctx, lvl.ProductID, lvl.Name, lvl.After)
	}
}
