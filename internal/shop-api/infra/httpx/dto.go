package httpx

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator/sagalog"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CartLineResponse struct {
	ProductID           int64           `json:"product_id"`
	Name                string          `json:"name"`
	Quantity            int             `json:"quantity"`
	Stock               int             `json:"stock"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	DiscountedUnitPrice decimal.Decimal `json:"discounted_unit_price"`
	RowTotal            decimal.Decimal `json:"row_total"`
	Savings             decimal.Decimal `json:"savings"`
	FreeShipping        bool            `json:"free_shipping"`
	DiscountID          *int64          `json:"discount_id,omitempty"`
}

type CartResponse struct {
	SessionID    string             `json:"session_id"`
	Lines        []CartLineResponse `json:"lines"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	FreeShipping bool               `json:"free_shipping"`
	DeliveryFee  decimal.Decimal    `json:"delivery_fee"`
	Total        decimal.Decimal    `json:"total"`
}

type CustomerDTO struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type CheckoutRequest struct {
	Customer      CustomerDTO `json:"customer"`
	PaymentMethod string      `json:"payment_method"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	SessionID     string              `json:"session_id"`
	Customer      CustomerDTO         `json:"customer"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at,omitempty"`
}

type OrderItemResponse struct {
	ProductID           int64           `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	DiscountedUnitPrice decimal.Decimal `json:"discounted_unit_price"`
	RowTotal            decimal.Decimal `json:"row_total"`
}

type ProductRequest struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID int64           `json:"category_id"`
	Image      string          `json:"image"`
}

type StockRequest struct {
	Stock *int `json:"stock"`
}

type ProductResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID int64           `json:"category_id"`
	Image      string          `json:"image,omitempty"`
	InStock    bool            `json:"in_stock"`
	DeletedAt  *time.Time      `json:"deleted_at,omitempty"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SagaStepResponse struct {
	Status    string    `json:"status"`
	Step      string    `json:"step,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StockResponse struct {
	ProductID int64 `json:"product_id"`
	Before    int   `json:"before"`
	After     int   `json:"after"`
}

type QuoteResponse struct {
	ProductID           int64             `json:"product_id"`
	Quantity            int               `json:"quantity"`
	UnitPrice           decimal.Decimal   `json:"unit_price"`
	DiscountedUnitPrice decimal.Decimal   `json:"discounted_unit_price"`
	RowTotal            decimal.Decimal   `json:"row_total"`
	Savings             decimal.Decimal   `json:"savings"`
	FreeShipping        bool              `json:"free_shipping"`
	Discount            *DiscountResponse `json:"discount,omitempty"`
}

type DiscountRequest struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Kind             string           `json:"kind"`
	Value            decimal.Decimal  `json:"value"`
	MinimumAmount    *decimal.Decimal `json:"minimum_amount"`
	MinimumQuantity  *int             `json:"minimum_quantity"`
	MaxUsageCount    *int             `json:"max_usage_count"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	Active           *bool            `json:"active"`
	PromoCode        string           `json:"promo_code"`
	TargetProductID  *int64           `json:"target_product_id"`
	TargetCategoryID *int64           `json:"target_category_id"`
}

type DiscountResponse struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Kind              string           `json:"kind"`
	Value             decimal.Decimal  `json:"value"`
	MinimumAmount     *decimal.Decimal `json:"minimum_amount,omitempty"`
	MinimumQuantity   *int             `json:"minimum_quantity,omitempty"`
	MaxUsageCount     *int             `json:"max_usage_count,omitempty"`
	CurrentUsageCount int              `json:"current_usage_count"`
	StartDate         time.Time        `json:"start_date"`
	EndDate           time.Time        `json:"end_date"`
	Active            bool             `json:"active"`
	PromoCode         string           `json:"promo_code,omitempty"`
	TargetProductID   *int64           `json:"target_product_id,omitempty"`
	TargetCategoryID  *int64           `json:"target_category_id,omitempty"`
	CreatedBy         string           `json:"created_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Order   *OrderResponse `json:"order,omitempty"`
}

func mapCart(s cart.Summary) CartResponse {
	out := CartResponse{
		SessionID:    s.SessionID,
		Lines:        make([]CartLineResponse, 0, len(s.Lines)),
		Subtotal:     s.Subtotal,
		FreeShipping: s.FreeShipping,
		DeliveryFee:  s.DeliveryFee,
		Total:        s.Total,
	}
	for _, l := range s.Lines {
		line := CartLineResponse{
			ProductID:           l.Product.ID,
			Name:                l.Product.Name,
			Quantity:            l.Quote.Quantity,
			Stock:               l.Product.Stock,
			UnitPrice:           l.Quote.UnitPrice,
			DiscountedUnitPrice: l.Quote.DiscountedUnitPrice,
			RowTotal:            l.Quote.RowTotal,
			Savings:             l.Quote.Savings,
			FreeShipping:        l.Quote.FreeShipping,
		}
		if l.Quote.Discount != nil {
			id := l.Quote.Discount.ID
			line.DiscountID = &id
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func (c CustomerDTO) toDomain() domain.Customer {
	return domain.Customer(c)
}

func mapOrderToResponse(o domain.Order) OrderResponse {
	out := OrderResponse{
		ID:            o.ID,
		SessionID:     o.SessionID,
		Customer:      CustomerDTO(o.Customer),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Items:         make([]OrderItemResponse, 0, len(o.Items)),
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.ModifiedAt != nil {
		out.UpdatedAt = o.ModifiedAt.UTC().Format(time.RFC3339)
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemResponse{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			Quantity:            it.Quantity,
			UnitPrice:           it.UnitPrice,
			DiscountedUnitPrice: it.DiscountedUnitPrice,
			RowTotal:            it.RowTotal,
		})
	}
	return out
}

func (p ProductRequest) toDomain() domain.Product {
	return domain.Product{
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		Image:      p.Image,
	}
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		Image:      p.Image,
		InStock:    p.InStock(),
		DeletedAt:  p.DeletedAt,
	}
}

func mapCategory(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// mapSagaLog leaves the payload out; it carries the customer's details.
func mapSagaLog(l sagalog.SagaLog) SagaStepResponse {
	out := SagaStepResponse{
		Status:    string(l.Status),
		Step:      l.CurrentStep,
		TraceID:   l.TraceID,
		UpdatedAt: l.UpdatedAt,
	}
	if l.ErrorMessages != "" {
		if err := json.Unmarshal([]byte(l.ErrorMessages), &out.Errors); err != nil {
			out.Errors = []string{l.ErrorMessages}
		}
	}
	return out
}

func mapQuote(q pricing.Quote) QuoteResponse {
	out := QuoteResponse{
		ProductID:           q.ProductID,
		Quantity:            q.Quantity,
		UnitPrice:           q.UnitPrice,
		DiscountedUnitPrice: q.DiscountedUnitPrice,
		RowTotal:            q.RowTotal,
		Savings:             q.Savings,
		FreeShipping:        q.FreeShipping,
	}
	if q.Discount != nil {
		d := mapDiscount(*q.Discount)
		out.Discount = &d
	}
	return out
}

func (r DiscountRequest) toDomain(id int64) domain.Discount {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.Discount{
		ID:               id,
		Name:             r.Name,
		Description:      r.Description,
		Kind:             domain.DiscountKind(r.Kind),
		Value:            r.Value,
		MinimumAmount:    r.MinimumAmount,
		MinimumQuantity:  r.MinimumQuantity,
		MaxUsageCount:    r.MaxUsageCount,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Active:           active,
		PromoCode:        r.PromoCode,
		TargetProductID:  r.TargetProductID,
		TargetCategoryID: r.TargetCategoryID,
	}
}

func mapDiscount(d domain.Discount) DiscountResponse {
	return DiscountResponse{
		ID:                d.ID,
		Name:              d.Name,
		Description:       d.Description,
		Kind:              string(d.Kind),
		Value:             d.Value,
		MinimumAmount:     d.MinimumAmount,
		MinimumQuantity:   d.MinimumQuantity,
		MaxUsageCount:     d.MaxUsageCount,
		CurrentUsageCount: d.CurrentUsageCount,
		StartDate:         d.StartDate,
		EndDate:           d.EndDate,
		Active:            d.Active,
		PromoCode:         d.PromoCode,
		TargetProductID:   d.TargetProductID,
		TargetCategoryID:  d.TargetCategoryID,
		CreatedBy:         d.CreatedBy,
		CreatedAt:         d.CreatedAt,
	}
}
