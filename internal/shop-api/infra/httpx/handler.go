package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/core/ports"
)

// Handler serves the shop HTTP API: cart, checkout, orders, catalog and
// discount administration.
type Handler struct {
	carts    ports.CartService
	checkout ports.CheckoutService
	catalog  ports.CatalogService
	pricing  ports.PricingService
}

func NewHandler(
	carts ports.CartService,
	checkout ports.CheckoutService,
	catalog ports.CatalogService,
	pricing ports.PricingService,
) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkout,
		catalog:  catalog,
		pricing:  pricing,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func actor(r *http.Request) string {
	if u := r.Header.Get(constants.HeaderXAdminUser); u != "" {
		return u
	}
	return "admin"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError maps domain errors onto HTTP statuses. Anything unknown is
// logged and reported as a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "category_not_found", err.Error())
	case errors.Is(err, domain.ErrDiscountNotFound):
		writeError(w, http.StatusNotFound, "discount_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, "invalid_product", err.Error())
	case errors.Is(err, domain.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid_category", err.Error())
	case errors.Is(err, domain.ErrCategoryInUse):
		writeError(w, http.StatusConflict, "category_in_use", err.Error())
	case errors.Is(err, domain.ErrInvalidDiscount):
		writeError(w, http.StatusBadRequest, "invalid_discount", err.Error())
	case errors.Is(err, domain.ErrInvalidCheckout):
		writeError(w, http.StatusBadRequest, "invalid_checkout", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrStockInsufficient):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
