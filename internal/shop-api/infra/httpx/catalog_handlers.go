package httpx

import (
	"net/http"
	"strconv"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// ListProducts lists live products, narrowed by ?category_id= and ?q=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var f domain.ProductFilter
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
			return
		}
		f.CategoryID = id
	}
	f.Query = r.URL.Query().Get("q")

	products, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeProducts(w, products)
}

func writeProducts(w http.ResponseWriter, products []domain.Product) {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.catalog.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

// UpdateProduct edits a product. The stock field of the body is ignored.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	var req ProductRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p := req.toDomain()
	p.ID = id
	p, err := h.catalog.UpdateProduct(r.Context(), p)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	p, err := h.catalog.RestoreProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Trash(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeProducts(w, products)
}

func (h *Handler) PurgeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	if err := h.catalog.PurgeProduct(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	var req StockRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Stock == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "stock is required")
		return
	}
	lvl, err := h.catalog.SetStock(r.Context(), id, *req.Stock)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StockResponse{ProductID: lvl.ProductID, Before: lvl.Before, After: lvl.After})
}

// Quote prices ?quantity= units (default 1) of a product.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	qty := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be an integer")
			return
		}
		qty = n
	}
	q, err := h.pricing.Quote(r.Context(), id, qty)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapQuote(q))
}

// ProductDiscount returns the discount that currently wins for a product.
func (h *Handler) ProductDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	d, err := h.pricing.ResolveDiscount(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "discount_not_found", "no discount applies")
		return
	}
	writeJSON(w, http.StatusOK, mapDiscount(*d))
}

// ListDiscounts lists every discount, or looks one up with ?promo_code=.
func (h *Handler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("promo_code"); code != "" {
		d, err := h.catalog.DiscountByPromoCode(r.Context(), code)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, []DiscountResponse{mapDiscount(d)})
		return
	}

	discounts, err := h.catalog.ListDiscounts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]DiscountResponse, 0, len(discounts))
	for _, d := range discounts {
		out = append(out, mapDiscount(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	d, err := h.catalog.CreateDiscount(r.Context(), req.toDomain(0), actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapDiscount(d))
}

func (h *Handler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_discount_id", "")
		return
	}
	var req DiscountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	d, err := h.catalog.UpdateDiscount(r.Context(), req.toDomain(id), actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDiscount(d))
}

func (h *Handler) ToggleDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_discount_id", "")
		return
	}
	d, err := h.catalog.ToggleDiscount(r.Context(), id, actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDiscount(d))
}

func (h *Handler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_discount_id", "")
		return
	}
	if err := h.catalog.DeleteDiscount(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
