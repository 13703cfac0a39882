package httpx

import (
	"context"
	"net/http"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/infra/httpx/middlewares"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sum, err := h.carts.View(r.Context(), middlewares.SessionID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(sum))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.AddItem)
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.DecrementItem)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.RemoveItem)
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}
	qty := *req.Quantity
	h.mutate(w, r, func(ctx context.Context, sid string, pid int64) (cart.MutationResult, error) {
		return h.carts.SetQuantity(ctx, sid, pid, qty)
	})
}

type mutation func(ctx context.Context, sessionID string, productID int64) (cart.MutationResult, error)

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op mutation) {
	productID, ok := idParam(r, "productID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return
	}
	res, err := op(r.Context(), middlewares.SessionID(r.Context()), productID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, mutationStatus(res), res)
}

// mutationStatus picks the HTTP status for a cart result. The body is the
// MutationResult either way.
func mutationStatus(res cart.MutationResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Message {
	case cart.MsgProductNotFound:
		return http.StatusNotFound
	case cart.MsgInvalidQuantity:
		return http.StatusBadRequest
	}
	return http.StatusConflict
}
