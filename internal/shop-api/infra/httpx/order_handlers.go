package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-pricing/internal/checkout"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/infra/httpx/middlewares"
)

// Checkout turns the session cart into an order and runs the checkout saga.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	sessionID := middlewares.SessionID(r.Context())
	slog.InfoContext(r.Context(), "checkout requested",
		"request_id", interceptors.RequestIDFromContext(r.Context()),
		"session_id", sessionID,
		"payment_method", req.PaymentMethod,
	)

	order, err := h.checkout.Checkout(r.Context(), checkout.Request{
		SessionID:     sessionID,
		Customer:      req.Customer.toDomain(),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if errors.Is(err, domain.ErrPaymentDeclined) {
		resp := mapOrderToResponse(order)
		writeJSON(w, http.StatusPaymentRequired, ErrorResponse{
			Error:   "payment_declined",
			Message: err.Error(),
			Order:   &resp,
		})
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.checkout.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	order, err := h.checkout.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// GetOrderSaga returns the checkout saga log of an order, oldest entry first.
func (h *Handler) GetOrderSaga(w http.ResponseWriter, r *http.Request) {
	history, err := h.checkout.SagaHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]SagaStepResponse, 0, len(history))
	for _, l := range history {
		out = append(out, mapSagaLog(l))
	}
	writeJSON(w, http.StatusOK, out)
}
