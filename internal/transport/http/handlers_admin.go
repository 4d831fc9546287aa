package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/remote"
	"storefront/internal/transport/http/shared"
	derrors "storefront/pkg/domain-errors"
)

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.orders.ListByKeyword(r.Context(), query.Get("keyword"), page, limit)
	if err != nil {
		h.logError(r, "order listing failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.logError(r, "order fetch failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req remote.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	order, err := h.orders.Update(r.Context(), id, req)
	if err != nil {
		h.logError(r, "order update failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		h.logError(r, "order delete failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard summarizes recent orders for the admin landing screen. It
// reads one large page; the backend owns real reporting.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.ListByKeyword(r.Context(), "", 0, 100)
	if err != nil {
		h.logError(r, "dashboard order fetch failed", err)
		shared.WriteError(w, err)
		return
	}

	revenue := 0.0
	pending := 0
	for _, order := range result.Orders {
		revenue += order.TotalMoney
		if order.Status == "pending" {
			pending++
		}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"order_count":    len(result.Orders),
		"pending_orders": pending,
		"revenue":        revenue,
	})
}

func orderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, derrors.New(derrors.CodeBadRequest, "invalid order id")
	}
	return id, nil
}
