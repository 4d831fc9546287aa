package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/transport/http/shared"
	derrors "storefront/pkg/domain-errors"
)

type cartPayload struct {
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

func (h *Handler) cartPayload() cartPayload {
	items := h.cart.Items()
	if items == nil {
		items = []cart.Line{}
	}
	return cartPayload{
		Items:      items,
		TotalItems: h.cart.TotalItemCount(),
		TotalPrice: h.cart.TotalPrice(),
	}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.cartPayload())
}

type addItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Path      string `json:"path"`
}

// handleAddItem resolves the product and adds it to the cart. For anonymous
// actors the store defers the add and this responds 202 with the login
// redirect; the presentation layer performs the navigation.
func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.products.Get(ctx, req.ProductID)
	if err != nil {
		h.logError(r, "product lookup for add failed", err)
		shared.WriteError(w, err)
		return
	}

	outcome, err := h.cart.AddItem(ctx, cart.Product{
		ID:           strconv.FormatInt(product.ID, 10),
		Name:         product.Name,
		UnitPrice:    product.Price,
		ThumbnailURL: product.Thumbnail,
	}, req.Quantity, req.Path)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if outcome.Status == cart.StatusDeferredLogin {
		shared.WriteJSON(w, http.StatusAccepted, outcome)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"outcome": outcome,
		"cart":    h.cartPayload(),
	})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	h.cart.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity)
	shared.WriteJSON(w, http.StatusOK, h.cartPayload())
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.Context(), chi.URLParam(r, "productID"))
	shared.WriteJSON(w, http.StatusOK, h.cartPayload())
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	shared.WriteJSON(w, http.StatusOK, h.cartPayload())
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	order, err := h.checkout.Submit(r.Context(), req)
	if err != nil {
		h.logError(r, "checkout failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, order)
}
