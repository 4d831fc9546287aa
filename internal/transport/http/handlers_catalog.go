package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/remote"
	"storefront/internal/transport/http/shared"
	derrors "storefront/pkg/domain-errors"
)

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	categoryID, _ := strconv.ParseInt(query.Get("category_id"), 10, 64)

	result, err := h.products.List(r.Context(), remote.ListProductsParams{
		Page:       page,
		Limit:      limit,
		Keyword:    query.Get("keyword"),
		CategoryID: categoryID,
	})
	if err != nil {
		h.logError(r, "product listing failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid product id"))
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.logError(r, "product fetch failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		h.logError(r, "category listing failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, categories)
}
