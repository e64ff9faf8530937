package transport

import (
	"net/http"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the product list
type CatalogHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

func NewCatalogHandler(storefront service.StorefrontService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{storefront: storefront, logger: logger}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
}

// ListProducts handles GET /api/products?q=&brand=&category=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query:    q.Get("q"),
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
	}

	page, err := h.storefront.SearchProducts(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, page)
}
