package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest adds one unit of a catalog product
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// SetQuantityRequest sets a line's quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// SummaryRequest prices the selected lines
type SummaryRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"omitempty,dive,gt=0"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

func NewCartHandler(storefront service.StorefrontService, logger *zap.Logger) *CartHandler {
	return &CartHandler{storefront: storefront, logger: logger}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.SetQuantity)
		r.Post("/summary", h.Summary)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.Cart())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Add item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	view, err := h.storefront.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product added to cart", zap.Int64("product_id", req.ProductID))
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req SetQuantityRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Set quantity validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.SetQuantity(r.Context(), productID, *req.Quantity))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view := h.storefront.ClearCart(r.Context())
	h.logger.Info("Cart cleared")
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.Summary(req.ProductIDs))
}
