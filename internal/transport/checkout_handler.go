package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutHandler drives the checkout flow. Illegal transitions answer 409.
type CheckoutHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

func NewCheckoutHandler(storefront service.StorefrontService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{storefront: storefront, logger: logger}
}

func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/checkout", func(r chi.Router) {
		r.Get("/", h.GetCheckout)
		r.Post("/review", h.Review)
		r.Post("/back", h.BackToCart)
		r.Post("/clear", h.ClearCart)
		r.Post("/pay", h.PayNow)
	})
}

func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.Checkout())
}

func (h *CheckoutHandler) Review(w http.ResponseWriter, r *http.Request) {
	view, err := h.storefront.Review()
	h.respond(w, view, err)
}

func (h *CheckoutHandler) BackToCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.storefront.BackToCart()
	h.respond(w, view, err)
}

func (h *CheckoutHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.storefront.ClearFromCheckout(r.Context())
	h.respond(w, view, err)
}

// PayNow blocks until the simulated payment settles
func (h *CheckoutHandler) PayNow(w http.ResponseWriter, r *http.Request) {
	view, err := h.storefront.PayNow(r.Context())
	h.respond(w, view, err)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, view service.CheckoutView, err error) {
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}
