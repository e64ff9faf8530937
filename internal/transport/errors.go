package transport

import (
	"errors"
	"net/http"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"go.uber.org/zap"
)

// respondWithServiceError maps service errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var fetchErr *catalog.FetchError

	switch {
	case errors.As(err, &fetchErr):
		middleware.RespondWithRetryableError(w, http.StatusBadGateway, fetchErr.Error())
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, checkout.ErrPaymentInFlight):
		middleware.RespondWithError(w, http.StatusConflict, "payment already in progress")
	case errors.Is(err, checkout.ErrIllegalTransition):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrPaymentFailed):
		logger.Warn("Payment failed", zap.Error(err))
		middleware.RespondWithRetryableError(w, http.StatusPaymentRequired, "payment failed")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
