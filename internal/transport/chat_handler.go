package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ScrollRequest reports the chat view's scroll position in pixels
type ScrollRequest struct {
	Offset        float64 `json:"offset" validate:"gte=0"`
	ContentHeight float64 `json:"content_height" validate:"gte=0"`
	ClientHeight  float64 `json:"client_height" validate:"gte=0"`
}

// ChatHandler handles HTTP requests for the support chat
type ChatHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

func NewChatHandler(storefront service.StorefrontService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{storefront: storefront, logger: logger}
}

// RegisterRoutes registers the chat routes. sendLimiter, when set, guards message sends.
func (h *ChatHandler) RegisterRoutes(r chi.Router, sendLimiter func(http.Handler) http.Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/", h.GetChat)
		r.Post("/scroll", h.Scroll)
		r.Post("/jump", h.JumpToBottom)

		r.Group(func(r chi.Router) {
			if sendLimiter != nil {
				r.Use(sendLimiter)
			}
			r.Post("/messages", h.SendMessage)
		})
	})
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.Chat())
}

// SendMessage answers 202 while the reply is fetched and revealed, 409 when
// the message was ignored because a turn is already in flight.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Chat message validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	view, ok := h.storefront.SendChat(r.Context(), req.Message)
	if !ok {
		middleware.RespondWithErrorDetails(w, http.StatusConflict, "message ignored", map[string]any{
			"phase": view.Phase,
		})
		return
	}
	middleware.RespondWithJSON(w, http.StatusAccepted, view)
}

func (h *ChatHandler) Scroll(w http.ResponseWriter, r *http.Request) {
	var req ScrollRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.ObserveScroll(req.Offset, req.ContentHeight, req.ClientHeight))
}

func (h *ChatHandler) JumpToBottom(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.JumpToBottom())
}
