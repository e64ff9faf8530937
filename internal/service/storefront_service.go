package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/chat"
	"storefront/internal/checkout"
	"storefront/internal/domain"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is what the storefront needs from the product catalog
type Catalog interface {
	Search(ctx context.Context, f catalog.Filter) (catalog.Page, error)
	Lookup(ctx context.Context, id int64) (domain.Product, bool, error)
}

// StorefrontService defines the interface for the shopper-facing operations
type StorefrontService interface {
	SearchProducts(ctx context.Context, f catalog.Filter) (catalog.Page, error)

	Cart() CartView
	AddToCart(ctx context.Context, productID int64) (CartView, error)
	SetQuantity(ctx context.Context, productID int64, quantity int) CartView
	ClearCart(ctx context.Context) CartView
	Summary(productIDs []int64) SelectionSummary

	Checkout() CheckoutView
	Review() (CheckoutView, error)
	BackToCart() (CheckoutView, error)
	ClearFromCheckout(ctx context.Context) (CheckoutView, error)
	PayNow(ctx context.Context) (CheckoutView, error)

	Chat() ChatView
	SendChat(ctx context.Context, text string) (ChatView, bool)
	ObserveScroll(offset, contentHeight, clientHeight float64) ChatView
	JumpToBottom() ChatView

	Close()
}

// LineView is a cart line with its computed total
type LineView struct {
	Product   domain.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Lines     []LineView      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
}

// SelectionSummary prices only the lines the shopper ticked
type SelectionSummary struct {
	Lines  []LineView      `json:"lines"`
	Totals checkout.Totals `json:"totals"`
}

type CheckoutView struct {
	State  checkout.State     `json:"state"`
	Order  *checkout.Snapshot `json:"order,omitempty"`
	Signal checkout.Signal    `json:"signal,omitempty"`
}

type ChatView struct {
	SessionID      string               `json:"session_id"`
	Phase          chat.Phase           `json:"phase"`
	Messages       []domain.ChatMessage `json:"messages"`
	Following      bool                 `json:"following"`
	ScrollRequests int                  `json:"scroll_requests"`
}

type storefrontService struct {
	catalog  Catalog
	cart     *cart.Store
	payments checkout.PaymentProcessor
	session  *chat.Session
	logger   *zap.Logger

	mu         sync.Mutex
	flow       *checkout.Flow
	lastSignal checkout.Signal
}

// NewStorefrontService creates a new instance of StorefrontService
func NewStorefrontService(
	catalog Catalog,
	cartStore *cart.Store,
	payments checkout.PaymentProcessor,
	session *chat.Session,
	logger *zap.Logger,
) StorefrontService {
	s := &storefrontService{
		catalog:  catalog,
		cart:     cartStore,
		payments: payments,
		session:  session,
		logger:   logger,
	}
	s.flow = s.newFlow()
	return s
}

func (s *storefrontService) SearchProducts(ctx context.Context, f catalog.Filter) (catalog.Page, error) {
	return s.catalog.Search(ctx, f)
}

func (s *storefrontService) Cart() CartView {
	return cartView(s.cart.Lines())
}

// AddToCart resolves the product against the catalog so prices come from the backend
func (s *storefrontService) AddToCart(ctx context.Context, productID int64) (CartView, error) {
	product, ok, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return CartView{}, err
	}
	if !ok {
		return CartView{}, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	s.cart.Add(ctx, product)
	return s.Cart(), nil
}

func (s *storefrontService) SetQuantity(ctx context.Context, productID int64, quantity int) CartView {
	s.cart.SetQuantity(ctx, productID, quantity)
	return s.Cart()
}

func (s *storefrontService) ClearCart(ctx context.Context) CartView {
	s.cart.Clear(ctx)
	return s.Cart()
}

func (s *storefrontService) Summary(productIDs []int64) SelectionSummary {
	lines := s.cart.LinesFor(lo.Uniq(productIDs)...)
	return SelectionSummary{
		Lines:  lineViews(lines),
		Totals: checkout.Quote(lines),
	}
}

func (s *storefrontService) Checkout() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutViewLocked()
}

// Review starts a fresh flow when the previous one was confirmed
func (s *storefrontService) Review() (CheckoutView, error) {
	s.mu.Lock()
	if s.flow.State().IsTerminal() {
		s.flow = s.newFlow()
		s.lastSignal = ""
	}
	flow := s.flow
	s.mu.Unlock()

	if _, err := flow.Review(); err != nil {
		return CheckoutView{}, err
	}
	return s.Checkout(), nil
}

func (s *storefrontService) BackToCart() (CheckoutView, error) {
	if _, err := s.currentFlow().BackToCart(); err != nil {
		return CheckoutView{}, err
	}
	return s.Checkout(), nil
}

func (s *storefrontService) ClearFromCheckout(ctx context.Context) (CheckoutView, error) {
	if _, err := s.currentFlow().ClearCart(ctx); err != nil {
		return CheckoutView{}, err
	}
	return s.Checkout(), nil
}

func (s *storefrontService) PayNow(ctx context.Context) (CheckoutView, error) {
	if _, err := s.currentFlow().PayNow(ctx); err != nil {
		return CheckoutView{}, err
	}
	return s.Checkout(), nil
}

func (s *storefrontService) Chat() ChatView {
	viewport := s.session.Viewport()
	return ChatView{
		SessionID:      s.session.ID(),
		Phase:          s.session.Phase(),
		Messages:       s.session.Messages(),
		Following:      viewport.Following(),
		ScrollRequests: viewport.ScrollRequests(),
	}
}

// SendChat reports false when the message was ignored
func (s *storefrontService) SendChat(ctx context.Context, text string) (ChatView, bool) {
	_, ok := s.session.Send(ctx, text)
	return s.Chat(), ok
}

func (s *storefrontService) ObserveScroll(offset, contentHeight, clientHeight float64) ChatView {
	s.session.Viewport().Observe(offset, contentHeight, clientHeight)
	return s.Chat()
}

func (s *storefrontService) JumpToBottom() ChatView {
	s.session.Viewport().JumpToBottom()
	return s.Chat()
}

func (s *storefrontService) Close() {
	s.session.Close()
}

func (s *storefrontService) currentFlow() *checkout.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow
}

func (s *storefrontService) newFlow() *checkout.Flow {
	nav := checkout.NavigatorFunc(func(sig checkout.Signal) {
		s.mu.Lock()
		s.lastSignal = sig
		s.mu.Unlock()
		s.logger.Info("Checkout navigation", zap.String("signal", string(sig)))
	})
	return checkout.NewFlow(s.cart, s.payments, nav, s.logger)
}

func (s *storefrontService) checkoutViewLocked() CheckoutView {
	view := CheckoutView{State: s.flow.State(), Signal: s.lastSignal}
	if snap, ok := s.flow.Snapshot(); ok {
		view.Order = &snap
	}
	return view
}

func cartView(lines []domain.CartLine) CartView {
	return CartView{
		Lines:     lineViews(lines),
		Subtotal:  cart.Subtotal(lines),
		LineCount: len(lines),
		ItemCount: lo.SumBy(lines, func(l domain.CartLine) int { return l.Quantity }),
	}
}

func lineViews(lines []domain.CartLine) []LineView {
	return lo.Map(lines, func(l domain.CartLine, _ int) LineView {
		return LineView{Product: l.Product, Quantity: l.Quantity, LineTotal: l.Total()}
	})
}
