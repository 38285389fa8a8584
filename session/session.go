// Package session implements the payment-session lifecycle for one order:
// creation against the processor, callback confirmation and best-effort
// cancellation. At most one non-terminal session exists per order; starting
// a new one supersedes the previous.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/hectorchu/wc-gateway-gonano/config"
	"github.com/hectorchu/wc-gateway-gonano/logger"
	"github.com/hectorchu/wc-gateway-gonano/metrics"
	"github.com/hectorchu/wc-gateway-gonano/store"
	"github.com/hectorchu/wc-gateway-gonano/types"
)

// ProcessorClient is the slice of the remote client the session layer uses.
type ProcessorClient interface {
	NewPayment(ctx context.Context, account, amount string) (*types.NewPaymentResponse, error)
	Status(ctx context.Context, paymentID string) (*types.PaymentStatusResponse, error)
	Cancel(ctx context.Context, paymentID string) error
	APIURL() string
}

// Service drives session state transitions. All mutation of one order is
// serialized behind an order-scoped lock so a stale confirm cannot race a
// fresh create.
type Service struct {
	client  ProcessorClient
	orders  store.OrderStore
	cfg     config.Config
	log     logger.Logger
	metrics metrics.Recorder

	locks sync.Map // int64 -> *sync.Mutex
}

// NewService creates the session service.
func NewService(client ProcessorClient, orders store.OrderStore, cfg config.Config,
	log logger.Logger, rec metrics.Recorder) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{
		client:  client,
		orders:  orders,
		cfg:     cfg,
		log:     log,
		metrics: rec,
	}
}

func (s *Service) lock(orderID int64) func() {
	v, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create opens a new session for the order at the given NANO amount. Any
// prior pending session is cancelled first, best-effort. On success the
// session metadata is persisted and the checkout redirect is returned. On
// failure the order transitions to failed with the error text and no
// redirect is produced.
func (s *Service) Create(ctx context.Context, orderID int64, amount string) (*types.CheckoutRedirect, error) {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == types.OrderCompleted {
		return nil, &types.ValidationError{Reason: "order is already paid"}
	}

	s.cancelLocked(ctx, orderID)

	started := time.Now()
	result, err := s.client.NewPayment(ctx, s.cfg.Account, amount)
	s.metrics.ObserveLatency("payment_new", time.Since(started),
		map[string]string{"currency": order.Currency})
	if err != nil {
		s.fail(ctx, orderID, order.Currency, err.Error())
		return nil, err
	}

	if err := s.orders.SetMeta(ctx, orderID, types.MetaAccount, s.cfg.Account); err != nil {
		return nil, err
	}
	if err := s.orders.SetMeta(ctx, orderID, types.MetaAmount, amount); err != nil {
		return nil, err
	}
	if err := s.orders.SetMeta(ctx, orderID, types.MetaPaymentID, result.ID); err != nil {
		return nil, err
	}

	s.log.Info("payment session created", map[string]any{
		"order":      orderID,
		"payment_id": result.ID,
		"amount":     amount,
	})
	s.metrics.IncCounter(metrics.EventPaymentCreated,
		map[string]string{"currency": order.Currency})

	return &types.CheckoutRedirect{
		URL:       s.checkoutURL(order, result, amount),
		PaymentID: result.ID,
		Account:   result.Account,
		Amount:    amount,
		Currency:  order.Currency,
	}, nil
}

// checkoutURL builds the processor-hosted checkout page URL. Both callback
// parameters point at the same confirmation endpoint; the processor or the
// buyer's browser decides which to invoke based on outcome.
func (s *Service) checkoutURL(order *types.Order, result *types.NewPaymentResponse, amount string) string {
	callback := s.cfg.CallbackURL + "?key=" + url.QueryEscape(order.Key)

	q := url.Values{}
	q.Set("api_url", s.client.APIURL())
	q.Set("title", s.cfg.Title)
	q.Set("account", result.Account)
	q.Set("amount", amount)
	q.Set("currency", order.Currency)
	q.Set("payment_id", result.ID)
	q.Set("on_success", callback)
	q.Set("on_error", callback)

	return s.client.APIURL() + "/checkout/?" + q.Encode()
}

// Confirm resolves a pending session. A non-empty callbackErr is taken as
// authoritative. A paymentID different from the one attached to the order
// fails the order with a mismatch reason so a stale or duplicate callback
// can never complete the wrong session. Orders with no session, or already
// completed, are left untouched.
func (s *Service) Confirm(ctx context.Context, orderID int64, paymentID, callbackErr string) error {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return err
	}

	current, err := s.orders.Meta(ctx, orderID, types.MetaPaymentID)
	if err != nil {
		return err
	}
	if current == "" {
		// Nothing to confirm: replayed or forged callback.
		s.metrics.IncCounter(metrics.EventCallbackIgnored,
			map[string]string{"currency": order.Currency})
		return nil
	}

	if order.Status == types.OrderCompleted || order.Status == types.OrderFailed ||
		order.Status == types.OrderCancelled {
		// Terminal state. Duplicate settlement callbacks must not re-trigger
		// completion side effects, and a failed order stays failed until a
		// fresh checkout supersedes its session.
		s.log.Debug("order in terminal state, callback ignored", map[string]any{
			"order":  orderID,
			"status": order.Status,
		})
		return nil
	}

	if callbackErr != "" {
		s.fail(ctx, orderID, order.Currency, callbackErr)
		return &types.ValidationError{Reason: callbackErr}
	}

	if paymentID != "" && paymentID != current {
		s.fail(ctx, orderID, order.Currency, ReasonMismatch)
		return &types.ValidationError{Reason: ReasonMismatch}
	}

	started := time.Now()
	status, err := s.client.Status(ctx, current)
	s.metrics.ObserveLatency("payment_status", time.Since(started),
		map[string]string{"currency": order.Currency})
	if err != nil {
		s.fail(ctx, orderID, order.Currency, err.Error())
		return err
	}

	if status.BlockHash == "" {
		s.fail(ctx, orderID, order.Currency, ReasonNotFulfilled)
		return &types.ValidationError{Reason: ReasonNotFulfilled}
	}

	if err := s.orders.MarkPaid(ctx, orderID, status.BlockHash); err != nil {
		return err
	}

	s.log.Info("payment completed", map[string]any{
		"order":      orderID,
		"payment_id": current,
		"block_hash": status.BlockHash,
	})
	s.metrics.IncCounter(metrics.EventPaymentCompleted,
		map[string]string{"currency": order.Currency})
	return nil
}

// Cancel releases any session attached to the order. It never reports an
// error: cancellation is advisory cleanup, not a correctness requirement
// for the order state.
func (s *Service) Cancel(ctx context.Context, orderID int64) {
	unlock := s.lock(orderID)
	defer unlock()
	s.cancelLocked(ctx, orderID)
}

func (s *Service) cancelLocked(ctx context.Context, orderID int64) {
	paymentID, err := s.orders.Meta(ctx, orderID, types.MetaPaymentID)
	if err != nil || paymentID == "" {
		return
	}

	if err := s.client.Cancel(ctx, paymentID); err != nil {
		s.log.Warn("payment cancel failed", map[string]any{
			"order":      orderID,
			"payment_id": paymentID,
			"error":      err.Error(),
		})
	}

	// Detach the session either way so stale callbacks resolve to nothing
	// and a repeated cancel stays local.
	if err := s.orders.SetMeta(ctx, orderID, types.MetaPaymentID, ""); err != nil {
		s.log.Warn("detaching session failed", map[string]any{
			"order": orderID,
			"error": err.Error(),
		})
		return
	}

	s.metrics.IncCounter(metrics.EventPaymentCancelled, map[string]string{})
}

func (s *Service) fail(ctx context.Context, orderID int64, currency, reason string) {
	if err := s.orders.UpdateStatus(ctx, orderID, types.OrderFailed, reason); err != nil {
		s.log.Error("failed to update order status", map[string]any{
			"order": orderID,
			"error": err.Error(),
		})
	}
	s.log.Warn("payment failed", map[string]any{"order": orderID, "reason": reason})
	s.metrics.IncCounter(metrics.EventPaymentFailed,
		map[string]string{"currency": currency})
}
