// Package gonano bridges an e-commerce checkout flow to the Gonano payment
// processor, turning an order's fiat total into a confirmed on-chain NANO
// payment. The host platform supplies an order store and routes its
// checkout and callback events to the Gateway methods.
package gonano

import (
	"context"
	"net/http"

	"github.com/hectorchu/wc-gateway-gonano/callback"
	"github.com/hectorchu/wc-gateway-gonano/client"
	"github.com/hectorchu/wc-gateway-gonano/config"
	"github.com/hectorchu/wc-gateway-gonano/logger"
	"github.com/hectorchu/wc-gateway-gonano/metrics"
	"github.com/hectorchu/wc-gateway-gonano/rates"
	"github.com/hectorchu/wc-gateway-gonano/session"
	"github.com/hectorchu/wc-gateway-gonano/store"
	"github.com/hectorchu/wc-gateway-gonano/types"
)

// Version of the gateway library.
const Version = "0.2.0"

// Gateway is the main entry point tying the calculator, session service and
// callback router together.
type Gateway struct {
	cfg        config.Config
	orders     store.OrderStore
	client     *client.Client
	calculator *rates.Calculator
	sessions   *session.Service
	router     *callback.Router
	log        logger.Logger
	metrics    metrics.Recorder
	httpClient *http.Client
}

// New creates a gateway from a validated configuration and an order store.
func New(cfg config.Config, orders store.OrderStore, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:     cfg,
		orders:  orders,
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
	}

	for _, opt := range opts {
		opt(g)
	}

	g.client = client.New(cfg.APIURL, g.httpClient)
	g.calculator = rates.NewCalculator(g.client, cfg.Multiplier)
	g.sessions = session.NewService(g.client, orders, cfg, g.log, g.metrics)
	g.router = callback.NewRouter(g.sessions, orders, cfg, g.log, g.metrics)

	return g, nil
}

// ProcessPayment starts a payment session for the order: the fiat total is
// converted into NANO, a payment is created on the processor and the buyer
// is sent to the processor-hosted checkout page. Any failure transitions
// the order to failed with the error text and yields no redirect.
func (g *Gateway) ProcessPayment(ctx context.Context, orderID int64) (*types.CheckoutRedirect, error) {
	order, err := g.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}

	amount, err := g.calculator.Compute(ctx, order.Total, order.Currency)
	if err != nil {
		if uerr := g.orders.UpdateStatus(ctx, orderID, types.OrderFailed, err.Error()); uerr != nil {
			g.log.Error("failed to update order status", map[string]any{
				"order": orderID,
				"error": uerr.Error(),
			})
		}
		g.log.Warn("amount calculation failed", map[string]any{
			"order": orderID,
			"error": err.Error(),
		})
		g.metrics.IncCounter(metrics.EventPaymentFailed,
			map[string]string{"currency": order.Currency})
		return nil, err
	}

	return g.sessions.Create(ctx, orderID, amount)
}

// PaymentCallback resolves an inbound confirmation request. The returned
// URL is where the buyer's browser should be redirected; it is empty only
// when the lookup key resolves to no order.
func (g *Gateway) PaymentCallback(ctx context.Context, key, paymentID, callbackErr string) string {
	return g.router.Handle(ctx, key, paymentID, callbackErr)
}

// CancelPayment releases any payment session attached to the order. Hosts
// call this when an order transitions to failed or cancelled. Cancellation
// is best-effort and never errors.
func (g *Gateway) CancelPayment(ctx context.Context, orderID int64) {
	g.sessions.Cancel(ctx, orderID)
}

// Config returns the configuration the gateway was built with.
func (g *Gateway) Config() config.Config { return g.cfg }
