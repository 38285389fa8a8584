// Package callback resolves inbound confirmation requests to an order and
// drives the session transition. Callers are unauthenticated, so orders are
// addressed only by their unguessable lookup key.
package callback

import (
	"context"
	"errors"
	"net/url"

	"github.com/hectorchu/wc-gateway-gonano/config"
	"github.com/hectorchu/wc-gateway-gonano/logger"
	"github.com/hectorchu/wc-gateway-gonano/metrics"
	"github.com/hectorchu/wc-gateway-gonano/store"
)

// Confirmer is the session operation the router drives.
type Confirmer interface {
	Confirm(ctx context.Context, orderID int64, paymentID, callbackErr string) error
}

// Router maps confirmation callbacks onto session transitions.
type Router struct {
	sessions Confirmer
	orders   store.OrderStore
	cfg      config.Config
	log      logger.Logger
	metrics  metrics.Recorder
}

// NewRouter creates a callback router.
func NewRouter(sessions Confirmer, orders store.OrderStore, cfg config.Config,
	log logger.Logger, rec metrics.Recorder) *Router {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Router{
		sessions: sessions,
		orders:   orders,
		cfg:      cfg,
		log:      log,
		metrics:  rec,
	}
}

// Handle resolves the order behind key and confirms its session. It returns
// the buyer-facing redirect URL, which never depends on the confirm outcome:
// the buyer always lands on the return page for the order's resulting
// status. An unresolvable key returns an empty string and takes no action,
// so unauthenticated probes learn nothing about which order ids exist.
func (r *Router) Handle(ctx context.Context, key, paymentID, callbackErr string) string {
	if key == "" {
		return ""
	}

	orderID, err := r.orders.OrderIDByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.log.Error("order key lookup failed", map[string]any{"error": err.Error()})
		}
		r.metrics.IncCounter(metrics.EventCallbackIgnored, map[string]string{})
		return ""
	}

	// Confirm failures already transition the order and are logged by the
	// session layer; the redirect must go out regardless.
	if err := r.sessions.Confirm(ctx, orderID, paymentID, callbackErr); err != nil {
		r.log.Debug("callback confirm failed", map[string]any{
			"order": orderID,
			"error": err.Error(),
		})
	}

	return r.returnURL(key)
}

func (r *Router) returnURL(key string) string {
	q := url.Values{}
	q.Set("key", key)
	return r.cfg.ReturnURL + "?" + q.Encode()
}
