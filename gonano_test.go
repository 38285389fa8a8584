package gonano_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gonano "github.com/hectorchu/wc-gateway-gonano"
	"github.com/hectorchu/wc-gateway-gonano/config"
	"github.com/hectorchu/wc-gateway-gonano/store"
	"github.com/hectorchu/wc-gateway-gonano/types"
)

// processorStub mimics the Gonano payment API.
type processorStub struct {
	rate       string
	blockHash  string
	failCreate bool

	rateCalls   atomic.Int64
	statusCalls atomic.Int64
	cancelCalls atomic.Int64
}

func (p *processorStub) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/rates/", func(w http.ResponseWriter, r *http.Request) {
		p.rateCalls.Add(1)
		w.Write([]byte(p.rate))
	})
	mux.HandleFunc("/payment/new", func(w http.ResponseWriter, r *http.Request) {
		if p.failCreate {
			http.Error(w, "processor exploded", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(types.NewPaymentResponse{ID: "p1", Account: "nano_x"})
	})
	mux.HandleFunc("/payment/status", func(w http.ResponseWriter, r *http.Request) {
		p.statusCalls.Add(1)
		json.NewEncoder(w).Encode(types.PaymentStatusResponse{BlockHash: p.blockHash})
	})
	mux.HandleFunc("/payment/cancel", func(w http.ResponseWriter, r *http.Request) {
		p.cancelCalls.Add(1)
	})
	return httptest.NewServer(mux)
}

func newGateway(t *testing.T, apiURL string, orders store.OrderStore) *gonano.Gateway {
	t.Helper()

	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.Account = "nano_merchant"
	cfg.CallbackURL = "https://shop.example.com/wc-api/gonano"
	cfg.ReturnURL = "https://shop.example.com/order-received"

	gw, err := gonano.New(cfg, orders)
	require.NoError(t, err)
	return gw
}

func TestEndToEndSuccess(t *testing.T) {
	proc := &processorStub{rate: "2.5", blockHash: "H"}
	srv := proc.server()
	defer srv.Close()

	orders := store.NewMemory()
	order := orders.CreateOrder("10.00", "USD")
	gw := newGateway(t, srv.URL, orders)
	ctx := context.Background()

	redirect, err := gw.ProcessPayment(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", redirect.PaymentID)
	assert.Equal(t, "2.500000", redirect.Amount)

	paymentID, _ := orders.Meta(ctx, order.ID, types.MetaPaymentID)
	assert.Equal(t, "p1", paymentID)

	returnURL := gw.PaymentCallback(ctx, order.Key, "", "")
	assert.Contains(t, returnURL, "https://shop.example.com/order-received")

	got, _ := orders.Order(ctx, order.ID)
	assert.Equal(t, types.OrderCompleted, got.Status)
	assert.Equal(t, "H", got.TransactionRef)
	assert.Equal(t, types.SessionCompleted, types.SessionStatusOf(got, paymentID))
	assert.Equal(t, "https://nanolooker.com/block/H", types.TransactionURL(got.TransactionRef))
}

func TestEndToEndCreationFailure(t *testing.T) {
	proc := &processorStub{rate: "2.5", failCreate: true}
	srv := proc.server()
	defer srv.Close()

	orders := store.NewMemory()
	order := orders.CreateOrder("10.00", "USD")
	gw := newGateway(t, srv.URL, orders)
	ctx := context.Background()

	redirect, err := gw.ProcessPayment(ctx, order.ID)
	require.Error(t, err)
	assert.Nil(t, redirect, "no redirect on creation failure")

	got, _ := orders.Order(ctx, order.ID)
	assert.Equal(t, types.OrderFailed, got.Status)
	assert.Contains(t, orders.StatusReason(order.ID), "processor exploded")
}

func TestEndToEndNativeCurrencySkipsRateLookup(t *testing.T) {
	proc := &processorStub{blockHash: "H"}
	srv := proc.server()
	defer srv.Close()

	orders := store.NewMemory()
	order := orders.CreateOrder("5.0", "NANO")
	gw := newGateway(t, srv.URL, orders)

	redirect, err := gw.ProcessPayment(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, "5.000000", redirect.Amount)
	assert.Zero(t, proc.rateCalls.Load())
}

func TestEndToEndDuplicateCallback(t *testing.T) {
	proc := &processorStub{rate: "2.5", blockHash: "H"}
	srv := proc.server()
	defer srv.Close()

	orders := store.NewMemory()
	order := orders.CreateOrder("10.00", "USD")
	gw := newGateway(t, srv.URL, orders)
	ctx := context.Background()

	_, err := gw.ProcessPayment(ctx, order.ID)
	require.NoError(t, err)

	first := gw.PaymentCallback(ctx, order.Key, "p1", "")
	second := gw.PaymentCallback(ctx, order.Key, "p1", "")

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), proc.statusCalls.Load(),
		"the duplicate callback must not re-query the processor")

	got, _ := orders.Order(ctx, order.ID)
	assert.Equal(t, types.OrderCompleted, got.Status)
}

func TestEndToEndExplicitCancel(t *testing.T) {
	proc := &processorStub{rate: "2.5"}
	srv := proc.server()
	defer srv.Close()

	orders := store.NewMemory()
	order := orders.CreateOrder("10.00", "USD")
	gw := newGateway(t, srv.URL, orders)
	ctx := context.Background()

	_, err := gw.ProcessPayment(ctx, order.ID)
	require.NoError(t, err)

	gw.CancelPayment(ctx, order.ID)
	gw.CancelPayment(ctx, order.ID)

	assert.Equal(t, int64(1), proc.cancelCalls.Load())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default() // no account, no URLs
	_, err := gonano.New(cfg, store.NewMemory())

	var ce *types.ConfigError
	require.ErrorAs(t, err, &ce)
}
