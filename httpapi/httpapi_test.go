package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gonano "github.com/hectorchu/wc-gateway-gonano"
	"github.com/hectorchu/wc-gateway-gonano/config"
	"github.com/hectorchu/wc-gateway-gonano/store"
	"github.com/hectorchu/wc-gateway-gonano/types"
)

func processorServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/payment/new", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.NewPaymentResponse{ID: "p1", Account: "nano_x"})
	})
	mux.HandleFunc("/payment/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.PaymentStatusResponse{BlockHash: "H"})
	})
	mux.HandleFunc("/payment/cancel", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T) (*fiber.App, *store.Memory) {
	t.Helper()
	srv := processorServer(t)

	cfg := config.Default()
	cfg.APIURL = srv.URL
	cfg.Account = "nano_merchant"
	cfg.CallbackURL = "https://shop.example.com/wc-api/gonano"
	cfg.ReturnURL = "https://shop.example.com/order-received"

	orders := store.NewMemory()
	gw, err := gonano.New(cfg, orders)
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, gw)
	return app, orders
}

func TestPayEndpoint(t *testing.T) {
	app, orders := newApp(t)
	orders.CreateOrder("5.0", "NANO")

	req := httptest.NewRequest(http.MethodPost, "/api/orders/1/pay", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Result   string `json:"result"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Result)
	assert.Contains(t, body.Redirect, "/checkout/")
}

func TestPayEndpointBadID(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/abc/pay", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCallbackEndpointRedirects(t *testing.T) {
	app, orders := newApp(t)
	order := orders.CreateOrder("5.0", "NANO")

	payReq := httptest.NewRequest(http.MethodPost, "/api/orders/1/pay", nil)
	payResp, err := app.Test(payReq)
	require.NoError(t, err)
	payResp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/wc-api/gonano?key="+order.Key, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "https://shop.example.com/order-received")

	got, _ := orders.Order(context.Background(), order.ID)
	assert.Equal(t, types.OrderCompleted, got.Status)
}

func TestCallbackEndpointUnknownKey(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/wc-api/gonano?key=wc_order_unknown", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCancelEndpoint(t *testing.T) {
	app, orders := newApp(t)
	orders.CreateOrder("5.0", "NANO")

	req := httptest.NewRequest(http.MethodPost, "/api/orders/1/cancel", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
