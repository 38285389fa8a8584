// Package httpapi wires the gateway to an HTTP host. It is a thin adapter:
// all payment semantics live in the core packages.
package httpapi

import (
	"github.com/gofiber/fiber/v2"

	gonano "github.com/hectorchu/wc-gateway-gonano"
)

type Handler struct {
	gw *gonano.Gateway
}

func NewHandler(gw *gonano.Gateway) *Handler {
	return &Handler{gw: gw}
}

// RegisterRoutes mounts the checkout and confirmation endpoints.
func RegisterRoutes(app *fiber.App, gw *gonano.Gateway) {
	h := NewHandler(gw)

	app.Get("/wc-api/gonano", h.Callback)

	api := app.Group("/api")
	api.Post("/orders/:id/pay", h.Pay)
	api.Post("/orders/:id/cancel", h.Cancel)
}

// Pay starts a payment session for the order and returns the checkout
// redirect. Failures return a failure result without a redirect; the order
// already carries the reason.
func (h *Handler) Pay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	redirect, err := h.gw.ProcessPayment(c.Context(), int64(id))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"result": "failure",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"result":   "success",
		"redirect": redirect.URL,
	})
}

// Callback is the confirmation endpoint the processor or the buyer's
// browser invokes. The buyer is always redirected to the return page when
// the key resolves; unknown keys get an empty 204 and leak nothing.
func (h *Handler) Callback(c *fiber.Ctx) error {
	url := h.gw.PaymentCallback(c.Context(),
		c.Query("key"), c.Query("payment_id"), c.Query("err"))
	if url == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect(url, fiber.StatusFound)
}

// Cancel releases any payment session attached to the order.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	h.gw.CancelPayment(c.Context(), int64(id))
	return c.SendStatus(fiber.StatusNoContent)
}
