package gonano

import (
	"net/http"

	"github.com/hectorchu/wc-gateway-gonano/logger"
	"github.com/hectorchu/wc-gateway-gonano/metrics"
)

type Option func(*Gateway)

func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(g *Gateway) {
		g.metrics = r
	}
}

// WithHTTPClient sets the HTTP client used for processor calls. Request
// timeouts are whatever this client enforces; the gateway adds none of its
// own.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = c
	}
}
