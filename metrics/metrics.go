package metrics

import "time"

// Recorder receives gateway events and processor call latencies.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Event counter names recorded by the gateway.
const (
	EventPaymentCreated   = "payment_created"
	EventPaymentCompleted = "payment_completed"
	EventPaymentFailed    = "payment_failed"
	EventPaymentCancelled = "payment_cancelled"
	EventCallbackIgnored  = "callback_ignored"
)
