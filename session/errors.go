package session

// Failure reasons attached to the order when a session cannot complete.
// These are buyer-visible on the failed-order page.
const (
	ReasonNotFulfilled = "Payment not fulfilled"
	ReasonMismatch     = "Payment ID mismatch"
)
