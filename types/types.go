package types

import "fmt"

// OrderStatus represents the fulfillment status of an order as tracked by
// the host order store.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderOnHold     OrderStatus = "on-hold"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderFailed     OrderStatus = "failed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// SessionStatus is the derived state of a payment session. It is never
// stored directly: it is inferred from the order status plus the presence
// of a settlement block hash.
type SessionStatus string

const (
	SessionNone      SessionStatus = "none"
	SessionPending   SessionStatus = "pending"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Metadata keys under which session state is persisted on the order record.
const (
	MetaAccount   = "_gonano_account"
	MetaAmount    = "_gonano_amount"
	MetaPaymentID = "_gonano_payment_id"
)

// NativeCurrency is the processor's native unit. Orders priced in any other
// currency go through a rate lookup before a session is created.
const NativeCurrency = "NANO"

// Order is the slice of the host platform's order record the gateway reads.
// The gateway never owns orders; all mutation goes through the order store.
type Order struct {
	ID       int64       `json:"id"`
	Total    string      `json:"total"`
	Currency string      `json:"currency"`
	Status   OrderStatus `json:"status"`

	// Key is the unguessable per-order token used to authorize inbound
	// confirmation callbacks.
	Key string `json:"key"`

	// TransactionRef holds the settlement block hash once the order has
	// been paid.
	TransactionRef string `json:"transactionRef,omitempty"`
}

// NewPaymentRequest is the body of POST {api}/payment/new.
type NewPaymentRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// NewPaymentResponse is the processor's reply to a creation request.
type NewPaymentResponse struct {
	ID      string `json:"id"`
	Account string `json:"account"`
}

// PaymentRequest identifies an existing payment for status and cancel calls.
type PaymentRequest struct {
	ID string `json:"id"`
}

// PaymentStatusResponse is the processor's reply to a status query. A
// non-empty BlockHash is the sole proof of on-chain settlement.
type PaymentStatusResponse struct {
	BlockHash string `json:"block_hash"`
}

// CheckoutRedirect is the target the buyer is sent to after a session has
// been created on the processor.
type CheckoutRedirect struct {
	URL       string `json:"url"`
	PaymentID string `json:"paymentId"`
	Account   string `json:"account"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// blockExplorerURL is the template for buyer-facing settlement links.
const blockExplorerURL = "https://nanolooker.com/block/%s"

// TransactionURL returns the block explorer link for a settlement hash.
func TransactionURL(blockHash string) string {
	return fmt.Sprintf(blockExplorerURL, blockHash)
}

// SessionStatusOf derives the session state from an order.
func SessionStatusOf(order *Order, paymentID string) SessionStatus {
	if paymentID == "" {
		return SessionNone
	}
	switch order.Status {
	case OrderCompleted:
		return SessionCompleted
	case OrderFailed, OrderCancelled:
		return SessionFailed
	default:
		return SessionPending
	}
}
