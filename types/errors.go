package types

import "fmt"

// TransportError reports that the processor could not be reached at all
// (DNS failure, timeout, connection refused).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error making request to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a non-200 response from the processor. The body is
// kept verbatim as diagnostic text.
type RemoteError struct {
	URL    string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("error making request to %s: %s", e.URL, e.Body)
}

// DecodeError reports a 200 response whose body could not be parsed.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports a callback or session that failed a consistency
// check: a payment id mismatch, a missing block hash, an unresolvable
// lookup key.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ConfigError reports invalid or missing gateway configuration. It is
// surfaced at load time rather than at first checkout.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}
