package entity

import "fmt"

// FailureReason tags a remote RPC failure at the transport boundary so the
// status prober can classify it exhaustively instead of inspecting error
// strings.
type FailureReason int

const (
	// FailureOther covers transport errors, malformed responses and every
	// JSON-RPC error the other reasons do not claim.
	FailureOther FailureReason = iota
	// FailureGeoblocked is the provider's well-known geofencing rejection.
	FailureGeoblocked
	// FailureInternal is a generic JSON-RPC internal server error.
	FailureInternal
)

// RPCFailure is the closed error type produced by the request-sender transport
// for failed remote calls.
type RPCFailure struct {
	Reason FailureReason
	Err    error
}

func (f *RPCFailure) Error() string {
	return fmt.Sprintf("rpc failure (reason %d): %v", f.Reason, f.Err)
}

func (f *RPCFailure) Unwrap() error {
	return f.Err
}
