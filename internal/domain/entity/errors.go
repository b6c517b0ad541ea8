package entity

import "errors"

// Validation errors are synchronous and fatal to the call that raised them;
// they surface before any resource mutation, leaving the system unchanged.
var (
	ErrInvalidNetwork     = errors.New("unknown well-known network")
	ErrUnknownEndpoint    = errors.New("custom endpoint not found")
	ErrInvalidChainID     = errors.New("invalid chain id")
	ErrMissingChainID     = errors.New("custom endpoint has no chain id")
	ErrMissingURL         = errors.New("custom endpoint has no RPC URL")
	ErrInvalidURL         = errors.New("custom endpoint RPC URL is not a valid URL")
	ErrMissingTicker      = errors.New("custom endpoint has no ticker")
	ErrMissingAttribution = errors.New("upsert attribution requires both referrer and source")
)

// ErrMalformedGenerationID is returned when the chain generation id reported
// by the endpoint matches none of the accepted wire forms (number, 0x-hex
// string, decimal string).
var ErrMalformedGenerationID = errors.New("malformed chain generation id")
