package onchain

import (
	"errors"
	"fmt"
)

// ErrArtifactNotFound is the expected, recoverable case when proving has
// not been run yet.
var ErrArtifactNotFound = errors.New("contract call data not found; run proving first")

// ErrUnexpectedResult means the call succeeded but the returned triple
// does not satisfy the Fibonacci relation: the deployed contract or the
// encoding is inconsistent with this client.
var ErrUnexpectedResult = errors.New("on-chain result does not satisfy the fibonacci relation")

// DecodingError reports malformed persisted or remote data.
type DecodingError struct {
	What string
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// VerificationRejectedError is a cryptographic verdict from the remote
// verifier: the proof or data is genuinely invalid. It is a legitimate
// negative result, not a system fault.
type VerificationRejectedError struct {
	Err error
}

func (e *VerificationRejectedError) Error() string {
	return fmt.Sprintf("proof rejected by on-chain verifier: %v", e.Err)
}

func (e *VerificationRejectedError) Unwrap() error { return e.Err }

// TransportError is a network or RPC failure, distinct from rejection
// and safe to retry with backoff externally.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
