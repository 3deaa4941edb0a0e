package prover

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/kernel"
)

// VerificationKey is a fixed-length digest bound to a specific program
// binary. The same program always yields the same key.
type VerificationKey [32]byte

// Hex returns the lowercase hex form without a leading prefix.
func (k VerificationKey) Hex() string {
	return hex.EncodeToString(k[:])
}

func (k VerificationKey) String() string {
	return "0x" + k.Hex()
}

// ExecutionReport carries instruction-count data from a dry run. It is
// informational only and never part of a commitment.
type ExecutionReport struct {
	TotalInstructions uint64
}

// Proof is produced by a backend, never hand-constructed. Bytes is the
// EVM-calldata form sent on-chain; Raw is the backend-native
// serialization used for local verification.
type Proof struct {
	System       ProofSystem
	Bytes        []byte
	Raw          []byte
	PublicValues []byte
}

// ProvingError reports a backend proving failure with enough context to
// decide whether to retry. The pipeline never retries automatically.
type ProvingError struct {
	System ProofSystem
	N      uint32
	Err    error
}

func (e *ProvingError) Error() string {
	return fmt.Sprintf("proving failed (system=%s n=%d): %v", e.System, e.N, e.Err)
}

func (e *ProvingError) Unwrap() error { return e.Err }

// Backend is the provable-execution environment port. Setup is
// deterministic per program and memoized by the implementation. Prove is
// blocking and honors ctx cancellation; remote modes may take minutes to
// hours.
type Backend interface {
	Setup(ctx context.Context, program kernel.Program) (VerificationKey, error)
	Execute(program kernel.Program, n uint32) (*kernel.Output, *ExecutionReport, error)
	Prove(ctx context.Context, program kernel.Program, n uint32, system ProofSystem) (*Proof, error)
	Verify(proof *Proof, vkey VerificationKey) error
}

// Instruction-count model for the dry-run report. The kernel reports loop
// steps; the backend scales them into a cycle figure comparable across
// modes.
const (
	baseExecutionCost   = 64
	instructionsPerStep = 12
)

func reportFor(out *kernel.Output) *ExecutionReport {
	return &ExecutionReport{TotalInstructions: baseExecutionCost + instructionsPerStep*out.Steps}
}

// NewBackend builds the backend for the given mode. The endpoint is only
// consulted in network mode.
func NewBackend(mode ProverMode, logger zerolog.Logger, endpoint string) (Backend, error) {
	switch mode {
	case ModeMock:
		return NewMockBackend(logger), nil
	case ModeCPU:
		return NewGnarkBackend(logger), nil
	case ModeNetwork:
		if endpoint == "" {
			return nil, fmt.Errorf("network mode requires a prover endpoint")
		}
		return NewNetworkBackend(endpoint, logger), nil
	default:
		return nil, fmt.Errorf("unknown prover mode %d", mode)
	}
}
