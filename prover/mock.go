package prover

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/kernel"
)

// mockBackend is a fast non-cryptographic stand-in. Proof bytes are a
// deterministic digest over the verification key and public values, so
// re-proving the same request yields byte-identical artifacts. Mock
// proofs carry no security.
type mockBackend struct {
	logger zerolog.Logger
}

func NewMockBackend(logger zerolog.Logger) Backend {
	return &mockBackend{logger: logger}
}

func mockVKey(program kernel.Program) VerificationKey {
	return sha256.Sum256([]byte("mock-program:" + program.Name))
}

func (m *mockBackend) Setup(ctx context.Context, program kernel.Program) (VerificationKey, error) {
	if err := ctx.Err(); err != nil {
		return VerificationKey{}, err
	}
	return mockVKey(program), nil
}

func (m *mockBackend) Execute(program kernel.Program, n uint32) (*kernel.Output, *ExecutionReport, error) {
	out, err := kernel.Run(n)
	if err != nil {
		return nil, nil, err
	}
	for _, line := range out.Log {
		m.logger.Debug().Str("program", program.Name).Msg(line)
	}
	return out, reportFor(out), nil
}

func (m *mockBackend) Prove(ctx context.Context, program kernel.Program, n uint32, system ProofSystem) (*Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}
	out, err := kernel.Run(n)
	if err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}

	digest := mockDigest(system, mockVKey(program), out.PublicValues)
	m.logger.Warn().Str("system", system.String()).Msg("mock proof generated; not secure")
	return &Proof{
		System:       system,
		Bytes:        digest,
		Raw:          digest,
		PublicValues: out.PublicValues,
	}, nil
}

func (m *mockBackend) Verify(proof *Proof, vkey VerificationKey) error {
	expected := mockDigest(proof.System, vkey, proof.PublicValues)
	if !bytes.Equal(proof.Bytes, expected) {
		return fmt.Errorf("mock proof does not match verification key and public values")
	}
	return nil
}

func mockDigest(system ProofSystem, vkey VerificationKey, publicValues []byte) []byte {
	h := sha256.New()
	h.Write([]byte("mock-proof:" + system.String()))
	h.Write(vkey[:])
	h.Write(publicValues)
	return h.Sum(nil)
}
