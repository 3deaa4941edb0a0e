package prover

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test"
	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/kernel"
)

const fpSize = 4 * 8

// gnarkBackend proves the Fibonacci circuit locally on the CPU. Circuit
// compilation and key generation are memoized per program; the plonk side
// is only set up when a plonk proof is first requested.
type gnarkBackend struct {
	logger zerolog.Logger

	mu     sync.Mutex
	setups map[string]*programSetup
}

type programSetup struct {
	vkey VerificationKey

	r1cs    constraint.ConstraintSystem
	grothPK groth16.ProvingKey
	grothVK groth16.VerifyingKey

	scs     constraint.ConstraintSystem
	plonkPK plonk.ProvingKey
	plonkVK plonk.VerifyingKey
}

func NewGnarkBackend(logger zerolog.Logger) Backend {
	return &gnarkBackend{
		logger: logger,
		setups: make(map[string]*programSetup),
	}
}

func (g *gnarkBackend) Setup(ctx context.Context, program kernel.Program) (VerificationKey, error) {
	if err := ctx.Err(); err != nil {
		return VerificationKey{}, err
	}
	s, err := g.setup(program)
	if err != nil {
		return VerificationKey{}, err
	}
	return s.vkey, nil
}

func (g *gnarkBackend) setup(program kernel.Program) (*programSetup, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.setups[program.Name]; ok {
		return s, nil
	}

	g.logger.Info().Str("program", program.Name).Msg("compiling circuit")
	start := time.Now()
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, newFibonacciCircuit(int(program.MaxInput)))
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}
	g.logger.Info().Msg("Successfully compiled circuit, time: " + time.Since(start).String())

	// The verification key digest commits to the constraint system, so it
	// is deterministic per program even though groth16 setup is not.
	h := sha256.New()
	if _, err := cs.WriteTo(h); err != nil {
		return nil, fmt.Errorf("failed to hash constraint system: %w", err)
	}
	var vkey VerificationKey
	copy(vkey[:], h.Sum(nil))

	start = time.Now()
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("failed to run groth16 setup: %w", err)
	}
	g.logger.Info().Msg("Successfully ran circuit setup, time: " + time.Since(start).String())

	s := &programSetup{
		vkey:    vkey,
		r1cs:    cs,
		grothPK: pk,
		grothVK: vk,
	}
	g.setups[program.Name] = s
	return s, nil
}

func (g *gnarkBackend) plonkSetup(program kernel.Program, s *programSetup) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s.scs != nil {
		return nil
	}

	g.logger.Info().Str("program", program.Name).Msg("compiling plonk circuit")
	start := time.Now()
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, newFibonacciCircuit(int(program.MaxInput)))
	if err != nil {
		return fmt.Errorf("failed to compile plonk circuit: %w", err)
	}

	srs, err := test.NewKZGSRS(cs)
	if err != nil {
		return fmt.Errorf("failed to build kzg srs: %w", err)
	}
	pk, vk, err := plonk.Setup(cs, srs)
	if err != nil {
		return fmt.Errorf("failed to run plonk setup: %w", err)
	}
	g.logger.Info().Msg("Successfully ran plonk setup, time: " + time.Since(start).String())

	s.scs = cs
	s.plonkPK = pk
	s.plonkVK = vk
	return nil
}

func (g *gnarkBackend) Execute(program kernel.Program, n uint32) (*kernel.Output, *ExecutionReport, error) {
	out, err := kernel.Run(n)
	if err != nil {
		return nil, nil, err
	}
	for _, line := range out.Log {
		g.logger.Debug().Str("program", program.Name).Msg(line)
	}
	return out, reportFor(out), nil
}

func (g *gnarkBackend) Prove(ctx context.Context, program kernel.Program, n uint32, system ProofSystem) (*Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}

	s, err := g.setup(program)
	if err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}

	out, err := kernel.Run(n)
	if err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}

	assignment := &fibonacciCircuit{
		N: out.Result.N,
		A: out.Result.A,
		B: out.Result.B,
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, &ProvingError{System: system, N: n, Err: fmt.Errorf("failed to generate witness: %w", err)}
	}

	proof := &Proof{System: system, PublicValues: out.PublicValues}
	start := time.Now()
	switch system {
	case Groth16:
		p, err := groth16.Prove(s.r1cs, s.grothPK, witness)
		if err != nil {
			return nil, &ProvingError{System: system, N: n, Err: err}
		}
		buf := new(bytes.Buffer)
		if _, err := p.WriteRawTo(buf); err != nil {
			return nil, &ProvingError{System: system, N: n, Err: err}
		}
		proof.Raw = buf.Bytes()
		// The EVM verifier consumes the first 8 field elements.
		proof.Bytes = proof.Raw[:8*fpSize]
	case Plonk:
		if err := g.plonkSetup(program, s); err != nil {
			return nil, &ProvingError{System: system, N: n, Err: err}
		}
		p, err := plonk.Prove(s.scs, s.plonkPK, witness)
		if err != nil {
			return nil, &ProvingError{System: system, N: n, Err: err}
		}
		buf := new(bytes.Buffer)
		if _, err := p.WriteTo(buf); err != nil {
			return nil, &ProvingError{System: system, N: n, Err: err}
		}
		proof.Raw = buf.Bytes()
		proof.Bytes = p.(*plonk_bn254.Proof).MarshalSolidity()
	default:
		return nil, &ProvingError{System: system, N: n, Err: fmt.Errorf("unsupported proof system")}
	}
	g.logger.Info().Msg("Successfully created proof, time: " + time.Since(start).String())

	if err := ctx.Err(); err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}
	return proof, nil
}

func (g *gnarkBackend) Verify(proof *Proof, vkey VerificationKey) error {
	s := g.setupFor(vkey)
	if s == nil {
		return fmt.Errorf("unknown verification key %s", vkey)
	}

	decoded, err := kernel.DecodePublicValues(proof.PublicValues)
	if err != nil {
		return fmt.Errorf("failed to decode proof public values: %w", err)
	}
	assignment := &fibonacciCircuit{N: decoded.N, A: decoded.A, B: decoded.B}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("failed to build public witness: %w", err)
	}

	switch proof.System {
	case Groth16:
		p := groth16.NewProof(ecc.BN254)
		if _, err := p.ReadFrom(bytes.NewReader(proof.Raw)); err != nil {
			return fmt.Errorf("failed to deserialize groth16 proof: %w", err)
		}
		return groth16.Verify(p, s.grothVK, publicWitness)
	case Plonk:
		if s.plonkVK == nil {
			return fmt.Errorf("plonk verifying key not set up for this program")
		}
		p := plonk.NewProof(ecc.BN254)
		if _, err := p.ReadFrom(bytes.NewReader(proof.Raw)); err != nil {
			return fmt.Errorf("failed to deserialize plonk proof: %w", err)
		}
		return plonk.Verify(p, s.plonkVK, publicWitness)
	default:
		return fmt.Errorf("unsupported proof system %s", proof.System)
	}
}

func (g *gnarkBackend) setupFor(vkey VerificationKey) *programSetup {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.setups {
		if s.vkey == vkey {
			return s
		}
	}
	return nil
}
