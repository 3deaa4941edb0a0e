// Package pipeline drives a proving run end to end: setup, local dry
// run, proof generation, consistency check and local verification.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/kernel"
	"github.com/zkpipe/fibonacci-prover/prover"
)

// Request describes one proving run. System and Mode are already
// validated at the configuration boundary.
type Request struct {
	N             uint32
	System        prover.ProofSystem
	Mode          prover.ProverMode
	SaveArtifacts bool
	OutputDir     string
}

// Result is everything a successful run produced. It is handed to the
// artifact packager as-is.
type Result struct {
	Request     Request
	Computation kernel.Result
	Report      prover.ExecutionReport
	Proof       *prover.Proof
	VKey        prover.VerificationKey
}

type Orchestrator struct {
	backend prover.Backend
	program kernel.Program
	logger  zerolog.Logger
}

func New(backend prover.Backend, program kernel.Program, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		program: program,
		logger:  logger,
	}
}

// Run executes the full proving pipeline. The dry run always happens
// before proving: proving is never attempted without a decodable,
// well-formed commitment from local execution.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	vkey, err := o.backend.Setup(ctx, o.program)
	if err != nil {
		return nil, fmt.Errorf("program setup failed: %w", err)
	}
	o.logger.Info().Str("vkey", vkey.String()).Msg("program verification key")

	out, report, err := o.backend.Execute(o.program, req.N)
	if err != nil {
		return nil, &ExecutionError{N: req.N, Err: err}
	}
	decoded, err := kernel.DecodePublicValues(out.PublicValues)
	if err != nil {
		return nil, &ExecutionError{N: req.N, Err: fmt.Errorf("committed public values do not decode: %w", err)}
	}
	if decoded != out.Result {
		return nil, &ExecutionError{N: req.N, Err: fmt.Errorf("decoded public values %+v do not match computation %+v", decoded, out.Result)}
	}
	o.logger.Info().
		Uint32("n", decoded.N).
		Uint32("a", decoded.A).
		Uint32("b", decoded.B).
		Uint64("cycles", report.TotalInstructions).
		Msg("local execution successful")

	o.logProvingMode(req)
	start := time.Now()
	proof, err := o.backend.Prove(ctx, o.program, req.N, req.System)
	if err != nil {
		return nil, err
	}
	o.logger.Info().
		Str("system", req.System.String()).
		Int("proof_size", len(proof.Bytes)).
		Msg("proof generated, time: " + time.Since(start).String())

	if !bytes.Equal(proof.PublicValues, out.PublicValues) {
		return nil, fmt.Errorf("%w (dry run committed %d bytes, proof carries %d)",
			ErrCommitMismatch, len(out.PublicValues), len(proof.PublicValues))
	}

	if err := o.backend.Verify(proof, vkey); err != nil {
		return nil, &LocalVerificationError{Err: err}
	}
	o.logger.Info().Msg("local proof verification successful")

	return &Result{
		Request:     req,
		Computation: out.Result,
		Report:      *report,
		Proof:       proof,
		VKey:        vkey,
	}, nil
}

func (o *Orchestrator) logProvingMode(req Request) {
	switch req.Mode {
	case prover.ModeNetwork:
		o.logger.Info().Msgf("generating %s proof on the prover network; this may take several minutes", req.System)
	case prover.ModeCPU:
		o.logger.Info().Msgf("generating %s proof on the CPU", req.System)
		if req.System == prover.Groth16 {
			o.logger.Warn().Msg("CPU groth16 proving can take a long time; consider mock mode for testing")
		}
	case prover.ModeMock:
		o.logger.Info().Msgf("generating %s mock proof; fast but not secure", req.System)
	}
}
