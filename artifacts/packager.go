// Package artifacts persists a completed proving run as the five-file
// bundle that drives remote verification.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/pipeline"
	"github.com/zkpipe/fibonacci-prover/prover"
)

// VKeyFileName holds the program verification key; it is not keyed by
// (system, n) because the key is per program, not per run.
const VKeyFileName = "verification_key.txt"

func ProofFileName(system prover.ProofSystem, n uint32) string {
	return fmt.Sprintf("proof_%s_n%d.bin", system, n)
}

func PublicValuesFileName(n uint32) string {
	return fmt.Sprintf("public_values_n%d.bin", n)
}

func CallDataFileName(n uint32) string {
	return fmt.Sprintf("contract_call_data_n%d.json", n)
}

func SummaryFileName(n uint32) string {
	return fmt.Sprintf("summary_n%d.txt", n)
}

// PersistenceError reports a failed artifact write. The remaining writes
// of that invocation are aborted, so a partial bundle may be left behind;
// readers must not assume completeness.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write artifact %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Bundle lists the files of one persisted proving run. Filenames are a
// pure function of (system, n); a later run with the same parameters
// overwrites the bundle wholesale.
type Bundle struct {
	Dir              string
	ProofPath        string
	PublicValuesPath string
	VKeyPath         string
	CallDataPath     string
	SummaryPath      string
}

type Packager struct {
	dir    string
	logger zerolog.Logger
}

func NewPackager(dir string, logger zerolog.Logger) *Packager {
	return &Packager{dir: dir, logger: logger}
}

// Persist writes the bundle for a successful run. The first write
// failure aborts the rest.
func (p *Packager) Persist(res *pipeline.Result) (*Bundle, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, &PersistenceError{Path: p.dir, Err: err}
	}

	n := res.Request.N
	bundle := &Bundle{
		Dir:              p.dir,
		ProofPath:        filepath.Join(p.dir, ProofFileName(res.Proof.System, n)),
		PublicValuesPath: filepath.Join(p.dir, PublicValuesFileName(n)),
		VKeyPath:         filepath.Join(p.dir, VKeyFileName),
		CallDataPath:     filepath.Join(p.dir, CallDataFileName(n)),
		SummaryPath:      filepath.Join(p.dir, SummaryFileName(n)),
	}

	if err := p.write(bundle.ProofPath, res.Proof.Bytes); err != nil {
		return nil, err
	}
	if err := p.write(bundle.PublicValuesPath, res.Proof.PublicValues); err != nil {
		return nil, err
	}
	if err := p.write(bundle.VKeyPath, []byte(res.VKey.String())); err != nil {
		return nil, err
	}

	callData, err := NewCallData(res.Proof, n).Encode()
	if err != nil {
		return nil, &PersistenceError{Path: bundle.CallDataPath, Err: err}
	}
	if err := p.write(bundle.CallDataPath, callData); err != nil {
		return nil, err
	}

	if err := p.write(bundle.SummaryPath, []byte(summary(res))); err != nil {
		return nil, err
	}

	return bundle, nil
}

func (p *Packager) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	p.logger.Info().Str("path", path).Msg("artifact saved")
	return nil
}

// summary is human-readable only; nothing parses it.
func summary(res *pipeline.Result) string {
	pv := hexutil.Encode(res.Proof.PublicValues)
	proof := hexutil.Encode(res.Proof.Bytes)
	return fmt.Sprintf(`%s Proof Summary
===================
Input: %d
System: %s
Verification Key: %s
Public Values: %s
Proof: %s
Proof Size: %d bytes

To verify on-chain:
1. Deploy the Fibonacci contract with VKey: %s
2. Call verifyFibonacciProof(proofBytes, publicValues)
3. Public Values: %s
4. Proof: %s
`,
		res.Proof.System,
		res.Request.N,
		res.Proof.System,
		res.VKey,
		pv,
		proof,
		len(res.Proof.Bytes),
		res.VKey,
		pv,
		proof,
	)
}
