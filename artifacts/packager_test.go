package artifacts

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpipe/fibonacci-prover/kernel"
	"github.com/zkpipe/fibonacci-prover/pipeline"
	"github.com/zkpipe/fibonacci-prover/prover"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func proveResult(t *testing.T, n uint32, system prover.ProofSystem) *pipeline.Result {
	t.Helper()
	backend := prover.NewMockBackend(testLogger())
	orch := pipeline.New(backend, kernel.Fibonacci, testLogger())
	res, err := orch.Run(context.Background(), pipeline.Request{N: n, System: system, Mode: prover.ModeMock})
	require.NoError(t, err)
	return res
}

func TestPersistWritesCompleteBundle(t *testing.T) {
	dir := t.TempDir()
	res := proveResult(t, 10, prover.Groth16)

	bundle, err := NewPackager(dir, testLogger()).Persist(res)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "proof_groth16_n10.bin"), bundle.ProofPath)
	assert.Equal(t, filepath.Join(dir, "public_values_n10.bin"), bundle.PublicValuesPath)
	assert.Equal(t, filepath.Join(dir, "verification_key.txt"), bundle.VKeyPath)
	assert.Equal(t, filepath.Join(dir, "contract_call_data_n10.json"), bundle.CallDataPath)
	assert.Equal(t, filepath.Join(dir, "summary_n10.txt"), bundle.SummaryPath)

	for _, path := range []string{
		bundle.ProofPath, bundle.PublicValuesPath, bundle.VKeyPath, bundle.CallDataPath, bundle.SummaryPath,
	} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.NotZero(t, info.Size(), path)
	}

	vkey, err := os.ReadFile(bundle.VKeyPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(vkey), "0x"))
	assert.Len(t, string(vkey), 66)

	pv, err := os.ReadFile(bundle.PublicValuesPath)
	require.NoError(t, err)
	decoded, err := kernel.DecodePublicValues(pv)
	require.NoError(t, err)
	assert.Equal(t, kernel.Result{N: 10, A: 55, B: 89}, decoded)
}

func TestPersistOverwritesDeterministically(t *testing.T) {
	dir := t.TempDir()
	packager := NewPackager(dir, testLogger())

	first, err := packager.Persist(proveResult(t, 10, prover.Plonk))
	require.NoError(t, err)
	before, err := os.ReadFile(first.CallDataPath)
	require.NoError(t, err)

	second, err := packager.Persist(proveResult(t, 10, prover.Plonk))
	require.NoError(t, err)
	after, err := os.ReadFile(second.CallDataPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, after, "mock proofs are deterministic, so overwrites are byte-identical")
}

func TestFileNamesArePureInSystemAndN(t *testing.T) {
	assert.Equal(t, "proof_groth16_n10.bin", ProofFileName(prover.Groth16, 10))
	assert.Equal(t, "proof_plonk_n10.bin", ProofFileName(prover.Plonk, 10))
	assert.Equal(t, "proof_groth16_n0.bin", ProofFileName(prover.Groth16, 0))
	assert.Equal(t, "contract_call_data_n9999.json", CallDataFileName(9999))
}

func TestCallDataRegeneratesByteForByte(t *testing.T) {
	res := proveResult(t, 10, prover.Groth16)

	first, err := NewCallData(res.Proof, 10).Encode()
	require.NoError(t, err)
	second, err := NewCallData(res.Proof, 10).Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	text := string(first)
	assert.Contains(t, text, `"function": "verifyFibonacciProof"`)
	assert.Contains(t, text, `"function_signature": "verifyFibonacciProof(bytes,bytes)"`)
	assert.Contains(t, text, `"returns": "(uint32,uint32,uint32)"`)
}

func TestPersistAbortsOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	res := proveResult(t, 10, prover.Groth16)

	// Pre-create the proof artifact as an unwritable directory so the
	// very first write fails.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ProofFileName(prover.Groth16, 10)), 0755))

	bundle, err := NewPackager(dir, testLogger()).Persist(res)
	assert.Nil(t, bundle)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)

	// Later artifacts were never written.
	_, statErr := os.Stat(filepath.Join(dir, PublicValuesFileName(10)))
	assert.True(t, os.IsNotExist(statErr))
}
