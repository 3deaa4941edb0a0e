// Package onchain drives independent verification of a persisted proof
// bundle against a deployed verifier contract.
package onchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/artifacts"
	"github.com/zkpipe/fibonacci-prover/kernel"
)

const fibonacciABIJSON = `[
	{"type":"function","name":"verifyFibonacciProof","stateMutability":"view",
		"inputs":[{"name":"proofBytes","type":"bytes"},{"name":"publicValues","type":"bytes"}],
		"outputs":[{"name":"n","type":"uint32"},{"name":"a","type":"uint32"},{"name":"b","type":"uint32"}]},
	{"type":"function","name":"getProgramVKey","stateMutability":"view",
		"inputs":[],
		"outputs":[{"name":"","type":"bytes32"}]}
]`

var fibonacciABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(fibonacciABIJSON))
	if err != nil {
		panic(err)
	}
	fibonacciABI = parsed
}

// ContractCaller is the read-only eth_call port; *ethclient.Client
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Outcome is the decoded result of a successful remote verification.
type Outcome struct {
	N uint32
	A uint32
	B uint32
}

// Verifier reads a previously packaged bundle and asks the deployed
// contract to verify it. It never mutates artifacts.
type Verifier struct {
	caller   ContractCaller
	contract common.Address
	logger   zerolog.Logger
}

func NewVerifier(caller ContractCaller, contract common.Address, logger zerolog.Logger) *Verifier {
	return &Verifier{
		caller:   caller,
		contract: contract,
		logger:   logger,
	}
}

// VerifyFromBundle performs remote verification for the run keyed by n
// in bundleDir.
func (v *Verifier) VerifyFromBundle(ctx context.Context, bundleDir string, n uint32) (*Outcome, error) {
	callDataPath := filepath.Join(bundleDir, artifacts.CallDataFileName(n))
	raw, err := os.ReadFile(callDataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (expected %s)", ErrArtifactNotFound, callDataPath)
		}
		return nil, fmt.Errorf("failed to read contract call data: %w", err)
	}

	var callData artifacts.CallData
	if err := json.Unmarshal(raw, &callData); err != nil {
		return nil, &DecodingError{What: "contract call data document", Err: err}
	}

	proofBytes, err := hexutil.Decode(callData.Parameters.ProofBytes)
	if err != nil {
		return nil, &DecodingError{What: "proof bytes", Err: err}
	}
	publicValues, err := hexutil.Decode(callData.Parameters.PublicValues)
	if err != nil {
		return nil, &DecodingError{What: "public values", Err: err}
	}
	if len(publicValues) != kernel.PublicValuesLen {
		return nil, &DecodingError{
			What: "public values",
			Err:  fmt.Errorf("expected %d bytes, got %d", kernel.PublicValuesLen, len(publicValues)),
		}
	}

	v.checkProgramVKey(ctx, bundleDir)

	return v.verifyProof(ctx, proofBytes, publicValues)
}

// checkProgramVKey compares the contract's recorded key against the one
// in the bundle. Diagnostic only: the authoritative check is the
// contract's own verification logic, so a mismatch is logged, not fatal.
func (v *Verifier) checkProgramVKey(ctx context.Context, bundleDir string) {
	input, err := fibonacciABI.Pack("getProgramVKey")
	if err != nil {
		v.logger.Warn().Err(err).Msg("failed to encode getProgramVKey call")
		return
	}
	out, err := v.caller.CallContract(ctx, ethereum.CallMsg{To: &v.contract, Data: input}, nil)
	if err != nil {
		v.logger.Warn().Err(err).Msg("failed to read contract vkey")
		return
	}
	values, err := fibonacciABI.Unpack("getProgramVKey", out)
	if err != nil {
		v.logger.Warn().Err(err).Msg("failed to decode contract vkey")
		return
	}
	contractKey := values[0].([32]byte)
	contractHex := hexutil.Encode(contractKey[:])
	v.logger.Info().Str("vkey", contractHex).Msg("contract program vkey")

	local, err := os.ReadFile(filepath.Join(bundleDir, artifacts.VKeyFileName))
	if err != nil {
		return
	}
	if expected := strings.TrimSpace(string(local)); !strings.EqualFold(expected, contractHex) {
		v.logger.Warn().
			Str("local", expected).
			Str("contract", contractHex).
			Msg("verification key mismatch between bundle and contract")
	}
}

func (v *Verifier) verifyProof(ctx context.Context, proofBytes, publicValues []byte) (*Outcome, error) {
	input, err := fibonacciABI.Pack("verifyFibonacciProof", proofBytes, publicValues)
	if err != nil {
		return nil, &DecodingError{What: "call input", Err: err}
	}

	out, err := v.caller.CallContract(ctx, ethereum.CallMsg{To: &v.contract, Data: input}, nil)
	if err != nil {
		return nil, classifyCallError(err)
	}

	values, err := fibonacciABI.Unpack("verifyFibonacciProof", out)
	if err != nil {
		return nil, &DecodingError{What: "contract return data", Err: err}
	}
	outcome := &Outcome{
		N: values[0].(uint32),
		A: values[1].(uint32),
		B: values[2].(uint32),
	}

	// End-to-end sanity: the contract's answer must satisfy the same
	// relation the kernel committed to.
	a, b := kernel.FibPair(outcome.N)
	if outcome.A != a || outcome.B != b {
		return nil, fmt.Errorf("%w: got (n=%d, a=%d, b=%d), want a=%d b=%d",
			ErrUnexpectedResult, outcome.N, outcome.A, outcome.B, a, b)
	}

	v.logger.Info().
		Uint32("n", outcome.N).
		Uint32("a", outcome.A).
		Uint32("b", outcome.B).
		Msg("on-chain verification successful")
	return outcome, nil
}

// classifyCallError separates a cryptographic verdict (revert) from a
// transport failure; only the former says anything about the proof.
func classifyCallError(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return &VerificationRejectedError{Err: err}
	}
	if strings.Contains(strings.ToLower(err.Error()), "revert") {
		return &VerificationRejectedError{Err: err}
	}
	return &TransportError{Err: err}
}
