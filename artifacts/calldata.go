package artifacts

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkpipe/fibonacci-prover/prover"
)

// CallData is the machine-parseable description of the exact contract
// call to make. Its JSON schema is stable: remote verification parses it
// back, so field names must not drift with internal refactors.
type CallData struct {
	Function          string            `json:"function"`
	Parameters        CallParameters    `json:"parameters"`
	ExpectedOutput    ExpectedOutput    `json:"expected_output"`
	ContractInterface ContractInterface `json:"contract_interface"`
}

type CallParameters struct {
	PublicValues string `json:"publicValues"`
	ProofBytes   string `json:"proofBytes"`
}

type ExpectedOutput struct {
	N                       uint32 `json:"n"`
	DecodedFromPublicValues string `json:"decoded_from_public_values"`
}

type ContractInterface struct {
	FunctionSignature string `json:"function_signature"`
	Returns           string `json:"returns"`
}

// NewCallData is a pure function of (proof, n); regenerating it for the
// same inputs yields byte-identical output.
func NewCallData(proof *prover.Proof, n uint32) CallData {
	return CallData{
		Function: "verifyFibonacciProof",
		Parameters: CallParameters{
			PublicValues: hexutil.Encode(proof.PublicValues),
			ProofBytes:   hexutil.Encode(proof.Bytes),
		},
		ExpectedOutput: ExpectedOutput{
			N:                       n,
			DecodedFromPublicValues: "Use abi.decode(publicValues, (PublicValuesStruct))",
		},
		ContractInterface: ContractInterface{
			FunctionSignature: "verifyFibonacciProof(bytes,bytes)",
			Returns:           "(uint32,uint32,uint32)",
		},
	}
}

func (c CallData) Encode() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
