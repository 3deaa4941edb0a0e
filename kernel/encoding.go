package kernel

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PublicValuesLen is the length of the ABI encoding of
// (uint32 n, uint32 a, uint32 b): three 32-byte big-endian words.
const PublicValuesLen = 96

var publicValuesArgs = abi.Arguments{
	{Name: "n", Type: mustNewType("uint32")},
	{Name: "a", Type: mustNewType("uint32")},
	{Name: "b", Type: mustNewType("uint32")},
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// EncodePublicValues produces the canonical ABI encoding the kernel
// commits and the on-chain verifier decodes. The encoding must be
// byte-identical on both sides.
func EncodePublicValues(r Result) ([]byte, error) {
	return publicValuesArgs.Pack(r.N, r.A, r.B)
}

// DecodePublicValues is the inverse of EncodePublicValues.
func DecodePublicValues(data []byte) (Result, error) {
	if len(data) != PublicValuesLen {
		return Result{}, fmt.Errorf("public values must be %d bytes, got %d", PublicValuesLen, len(data))
	}
	values, err := publicValuesArgs.Unpack(data)
	if err != nil {
		return Result{}, fmt.Errorf("failed to unpack public values: %w", err)
	}
	return Result{
		N: values[0].(uint32),
		A: values[1].(uint32),
		B: values[2].(uint32),
	}, nil
}
