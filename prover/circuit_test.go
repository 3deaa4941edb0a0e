package prover

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"

	"github.com/zkpipe/fibonacci-prover/kernel"
)

// Small recurrence bounds keep the test engine fast; the production
// circuit uses kernel.MaxInput.
func TestFibonacciCircuitSolves(t *testing.T) {
	assert := test.NewAssert(t)

	circuit := newFibonacciCircuit(25)
	for _, n := range []uint32{0, 1, 2, 10, 25} {
		a, b := kernel.FibPair(n)
		witness := &fibonacciCircuit{N: n, A: a, B: b}
		assert.NoError(test.IsSolved(circuit, witness, ecc.BN254.ScalarField()))
	}
}

func TestFibonacciCircuitRejectsWrongPair(t *testing.T) {
	assert := test.NewAssert(t)

	circuit := newFibonacciCircuit(25)
	witness := &fibonacciCircuit{N: uint32(10), A: uint32(55), B: uint32(90)}
	assert.Error(test.IsSolved(circuit, witness, ecc.BN254.ScalarField()))
}

func TestFibonacciCircuitWrapsAt32Bits(t *testing.T) {
	assert := test.NewAssert(t)

	// fib(48) overflows uint32, so the in-circuit reduction must match
	// the kernel's wrapping arithmetic.
	circuit := newFibonacciCircuit(50)
	a, b := kernel.FibPair(48)
	witness := &fibonacciCircuit{N: uint32(48), A: a, B: b}
	assert.NoError(test.IsSolved(circuit, witness, ecc.BN254.ScalarField()))
}

func TestFibonacciCircuitRejectsOversizedInput(t *testing.T) {
	assert := test.NewAssert(t)

	circuit := newFibonacciCircuit(25)
	witness := &fibonacciCircuit{N: uint32(26), A: uint32(0), B: uint32(0)}
	assert.Error(test.IsSolved(circuit, witness, ecc.BN254.ScalarField()))
}
