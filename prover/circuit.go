package prover

import (
	"github.com/consensys/gnark/frontend"
)

// fibonacciCircuit binds the public triple (n, a, b) to the wrapping
// Fibonacci recurrence: a = fib(n-1), b = fib(n) modulo 2^32, with the
// (0, 1) convention for n = 0. maxN bounds the unrolled recurrence and is
// circuit configuration, not a witness value.
type fibonacciCircuit struct {
	N frontend.Variable `gnark:",public"`
	A frontend.Variable `gnark:",public"`
	B frontend.Variable `gnark:",public"`

	maxN int
}

func newFibonacciCircuit(maxN int) *fibonacciCircuit {
	return &fibonacciCircuit{maxN: maxN}
}

func (c *fibonacciCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(c.N, c.maxN)

	a := frontend.Variable(0)
	b := frontend.Variable(1)

	// n == 0 default; every later step overwrites the selection when the
	// step index matches N.
	resA := a
	resB := b

	for i := 1; i <= c.maxN; i++ {
		a, b = b, wrapAdd32(api, a, b)
		hit := api.IsZero(api.Sub(c.N, i))
		resA = api.Select(hit, a, resA)
		resB = api.Select(hit, b, resB)
	}

	api.AssertIsEqual(c.A, resA)
	api.AssertIsEqual(c.B, resB)
	return nil
}

// wrapAdd32 adds two 32-bit values and drops the carry, matching uint32
// wraparound in the kernel.
func wrapAdd32(api frontend.API, x, y frontend.Variable) frontend.Variable {
	sum := api.Add(x, y)
	bits := api.ToBinary(sum, 33)
	return api.FromBinary(bits[:32]...)
}
