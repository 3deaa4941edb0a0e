// Package kernel implements the provable Fibonacci program: input
// validation, the wrapping pair computation and the canonical commitment
// of the public values.
package kernel

import (
	"errors"
	"fmt"
)

// MaxInput is a hard resource bound. Proving cost grows with n, so
// anything above this aborts execution instead of returning an error the
// caller could ignore.
const MaxInput = 10000

var ErrInputTooLarge = errors.New("input too large: maximum allowed is 10000")

// Program identifies a provable program to the backend.
type Program struct {
	Name     string
	MaxInput uint32
}

// Fibonacci is the single program this repository proves.
var Fibonacci = Program{Name: "fibonacci", MaxInput: MaxInput}

// Result is the decoded form of the committed public values.
type Result struct {
	N uint32
	A uint32
	B uint32
}

// Output is everything one kernel run produces. The log is purely
// observational and not part of any commitment.
type Output struct {
	Result       Result
	PublicValues []byte
	Log          []string
	Steps        uint64
}

// FibPair returns (fib(n-1), fib(n)) with fib(0)=0, fib(1)=1 and uint32
// wraparound, so (0,1) for n=0 and (1,1) for n=1.
func FibPair(n uint32) (uint32, uint32) {
	a, b := uint32(0), uint32(1)
	for i := uint32(0); i < n; i++ {
		a, b = b, a+b
	}
	return a, b
}

// Run executes the kernel for a single input. Each run is a pure function
// of n; no state survives between invocations.
func Run(n uint32) (*Output, error) {
	if n > MaxInput {
		return nil, ErrInputTooLarge
	}

	out := &Output{Steps: uint64(n)}
	out.Log = append(out.Log, fmt.Sprintf("computing fibonacci for n = %d", n))

	a, b := FibPair(n)

	// Redundant with the formula, but guards the base-case convention
	// against regressions.
	if n == 0 && (a != 0 || b != 1) {
		return nil, fmt.Errorf("kernel self-check failed for n=0: got (%d, %d)", a, b)
	}
	if n == 1 && (a != 1 || b != 1) {
		return nil, fmt.Errorf("kernel self-check failed for n=1: got (%d, %d)", a, b)
	}

	out.Result = Result{N: n, A: a, B: b}
	out.Log = append(out.Log, fmt.Sprintf("fibonacci(%d) = %d, fibonacci(%d) = %d", saturatingSub(n, 1), a, n, b))

	pv, err := EncodePublicValues(out.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public values: %w", err)
	}
	out.PublicValues = pv
	out.Log = append(out.Log, fmt.Sprintf("committed %d bytes of public values", len(pv)))

	return out, nil
}

func saturatingSub(x, y uint32) uint32 {
	if y > x {
		return 0
	}
	return x - y
}
