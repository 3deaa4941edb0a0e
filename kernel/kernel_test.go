package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFibPair(t *testing.T) {
	cases := []struct {
		n    uint32
		a, b uint32
	}{
		{0, 0, 1},
		{1, 1, 1},
		{2, 1, 2},
		{5, 5, 8},
		{10, 55, 89},
		{20, 6765, 10946},
	}
	for _, tc := range cases {
		a, b := FibPair(tc.n)
		assert.Equal(t, tc.a, a, "a for n=%d", tc.n)
		assert.Equal(t, tc.b, b, "b for n=%d", tc.n)
	}
}

func TestFibPairWraps(t *testing.T) {
	// The second component of the n=47 pair overflows uint32; the pair
	// must satisfy the wrapping recurrence rather than fail.
	a, b := FibPair(47)
	assert.Equal(t, uint32(2971215073), a)
	assert.Equal(t, uint32(512559680), b)

	// Wrapped recurrence still holds one step further.
	a2, b2 := FibPair(48)
	assert.Equal(t, b, a2)
	assert.Equal(t, a+b, b2)
}

func TestRunCommitsDecodableValues(t *testing.T) {
	for _, n := range []uint32{0, 1, 2, 10, 100, MaxInput} {
		out, err := Run(n)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, out.PublicValues, PublicValuesLen)

		decoded, err := DecodePublicValues(out.PublicValues)
		require.NoError(t, err)
		assert.Equal(t, out.Result, decoded, "round trip for n=%d", n)
		assert.NotEmpty(t, out.Log)
	}
}

func TestRunRejectsOversizedInput(t *testing.T) {
	out, err := Run(MaxInput + 1)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestRunBaseCases(t *testing.T) {
	out, err := Run(0)
	require.NoError(t, err)
	assert.Equal(t, Result{N: 0, A: 0, B: 1}, out.Result)

	out, err = Run(1)
	require.NoError(t, err)
	assert.Equal(t, Result{N: 1, A: 1, B: 1}, out.Result)
}

func TestDecodePublicValuesRejectsTruncated(t *testing.T) {
	out, err := Run(10)
	require.NoError(t, err)

	_, err = DecodePublicValues(out.PublicValues[:PublicValuesLen-1])
	assert.Error(t, err)

	_, err = DecodePublicValues(nil)
	assert.Error(t, err)
}
