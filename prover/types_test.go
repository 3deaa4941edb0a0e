package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProofSystem(t *testing.T) {
	s, err := ParseProofSystem("groth16")
	assert.NoError(t, err)
	assert.Equal(t, Groth16, s)

	s, err = ParseProofSystem("plonk")
	assert.NoError(t, err)
	assert.Equal(t, Plonk, s)

	for _, bad := range []string{"", "stark", "GROTH16", "plonk2"} {
		_, err := ParseProofSystem(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseProverMode(t *testing.T) {
	for in, want := range map[string]ProverMode{
		"mock":    ModeMock,
		"cpu":     ModeCPU,
		"network": ModeNetwork,
	} {
		m, err := ParseProverMode(in)
		assert.NoError(t, err)
		assert.Equal(t, want, m)
	}

	_, err := ParseProverMode("local")
	assert.Error(t, err)
}

func TestNewBackendRejectsNetworkWithoutEndpoint(t *testing.T) {
	_, err := NewBackend(ModeNetwork, testLogger(), "")
	assert.Error(t, err)
}
