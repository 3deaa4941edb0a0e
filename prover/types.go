// Package prover defines the provable-execution backend port and its
// gnark, mock and network implementations.
package prover

import "fmt"

// ProofSystem selects the succinct-proof construction. It is validated
// once at the configuration boundary; components downstream never see an
// unrecognized value.
type ProofSystem uint8

const (
	Groth16 ProofSystem = iota
	Plonk
)

func (s ProofSystem) String() string {
	switch s {
	case Groth16:
		return "groth16"
	case Plonk:
		return "plonk"
	default:
		return fmt.Sprintf("proofsystem(%d)", uint8(s))
	}
}

func ParseProofSystem(s string) (ProofSystem, error) {
	switch s {
	case "groth16":
		return Groth16, nil
	case "plonk":
		return Plonk, nil
	default:
		return 0, fmt.Errorf("unknown proof system %q: must be either 'groth16' or 'plonk'", s)
	}
}

// ProverMode selects where proofs are generated. It changes cost and
// trust assumptions only, never the data contract of a Proof.
type ProverMode uint8

const (
	// ModeMock produces fast insecure stand-in proofs for testing.
	ModeMock ProverMode = iota
	// ModeCPU proves locally with gnark.
	ModeCPU
	// ModeNetwork delegates proving to a remote prover service.
	ModeNetwork
)

func (m ProverMode) String() string {
	switch m {
	case ModeMock:
		return "mock"
	case ModeCPU:
		return "cpu"
	case ModeNetwork:
		return "network"
	default:
		return fmt.Sprintf("provermode(%d)", uint8(m))
	}
}

func ParseProverMode(s string) (ProverMode, error) {
	switch s {
	case "mock":
		return ModeMock, nil
	case "cpu":
		return ModeCPU, nil
	case "network":
		return ModeNetwork, nil
	default:
		return 0, fmt.Errorf("unknown prover mode %q: must be 'mock', 'cpu' or 'network'", s)
	}
}
