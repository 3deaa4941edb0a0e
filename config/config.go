// Package config resolves the externally supplied configuration surface
// and validates it before any proving work begins.
package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/zkpipe/fibonacci-prover/prover"
)

// Environment variables consulted when flags do not override them.
const (
	EnvProverMode      = "PROVER_MODE"
	EnvRPCURL          = "RPC_URL"
	EnvContractAddress = "FIBONACCI_CONTRACT_ADDRESS"
	EnvProverEndpoint  = "PROVER_ENDPOINT"
)

const (
	DefaultMode           = "cpu"
	DefaultRPCEndpoint    = "https://rpc.sepolia.org"
	DefaultProverEndpoint = "http://127.0.0.1:8010"
)

// Config is the validated configuration for one invocation. System and
// Mode are closed variants; free-form strings never travel past this
// boundary.
type Config struct {
	System          prover.ProofSystem
	Mode            prover.ProverMode
	OutputDir       string
	SaveArtifacts   bool
	ContractAddress string
	RPCEndpoint     string
	ProverEndpoint  string
}

// LoadEnv reads the optional .env file into the process environment.
// A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// Resolve validates the flag-level system/mode strings against the
// environment. An empty mode falls back to PROVER_MODE, then to the
// default.
func Resolve(system, mode, outputDir string, saveArtifacts bool) (*Config, error) {
	ps, err := prover.ParseProofSystem(system)
	if err != nil {
		return nil, err
	}

	if mode == "" {
		mode = getenv(EnvProverMode, DefaultMode)
	}
	pm, err := prover.ParseProverMode(mode)
	if err != nil {
		return nil, err
	}

	return &Config{
		System:          ps,
		Mode:            pm,
		OutputDir:       outputDir,
		SaveArtifacts:   saveArtifacts,
		ContractAddress: os.Getenv(EnvContractAddress),
		RPCEndpoint:     getenv(EnvRPCURL, DefaultRPCEndpoint),
		ProverEndpoint:  getenv(EnvProverEndpoint, DefaultProverEndpoint),
	}, nil
}

// ResolveVerify builds the configuration for the on-chain verification
// command. Flag values win over the environment.
func ResolveVerify(contract, rpcURL, outputDir string) (*Config, error) {
	cfg := &Config{
		OutputDir:       outputDir,
		ContractAddress: contract,
		RPCEndpoint:     rpcURL,
	}
	if cfg.ContractAddress == "" {
		cfg.ContractAddress = os.Getenv(EnvContractAddress)
	}
	if cfg.RPCEndpoint == "" {
		cfg.RPCEndpoint = getenv(EnvRPCURL, DefaultRPCEndpoint)
	}
	if err := cfg.ValidateContract(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateContract checks the verification target before dialing
// anything.
func (c *Config) ValidateContract() error {
	if c.ContractAddress == "" {
		return fmt.Errorf("no contract address configured: set %s or pass --contract", EnvContractAddress)
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("malformed contract address %q", c.ContractAddress)
	}
	if c.RPCEndpoint == "" {
		return fmt.Errorf("no rpc endpoint configured: set %s or pass --rpc-url", EnvRPCURL)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
