package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/zkpipe/fibonacci-prover/artifacts"
	"github.com/zkpipe/fibonacci-prover/config"
	"github.com/zkpipe/fibonacci-prover/kernel"
	"github.com/zkpipe/fibonacci-prover/pipeline"
	"github.com/zkpipe/fibonacci-prover/prover"
)

var (
	fN             uint32
	fSystem        string
	fMode          string
	fSaveArtifacts bool
)

// proveCmd runs the full pipeline: local dry run, proof generation,
// local verification and artifact packaging.
var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "runs a proof generation for the fibonacci kernel, verifies it and packages the artifacts",
	RunE:  runProve,
}

func runProve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(fSystem, fMode, fOutputDir, fSaveArtifacts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := prover.NewBackend(cfg.Mode, logger, cfg.ProverEndpoint)
	if err != nil {
		return err
	}

	logger.Info().
		Uint32("n", fN).
		Str("system", cfg.System.String()).
		Str("mode", cfg.Mode.String()).
		Msg("starting proof generation")

	orch := pipeline.New(backend, kernel.Fibonacci, logger)
	res, err := orch.Run(ctx, pipeline.Request{
		N:             fN,
		System:        cfg.System,
		Mode:          cfg.Mode,
		SaveArtifacts: cfg.SaveArtifacts,
		OutputDir:     cfg.OutputDir,
	})
	if err != nil {
		return err
	}

	if cfg.SaveArtifacts {
		bundle, err := artifacts.NewPackager(cfg.OutputDir, logger).Persist(res)
		if err != nil {
			return err
		}
		logger.Info().Str("dir", bundle.Dir).Msg("artifacts saved")
	}

	logger.Info().
		Uint32("n", res.Computation.N).
		Uint32("a", res.Computation.A).
		Uint32("b", res.Computation.B).
		Str("vkey", res.VKey.String()).
		Str("public_values", hexutil.Encode(res.Proof.PublicValues)).
		Int("proof_size", len(res.Proof.Bytes)).
		Msg("proof generation completed")
	return nil
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().Uint32Var(&fN, "n", 10, "input number for the fibonacci computation")
	proveCmd.Flags().StringVar(&fSystem, "system", "groth16", "proof system for proving (groth16 or plonk)")
	proveCmd.Flags().StringVar(&fMode, "mode", "", "prover mode (mock, cpu or network); defaults to PROVER_MODE")
	proveCmd.Flags().BoolVar(&fSaveArtifacts, "save-artifacts", true, "whether to save proof artifacts")
}
