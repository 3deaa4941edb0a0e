package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/zkpipe/fibonacci-prover/config"
	"github.com/zkpipe/fibonacci-prover/onchain"
)

var (
	fVerifyN  uint32
	fContract string
	fRPCURL   string
)

var verifyCmd = &cobra.Command{
	Use:   "verify-onchain",
	Short: "verifies a packaged proof against the deployed contract over rpc",
	RunE:  runVerifyOnchain,
}

func runVerifyOnchain(cmd *cobra.Command, args []string) error {
	cfg, err := config.ResolveVerify(fContract, fRPCURL, fOutputDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ethclient.DialContext(ctx, cfg.RPCEndpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	logger.Info().
		Str("contract", cfg.ContractAddress).
		Str("rpc", cfg.RPCEndpoint).
		Uint32("n", fVerifyN).
		Msg("starting on-chain verification")

	verifier := onchain.NewVerifier(client, common.HexToAddress(cfg.ContractAddress), logger)
	outcome, err := verifier.VerifyFromBundle(ctx, cfg.OutputDir, fVerifyN)
	if err != nil {
		switch {
		case errors.Is(err, onchain.ErrArtifactNotFound):
			logger.Error().Err(err).Msg("no proof artifacts found; run 'fibonacci-prover prove' first")
		default:
			var rejected *onchain.VerificationRejectedError
			var transport *onchain.TransportError
			if errors.As(err, &rejected) {
				logger.Error().Err(err).Msg("the contract rejected the proof; check the proof data and program vkey")
			} else if errors.As(err, &transport) {
				logger.Error().Err(err).Msg("rpc transport failure; the proof was not judged, retry later")
			}
		}
		return err
	}

	logger.Info().
		Uint32("n", outcome.N).
		Uint32("a", outcome.A).
		Uint32("b", outcome.B).
		Msg("proof verified on-chain")
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().Uint32Var(&fVerifyN, "n", 10, "input number of the proving run to verify")
	verifyCmd.Flags().StringVar(&fContract, "contract", "", "verifier contract address; defaults to FIBONACCI_CONTRACT_ADDRESS")
	verifyCmd.Flags().StringVar(&fRPCURL, "rpc-url", "", "rpc endpoint; defaults to RPC_URL")
}
