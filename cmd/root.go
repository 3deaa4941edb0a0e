package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zkpipe/fibonacci-prover/config"
)

var (
	fOutputDir string

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fibonacci-prover",
	Short: "generates zk proofs of the fibonacci kernel and drives their on-chain verification",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.LoadEnv)
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	rootCmd.PersistentFlags().StringVar(&fOutputDir, "output-dir", "artifacts", "directory for proof artifacts")
}
