package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// options are the flags shared by every command.
type options struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "coopledger-cli",
		Short:         "CoopLedger CLI tool",
		Long:          `A command line interface for operating the CoopLedger API: capital generation, deposit verification and wallet reconciliation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("COOPLEDGER_API_URL", "http://localhost:8080"), "Base URL of the CoopLedger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("COOPLEDGER_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(
		capitalCmd(opts),
		depositCmd(opts),
		walletCmd(opts),
		tokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
