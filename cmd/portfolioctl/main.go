package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	flagURL   string
	flagToken string
	flagJSON  bool
	flagDebug bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portfolioctl",
		Short: "CLI for the portfolio server",
		Long:  "A command-line interface for logging in to a portfolio server and editing its project collection.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flagURL, "server", "s", "", "Server URL (env: PORTFOLIO_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Admin session token (env: PORTFOLIO_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portfolioctl %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newProjectsCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
