package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "matchday",
		Short: "Terminal client for football-tournament operations",
		Long: `matchday is the operations client for the tournament platform.

It manages the operator session (sign-in, verification, expiry) and exposes
read-only views over tournaments and fixtures. Credentials persist between
runs; an expired credential is cleaned up on the next start.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		registerCmd(),
		verifyCmd(),
		resendCodeCmd(),
		resetPasswordCmd(),
		tournamentsCmd(),
		watchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("matchday %s (%s)\n", version, commit)
		},
	}
}
