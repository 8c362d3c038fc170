package main

import (
	"os"

	"github.com/spf13/cobra"

	"portaria/internal/interfaces/cli/migrate"
	"portaria/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portaria",
		Short: "Portaria - guest credential lifecycle manager",
		Long:  `Portaria manages condominium guest credentials: issuance, checkpoint admission, revocation, and expiration cleanup.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
