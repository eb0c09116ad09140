package main

import (
	"os"

	"github.com/spf13/cobra"

	"innkeep/internal/interfaces/cli/alerts"
	"innkeep/internal/interfaces/cli/migrate"
	"innkeep/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "innkeep",
		Short: "Innkeep - hotel room allocation engine",
		Long:  `Innkeep assigns hotel rooms to confirmed bookings, tracks allocation conflicts, and raises alerts for bookings approaching check-in without a room.`,
	}

	rootCmd.AddCommand(
		worker.NewCommand(),
		alerts.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
