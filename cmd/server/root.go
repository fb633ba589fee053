package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portal",
		Short: "Macuspana citizen services portal",
		Long: `Portal serves the citizen registry, the service catalog and the
application (solicitud) workflow of the municipality.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}
