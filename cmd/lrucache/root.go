package main

import "github.com/spf13/cobra"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lrucache",
		Short:         "In-memory LRU cache with per-entry lifespan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(demoCmd())

	return cmd
}
