package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wpupdates",
		Short:         "Publish GitHub releases as WordPress plugin and theme updates",
		Long:          "Check GitHub releases of self-hosted plugins and themes, keep the update caches the admin reads, and serve the force-check endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (YAML, JSON or TOML)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json or yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log failed checks and cache changes to stderr")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newForceCmd(opts))
	cmd.AddCommand(newLinksCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}
