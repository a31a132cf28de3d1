package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check GitHub for new releases",
		Long:  "Check the latest GitHub release of every configured package, store the update caches and print the available updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			records, err := a.checkAll(ctx)
			if err != nil {
				return err
			}
			return renderUpdates(cmd.OutOrStdout(), opts.output, records)
		},
	}
}
