package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/wpupdates/client"
)

type linkRow struct {
	Kind  string            `json:"kind" yaml:"kind"`
	Slug  string            `json:"slug" yaml:"slug"`
	Links []string          `json:"links,omitempty" yaml:"links,omitempty"`
	URLs  map[string]string `json:"urls" yaml:"urls"`
}

func newLinksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "Print the action links of each package",
		Long:  "Print the action links each configured package adds to its admin row, with the repository and release endpoint it is checked against. Tokens in the links are only valid within this process.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			out := make([]linkRow, 0, len(a.checkers))
			for _, c := range a.checkers {
				pkg := c.Package()
				out = append(out, linkRow{
					Kind:  c.Kind().Name,
					Slug:  pkg.Slug,
					Links: c.ActionLinks(nil),
					URLs:  client.BuildURLs(a.fetcher.URLs(), pkg.RepositoryURL),
				})
			}

			return render(cmd.OutOrStdout(), opts.output, out, func(w io.Writer) error {
				for _, row := range out {
					_, _ = fmt.Fprintf(w, "%s\trelease\t%s\n", row.Slug, row.URLs["latest_release"])
					for _, l := range row.Links {
						_, _ = fmt.Fprintf(w, "%s\tlink\t%s\n", row.Slug, l)
					}
				}
				return nil
			})
		},
	}
}
