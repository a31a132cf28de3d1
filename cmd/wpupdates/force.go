package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/wpupdates/internal/core"
)

func newForceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "force <kind>",
		Short:     "Clear a kind's cached check result",
		Long:      "Run the force-check for a kind as an operator holding its update capability, so the next check fetches again",
		Args:      cobra.ExactArgs(1),
		ValidArgs: core.SupportedKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.KindByName(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			checker := core.NewChecker(kind, core.PackageDescriptor{}, nil,
				core.WithTransients(a.store),
				core.WithTokens(a.tokens),
				core.WithAdminURL(a.cfg.AdminURL),
				core.WithLogger(a.logger),
			)
			req, err := operatorRequest(checker)
			if err != nil {
				return err
			}

			result := checker.ForceCheck(ctx, req)
			if !result.Authorized {
				return fmt.Errorf("force-check for %s was not authorized", kind.Name)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "cleared %s\n", kind.TransientKey)
			if result.Redirect != "" {
				_, _ = fmt.Fprintf(out, "redirect %s\n", result.Redirect)
			}
			return nil
		},
	}
}

// operatorRequest builds the request an admin would send by following the
// kind's force-check link.
func operatorRequest(c *core.Checker) (core.Request, error) {
	href, err := c.ForceCheckURL()
	if err != nil {
		return core.Request{}, err
	}
	u, err := url.Parse(href)
	if err != nil {
		return core.Request{}, err
	}
	kind := c.Kind()
	return core.Request{
		Screen: kind.Screen,
		Query:  u.Query(),
		User:   core.Capabilities{kind.Capability: true},
	}, nil
}
