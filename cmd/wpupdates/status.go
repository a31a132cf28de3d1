package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

type kindStatus struct {
	Kind        string      `json:"kind" yaml:"kind"`
	Transient   string      `json:"transient" yaml:"transient"`
	Stored      bool        `json:"stored" yaml:"stored"`
	LastChecked string      `json:"last_checked,omitempty" yaml:"last_checked,omitempty"`
	Updates     []updateRow `json:"updates" yaml:"updates"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored update caches",
		Long:  "Print the update records currently stored for each configured kind without contacting GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			var statuses []kindStatus
			for _, kind := range a.kinds() {
				cache, ok, err := a.store.Get(ctx, kind.TransientKey)
				if err != nil {
					return err
				}
				st := kindStatus{Kind: kind.Name, Transient: kind.TransientKey, Stored: ok, Updates: rows(sortedRecords(cache))}
				if !cache.LastChecked().IsZero() {
					st.LastChecked = cache.LastChecked().Format(time.RFC3339)
				}
				statuses = append(statuses, st)
			}

			return render(cmd.OutOrStdout(), opts.output, statuses, func(w io.Writer) error {
				for _, st := range statuses {
					if !st.Stored {
						_, _ = fmt.Fprintf(w, "%s: not checked\n", st.Transient)
						continue
					}
					_, _ = fmt.Fprintf(w, "%s: checked %s, %d update(s)\n", st.Transient, st.LastChecked, len(st.Updates))
					for _, u := range st.Updates {
						_, _ = fmt.Fprintf(w, "  %s -> %s\n", u.Slug, u.NewVersion)
					}
				}
				return nil
			})
		},
	}
}

