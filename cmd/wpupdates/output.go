package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/git-pkgs/wpupdates/internal/core"
)

// updateRow is one available update as printed by the commands.
type updateRow struct {
	Kind       string `json:"kind" yaml:"kind"`
	Slug       string `json:"slug" yaml:"slug"`
	NewVersion string `json:"new_version" yaml:"new_version"`
	Package    string `json:"package" yaml:"package"`
	URL        string `json:"url" yaml:"url"`
}

func rows(records []core.UpdateRecord) []updateRow {
	out := make([]updateRow, 0, len(records))
	for _, r := range records {
		out = append(out, updateRow{
			Kind:       r.Kind,
			Slug:       r.Slug,
			NewVersion: r.NewVersion,
			Package:    r.Package,
			URL:        r.URL,
		})
	}
	return out
}

func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return text(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderUpdates(w io.Writer, format string, records []core.UpdateRecord) error {
	return render(w, format, rows(records), func(w io.Writer) error {
		if len(records) == 0 {
			_, err := fmt.Fprintln(w, "All packages are up to date.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "KIND\tSLUG\tNEW VERSION\tPACKAGE")
		for _, r := range records {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Kind, r.Slug, r.NewVersion, r.Package)
		}
		return tw.Flush()
	})
}
