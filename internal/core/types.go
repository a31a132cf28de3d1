// Package core provides the data model, the asset-kind registry and the
// update-check procedure shared by plugins and themes.
package core

import (
	"encoding/json"
	"fmt"
)

// PackageDescriptor identifies one managed plugin or theme.
type PackageDescriptor struct {
	Slug           string // plugin basename ("my-plugin/my-plugin.php") or theme folder
	CurrentVersion string
	RepositoryURL  string
}

// Validate reports missing fields.
func (p PackageDescriptor) Validate() error {
	switch {
	case p.Slug == "":
		return fmt.Errorf("package descriptor: slug is required")
	case p.CurrentVersion == "":
		return fmt.Errorf("package descriptor %s: current version is required", p.Slug)
	case p.RepositoryURL == "":
		return fmt.Errorf("package descriptor %s: repository url is required", p.Slug)
	}
	return nil
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name,omitempty"`
	DownloadURL string `json:"browser_download_url"`
}

// ReleaseInfo is the subset of a "latest release" document the checker uses.
type ReleaseInfo struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url,omitempty"`
	Assets  []Asset `json:"assets"`
}

// PackageURL returns the first asset's download URL, or "" if there is none.
func (r *ReleaseInfo) PackageURL() string {
	if r == nil || len(r.Assets) == 0 {
		return ""
	}
	return r.Assets[0].DownloadURL
}

// UpdateRecord is the descriptor published to the host for an available
// update. Kind selects the name of the slug field when serialised: themes use
// "theme", everything else "slug".
type UpdateRecord struct {
	Kind       string
	Slug       string
	NewVersion string
	Package    string
	URL        string
}

type updateRecordJSON struct {
	Slug       string `json:"slug,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Kind       string `json:"kind,omitempty"`
	NewVersion string `json:"new_version"`
	Package    string `json:"package"`
	URL        string `json:"url"`
}

func (r UpdateRecord) MarshalJSON() ([]byte, error) {
	out := updateRecordJSON{
		Kind:       r.Kind,
		NewVersion: r.NewVersion,
		Package:    r.Package,
		URL:        r.URL,
	}
	if kind, ok := LookupKind(r.Kind); ok && kind.SlugField == "theme" {
		out.Theme = r.Slug
	} else {
		out.Slug = r.Slug
	}
	return json.Marshal(out)
}

func (r *UpdateRecord) UnmarshalJSON(data []byte) error {
	var in updateRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = UpdateRecord{
		Kind:       in.Kind,
		Slug:       in.Slug,
		NewVersion: in.NewVersion,
		Package:    in.Package,
		URL:        in.URL,
	}
	if r.Slug == "" {
		r.Slug = in.Theme
	}
	return nil
}

// Principal is the actor behind an administrative request.
type Principal interface {
	Can(capability string) bool
}

// Capabilities is a Principal backed by a fixed capability set.
type Capabilities map[string]bool

func (c Capabilities) Can(capability string) bool {
	return c[capability]
}

// Anonymous holds no capabilities.
var Anonymous Principal = Capabilities(nil)
