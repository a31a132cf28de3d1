package core

import (
	"fmt"
	"strings"

	packageurl "github.com/git-pkgs/packageurl-go"

	"github.com/git-pkgs/wpupdates/client"
)

// PURLType is the package-url type for GitHub-hosted packages.
const PURLType = "github"

// Qualifiers understood in a package URL.
const (
	QualifierKind          = "kind"
	QualifierSlug          = "slug"
	QualifierRepositoryURL = "repository_url"
)

// PURL wraps packageurl.PackageURL with descriptor helpers.
type PURL struct {
	packageurl.PackageURL
}

// FullName returns "owner/repo".
func (p PURL) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "/" + p.Name
}

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:github/vendor/plugin) and version PURLs
// (pkg:github/vendor/plugin@1.2.0).
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	return &PURL{p}, nil
}

// DescriptorFromPURL builds a package descriptor from a version PURL such as
//
//	pkg:github/vendor/my-plugin@1.2.0?kind=plugin&slug=my-plugin/my-plugin.php
//
// It returns the kind name ("plugin" unless the kind qualifier says
// otherwise) and the descriptor. The slug defaults to the repository name
// and the repository URL to https://github.com/owner/repo, unless the
// repository_url qualifier overrides it.
func DescriptorFromPURL(purl string) (string, PackageDescriptor, error) {
	p, err := ParsePURL(purl)
	if err != nil {
		return "", PackageDescriptor{}, err
	}
	if p.Type != PURLType {
		return "", PackageDescriptor{}, fmt.Errorf("unsupported purl type %q, want %q", p.Type, PURLType)
	}
	if p.Version == "" {
		return "", PackageDescriptor{}, fmt.Errorf("purl %s has no version", purl)
	}

	q := p.Qualifiers.Map()
	kind := q[QualifierKind]
	if kind == "" {
		kind = "plugin"
	}

	pkg := PackageDescriptor{
		Slug:           q[QualifierSlug],
		CurrentVersion: p.Version,
		RepositoryURL:  q[QualifierRepositoryURL],
	}
	if pkg.Slug == "" {
		pkg.Slug = p.Name
	}
	if pkg.RepositoryURL == "" {
		if p.Namespace == "" {
			return "", PackageDescriptor{}, fmt.Errorf("purl %s has no owner", purl)
		}
		pkg.RepositoryURL = "https://github.com/" + p.FullName()
	}
	return kind, pkg, nil
}

// PURL returns the package URL for pkg of the given kind. Non-GitHub
// repositories are carried in the repository_url qualifier.
func (p PackageDescriptor) PURL(kind string) string {
	qualifiers := map[string]string{}
	if kind != "" && kind != "plugin" {
		qualifiers[QualifierKind] = kind
	}

	owner, name, ok := client.SplitGitHubRepo(strings.TrimSuffix(p.RepositoryURL, "/"))
	if !ok {
		owner, name = "", p.Slug
		qualifiers[QualifierRepositoryURL] = p.RepositoryURL
	}
	if p.Slug != name {
		qualifiers[QualifierSlug] = p.Slug
	}

	u := packageurl.NewPackageURL(PURLType, owner, name, p.CurrentVersion, packageurl.QualifiersFromMap(qualifiers), "")
	return u.ToString()
}
