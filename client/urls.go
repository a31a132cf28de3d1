package client

import (
	"net/url"
	"strings"
)

// DefaultAPIURL is the GitHub REST API root used for github.com repositories.
const DefaultAPIURL = "https://api.github.com"

// URLBuilder constructs URLs for a repository.
type URLBuilder interface {
	// LatestRelease returns the "latest release" endpoint for a repository.
	LatestRelease(repositoryURL string) string
	// Repository returns the human-facing repository URL.
	Repository(repositoryURL string) string
}

// GitHubURLs maps repository URLs onto the GitHub REST API. A
// https://github.com/owner/repo URL is rewritten to {APIBase}/repos/owner/repo;
// anything else is assumed to already be an API base and is used verbatim.
type GitHubURLs struct {
	APIBase string
}

// NewGitHubURLs returns a builder for the given API base, or the public API
// if apiBase is empty.
func NewGitHubURLs(apiBase string) *GitHubURLs {
	if apiBase == "" {
		apiBase = DefaultAPIURL
	}
	return &GitHubURLs{APIBase: strings.TrimSuffix(apiBase, "/")}
}

func (g *GitHubURLs) LatestRelease(repositoryURL string) string {
	return g.apiRepo(repositoryURL) + "/releases/latest"
}

func (g *GitHubURLs) Repository(repositoryURL string) string {
	return strings.TrimSuffix(repositoryURL, "/")
}

func (g *GitHubURLs) apiRepo(repositoryURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(repositoryURL, "/"), ".git")
	owner, repo, ok := SplitGitHubRepo(trimmed)
	if !ok {
		return trimmed
	}
	return g.APIBase + "/repos/" + owner + "/" + repo
}

// SplitGitHubRepo extracts owner and repository name from a
// https://github.com/owner/repo URL.
func SplitGitHubRepo(repositoryURL string) (owner, repo string, ok bool) {
	u, err := url.Parse(repositoryURL)
	if err != nil || !strings.EqualFold(u.Host, "github.com") {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}

// BuildURLs returns a map of all non-empty URLs for a repository.
// Keys are "repository" and "latest_release".
func BuildURLs(urls URLBuilder, repositoryURL string) map[string]string {
	result := make(map[string]string)
	if v := urls.Repository(repositoryURL); v != "" {
		result["repository"] = v
	}
	if v := urls.LatestRelease(repositoryURL); v != "" {
		result["latest_release"] = v
	}
	return result
}
