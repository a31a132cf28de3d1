// Package github fetches the latest release of a repository from the GitHub
// REST API.
package github

import (
	"context"
	"errors"

	"github.com/git-pkgs/wpupdates/client"
	"github.com/git-pkgs/wpupdates/internal/core"
)

// DefaultURL is the public GitHub API.
const DefaultURL = client.DefaultAPIURL

// Fetcher implements core.ReleaseFetcher.
type Fetcher struct {
	client *client.Client
	urls   *client.GitHubURLs
}

// New returns a fetcher for the API at baseURL (DefaultURL if empty). A nil
// c uses client.DefaultClient().
func New(baseURL string, c *client.Client) *Fetcher {
	if c == nil {
		c = client.DefaultClient()
	}
	return &Fetcher{
		client: c,
		urls:   client.NewGitHubURLs(baseURL),
	}
}

// URLs returns the URL builder used to locate release endpoints.
func (f *Fetcher) URLs() client.URLBuilder {
	return f.urls
}

type releaseResponse struct {
	TagName string          `json:"tag_name"`
	HTMLURL string          `json:"html_url"`
	Assets  []assetResponse `json:"assets"`
}

type assetResponse struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// LatestRelease fetches and decodes the latest release of repositoryURL.
// Network errors and non-2xx responses are returned as a *core.FetchError of
// kind core.TransportFailure; bodies that are not a release document as
// core.ParseFailure.
func (f *Fetcher) LatestRelease(ctx context.Context, repositoryURL string) (*core.ReleaseInfo, error) {
	url := f.urls.LatestRelease(repositoryURL)

	var resp releaseResponse
	if err := f.client.GetJSON(ctx, url, &resp); err != nil {
		kind := core.TransportFailure
		if errors.Is(err, client.ErrInvalidBody) {
			kind = core.ParseFailure
		}
		return nil, &core.FetchError{Kind: kind, URL: url, Err: err}
	}

	release := &core.ReleaseInfo{
		TagName: resp.TagName,
		HTMLURL: resp.HTMLURL,
	}
	for _, a := range resp.Assets {
		release.Assets = append(release.Assets, core.Asset{
			Name:        a.Name,
			DownloadURL: a.BrowserDownloadURL,
		})
	}
	return release, nil
}
