// Package wpupdates checks GitHub releases for updates to self-hosted
// WordPress plugins and themes and publishes them into the host's update
// cache the way the plugin and theme update checks expect.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/wpupdates"
//		_ "github.com/git-pkgs/wpupdates/all"
//	)
//
//	checker, err := wpupdates.New("plugin", wpupdates.PackageDescriptor{
//		Slug:           "my-plugin/my-plugin.php",
//		CurrentVersion: "1.2.0",
//		RepositoryURL:  "https://github.com/vendor/my-plugin",
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cache = checker.CheckForUpdates(context.Background(), cache)
//
// To register every supported kind, import the all subpackage:
//
//	import (
//		"github.com/git-pkgs/wpupdates"
//		_ "github.com/git-pkgs/wpupdates/all"
//	)
package wpupdates

import (
	"github.com/git-pkgs/wpupdates/client"
	"github.com/git-pkgs/wpupdates/internal/core"
	"github.com/git-pkgs/wpupdates/internal/github"
	"github.com/git-pkgs/wpupdates/internal/version"
)

// Re-export types from internal/core
type (
	// Checker runs the update check for one package of one kind.
	Checker = core.Checker

	// Kind describes how an asset type hooks into the host.
	Kind = core.Kind

	// PackageDescriptor identifies one managed plugin or theme.
	PackageDescriptor = core.PackageDescriptor

	// ReleaseInfo is the latest release of a repository.
	ReleaseInfo = core.ReleaseInfo

	// Asset is a downloadable file attached to a release.
	Asset = core.Asset

	// UpdateRecord is the descriptor published for an available update.
	UpdateRecord = core.UpdateRecord

	// UpdateCache is the host's known-versions cache for one kind.
	UpdateCache = core.UpdateCache

	// Request is an administrative request evaluated by the force-check gate.
	Request = core.Request

	// Principal is the actor behind a request.
	Principal = core.Principal

	// Capabilities is a Principal with a fixed capability set.
	Capabilities = core.Capabilities

	// ReleaseFetcher retrieves the latest release of a repository.
	ReleaseFetcher = core.ReleaseFetcher

	// Tokens issues and verifies single-use anti-replay tokens.
	Tokens = core.Tokens

	// Transients clears cached check results.
	Transients = core.Transients

	// ForceCheckResult is the outcome of a force-check.
	ForceCheckResult = core.ForceCheckResult

	// FetchError reports why a release could not be fetched.
	FetchError = core.FetchError

	// Option configures a Checker.
	Option = core.Option

	// CompareFunc orders two version strings.
	CompareFunc = core.CompareFunc
)

// Re-export types from client
type (
	// Client is an HTTP client with optional retries and circuit breaking.
	Client = client.Client

	// ClientOption configures a Client.
	ClientOption = client.Option

	// HTTPError is a non-success response.
	HTTPError = client.HTTPError

	// RateLimitError is a rate-limited response.
	RateLimitError = client.RateLimitError
)

// Re-export constants
const (
	TriggerParam = core.TriggerParam
	TriggerValue = core.TriggerValue
	TokenParam   = core.TokenParam
	TokenAction  = core.TokenAction

	TransportFailure = core.TransportFailure
	ParseFailure     = core.ParseFailure
)

// Re-export errors
var (
	ErrUnknownKind = core.ErrUnknownKind
	ErrNotFound    = client.ErrNotFound
)

// Re-export checker options
var (
	WithCompare    = core.WithCompare
	WithTransients = core.WithTransients
	WithTokens     = core.WithTokens
	WithAdminURL   = core.WithAdminURL
	WithLogger     = core.WithLogger
)

// New creates a checker for pkg of the named kind. If releases is nil,
// releases are fetched from the public GitHub API with DefaultClient().
//
// Supported kinds: "plugin", "theme"
func New(kind string, pkg PackageDescriptor, releases ReleaseFetcher, opts ...Option) (*Checker, error) {
	k, err := core.KindByName(kind)
	if err != nil {
		return nil, err
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	if releases == nil {
		releases = github.New("", client.DefaultClient())
	}
	return core.NewChecker(k, pkg, releases, opts...), nil
}

// NewFromPURL creates a checker from a version PURL such as
// pkg:github/vendor/my-plugin@1.2.0?slug=my-plugin/my-plugin.php.
func NewFromPURL(purl string, releases ReleaseFetcher, opts ...Option) (*Checker, error) {
	kind, pkg, err := core.DescriptorFromPURL(purl)
	if err != nil {
		return nil, err
	}
	return New(kind, pkg, releases, opts...)
}

// NewGitHubFetcher returns a release fetcher for the GitHub API at baseURL
// (the public API if empty). If c is nil, DefaultClient() is used.
func NewGitHubFetcher(baseURL string, c *Client) ReleaseFetcher {
	return github.New(baseURL, c)
}

// NewUpdateCache returns a cache primed with the given installed versions.
func NewUpdateCache(checked map[string]string) UpdateCache {
	return core.NewUpdateCache(checked)
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - no retries
// - DNS-caching transport
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...ClientOption) *Client {
	return client.NewClient(opts...)
}

// WithTimeout sets the HTTP client timeout.
var WithTimeout = client.WithTimeout

// WithMaxRetries sets the maximum number of retries.
var WithMaxRetries = client.WithMaxRetries

// WithCircuitBreaker routes requests through a per-host circuit breaker.
var WithCircuitBreaker = client.WithCircuitBreaker

// NewBreaker creates a per-host circuit breaker that trips after threshold
// consecutive failures.
var NewBreaker = client.NewBreaker

// SupportedKinds returns all registered kind names.
// Note: kinds must be imported to be registered.
func SupportedKinds() []string {
	return core.SupportedKinds()
}

// CompareVersions orders two version strings with the default scheme.
func CompareVersions(a, b string) int {
	return version.Compare(a, b)
}

// VersionScheme returns the comparison for a scheme name ("default" or
// "semver").
func VersionScheme(name string) CompareFunc {
	return version.ForScheme(name)
}
