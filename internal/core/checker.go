package core

import (
	"context"
	"html"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/git-pkgs/wpupdates/internal/version"
)

// ReleaseFetcher retrieves the latest release of a repository. Failures are
// reported as *FetchError.
type ReleaseFetcher interface {
	LatestRelease(ctx context.Context, repositoryURL string) (*ReleaseInfo, error)
}

// Transients is the part of the host's cache storage the checker needs:
// dropping a kind's cached check result.
type Transients interface {
	Delete(ctx context.Context, key string) error
}

// ForceCheckResult describes the outcome of a force-check request.
type ForceCheckResult struct {
	// Authorized is true when the gate passed and the cache entry was cleared.
	Authorized bool
	// Redirect is the admin URL to send the user to. When non-empty the host
	// must redirect and stop processing the request.
	Redirect string
}

// Checker runs the update check for one package of one kind.
type Checker struct {
	kind       Kind
	pkg        PackageDescriptor
	releases   ReleaseFetcher
	compare    CompareFunc
	transients Transients
	tokens     Tokens
	adminURL   string
	logger     *log.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithCompare sets the version ordering.
func WithCompare(fn CompareFunc) Option {
	return func(c *Checker) {
		c.compare = fn
	}
}

// WithTransients sets the host cache storage cleared by a force-check.
func WithTransients(t Transients) Option {
	return func(c *Checker) {
		c.transients = t
	}
}

// WithTokens sets the anti-replay token source.
func WithTokens(t Tokens) Option {
	return func(c *Checker) {
		c.tokens = t
	}
}

// WithAdminURL sets the base URL of the admin area (default "/wp-admin/").
func WithAdminURL(base string) Option {
	return func(c *Checker) {
		c.adminURL = base
	}
}

// WithLogger sets the logger for swallowed failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// NewChecker creates a checker for pkg. releases must not be nil.
func NewChecker(kind Kind, pkg PackageDescriptor, releases ReleaseFetcher, opts ...Option) *Checker {
	c := &Checker{
		kind:     kind,
		pkg:      pkg,
		releases: releases,
		compare:  version.Compare,
		adminURL: "/wp-admin/",
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !strings.HasSuffix(c.adminURL, "/") {
		c.adminURL += "/"
	}
	return c
}

// Kind returns the checker's asset kind.
func (c *Checker) Kind() Kind {
	return c.kind
}

// Package returns the managed package.
func (c *Checker) Package() PackageDescriptor {
	return c.pkg
}

// CheckForUpdates answers the host's update-check event. It returns cache
// with an update record for the package when a newer release with a
// downloadable asset exists, and cache unchanged otherwise. A cache without
// a baseline is returned without touching the network. Fetch failures are
// logged and leave the cache as it was.
func (c *Checker) CheckForUpdates(ctx context.Context, cache UpdateCache) UpdateCache {
	if !cache.HasBaseline() {
		return cache
	}

	release, err := c.releases.LatestRelease(ctx, c.pkg.RepositoryURL)
	if err != nil {
		c.logger.Printf("[%s] %s: no update this cycle: %v", c.kind.Name, c.pkg.Slug, err)
		return cache
	}

	record := DecideUpdate(release, c.pkg, c.compare)
	if record == nil {
		return cache
	}
	record.Kind = c.kind.Name
	c.logger.Printf("[%s] %s: update available %s -> %s", c.kind.Name, c.pkg.Slug, c.pkg.CurrentVersion, record.NewVersion)
	return ApplyUpdate(cache, c.pkg, record)
}

// ForceCheck answers the host's admin-page-load event. When req passes the
// force-check gate the kind's cached check result is deleted so the next poll
// fetches again. An unauthorized request changes nothing.
func (c *Checker) ForceCheck(ctx context.Context, req Request) ForceCheckResult {
	if !AuthorizeForceCheck(c.kind, req, c.tokens) {
		return ForceCheckResult{}
	}

	if c.transients != nil {
		if err := c.transients.Delete(ctx, c.kind.TransientKey); err != nil {
			c.logger.Printf("[%s] clearing %s: %v", c.kind.Name, c.kind.TransientKey, err)
		}
	}

	result := ForceCheckResult{Authorized: true}
	if c.kind.RedirectTo != "" {
		result.Redirect = c.adminURL + c.kind.RedirectTo
	}
	return result
}

// ForceCheckURL returns the admin URL that triggers a force-check for this
// kind, including a fresh token when the kind requires one.
func (c *Checker) ForceCheckURL() (string, error) {
	q := url.Values{}
	q.Set(TriggerParam, TriggerValue)
	if c.kind.RequireToken && c.tokens != nil {
		token, err := c.tokens.Issue(TokenAction)
		if err != nil {
			return "", err
		}
		q.Set(TokenParam, token)
	}
	return c.adminURL + c.kind.Screen + "?" + q.Encode(), nil
}

// ActionLinks answers the host's render-action-links event. For kinds with
// action links it returns a new slice with a "Check for updates" anchor
// appended; otherwise links is returned as is.
func (c *Checker) ActionLinks(links []string) []string {
	if !c.kind.ActionLinks {
		return links
	}
	href, err := c.ForceCheckURL()
	if err != nil {
		c.logger.Printf("[%s] %s: issuing token: %v", c.kind.Name, c.pkg.Slug, err)
		return links
	}

	out := make([]string, 0, len(links)+1)
	out = append(out, links...)
	return append(out, `<a href="`+html.EscapeString(href)+`">Check for updates</a>`)
}
