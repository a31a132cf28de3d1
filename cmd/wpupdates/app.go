package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/git-pkgs/wpupdates/client"
	"github.com/git-pkgs/wpupdates/internal/config"
	"github.com/git-pkgs/wpupdates/internal/core"
	"github.com/git-pkgs/wpupdates/internal/github"
	"github.com/git-pkgs/wpupdates/internal/nonce"
	"github.com/git-pkgs/wpupdates/internal/store"
	"github.com/git-pkgs/wpupdates/internal/version"
)

// app holds everything a command needs, built from the configuration.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	store    store.Store
	tokens   *nonce.Store
	fetcher  *github.Fetcher
	breaker  *client.Breaker
	checkers []*core.Checker
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	var logOut io.Writer = io.Discard
	if opts.verbose || cfg.Verbose {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "", log.LstdFlags)

	clientOpts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithMaxRetries(cfg.Retries),
	}
	var breaker *client.Breaker
	if cfg.BreakerThreshold > 0 {
		breaker = client.NewBreaker(cfg.BreakerThreshold)
		clientOpts = append(clientOpts, client.WithCircuitBreaker(breaker))
	}
	c := client.NewClient(clientOpts...).WithUserAgent(cfg.UserAgent)
	fetcher := github.New(cfg.APIURL, c)

	s, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   s,
		tokens:  nonce.New(nonce.WithTTL(cfg.TokenTTL)),
		fetcher: fetcher,
		breaker: breaker,
	}

	for _, p := range cfg.Packages {
		kindName, pkg, err := p.Descriptor()
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		kind, err := core.KindByName(kindName)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("package %s: %w", pkg.Slug, err)
		}
		a.checkers = append(a.checkers, core.NewChecker(kind, pkg, fetcher,
			core.WithCompare(version.ForScheme(cfg.VersionScheme)),
			core.WithTransients(s),
			core.WithTokens(a.tokens),
			core.WithAdminURL(cfg.AdminURL),
			core.WithLogger(logger),
		))
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// kinds returns the configured kinds in name order.
func (a *app) kinds() []core.Kind {
	seen := make(map[string]core.Kind)
	for _, c := range a.checkers {
		seen[c.Kind().Name] = c.Kind()
	}
	out := make([]core.Kind, 0, len(seen))
	for _, k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// checkAll runs one update check per kind the way the host does: a fresh
// cache primed with the installed versions, passed through every checker of
// the kind, stamped and stored under the kind's transient key.
func (a *app) checkAll(ctx context.Context) ([]core.UpdateRecord, error) {
	groups := core.ByKind(a.checkers)
	var records []core.UpdateRecord
	for _, kind := range a.kinds() {
		group := groups[kind.Name]
		cache := core.PrimeBaseline(core.UpdateCache{}, group)
		cache = core.CheckAll(ctx, cache, group)
		cache = cache.WithLastChecked(time.Now().UTC())

		if err := a.store.Set(ctx, kind.TransientKey, cache); err != nil {
			return nil, err
		}
		records = append(records, sortedRecords(cache)...)
	}
	return records, nil
}

func sortedRecords(cache core.UpdateCache) []core.UpdateRecord {
	responses := cache.Responses()
	out := make([]core.UpdateRecord, 0, len(responses))
	for _, r := range responses {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
