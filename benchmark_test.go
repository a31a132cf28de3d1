package wpupdates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-pkgs/wpupdates"
	_ "github.com/git-pkgs/wpupdates/all"
)

type staticFetcher struct {
	release *wpupdates.ReleaseInfo
}

func (f staticFetcher) LatestRelease(ctx context.Context, repositoryURL string) (*wpupdates.ReleaseInfo, error) {
	return f.release, nil
}

func BenchmarkNew(b *testing.B) {
	kinds := []string{"plugin", "theme"}
	fetcher := staticFetcher{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wpupdates.New(kinds[i%len(kinds)], pkg, fetcher)
	}
}

func BenchmarkCompareVersions(b *testing.B) {
	pairs := [][2]string{
		{"1.3.0", "1.2.0"},
		{"v2.0.0-beta.1", "2.0.0-rc1"},
		{"1.0", "1.0.0"},
		{"10.4.12.1", "10.4.12"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		_ = wpupdates.CompareVersions(p[0], p[1])
	}
}

func BenchmarkCheckForUpdates(b *testing.B) {
	fetcher := staticFetcher{release: &wpupdates.ReleaseInfo{
		TagName: "1.3.0",
		Assets:  []wpupdates.Asset{{DownloadURL: "https://example.com/my-plugin.zip"}},
	}}
	checker, err := wpupdates.New("plugin", pkg, fetcher)
	if err != nil {
		b.Fatal(err)
	}
	cache := wpupdates.NewUpdateCache(map[string]string{pkg.Slug: pkg.CurrentVersion})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.CheckForUpdates(ctx, cache)
	}
}

func BenchmarkCheckForUpdates_HTTP(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"1.3.0","assets":[{"browser_download_url":"https://example.com/my-plugin.zip"}]}`))
	}))
	defer server.Close()

	checker, err := wpupdates.New("plugin", pkg, wpupdates.NewGitHubFetcher(server.URL, nil))
	if err != nil {
		b.Fatal(err)
	}
	cache := wpupdates.NewUpdateCache(map[string]string{pkg.Slug: pkg.CurrentVersion})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.CheckForUpdates(ctx, cache)
	}
}
