package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/git-pkgs/wpupdates/client"
	"github.com/git-pkgs/wpupdates/internal/core"
)

func TestLatestRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/vendor/my-plugin/releases/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(404)
			return
		}

		resp := releaseResponse{
			TagName: "v1.3.0",
			HTMLURL: "https://github.com/vendor/my-plugin/releases/tag/v1.3.0",
			Assets: []assetResponse{
				{Name: "my-plugin.zip", BrowserDownloadURL: "https://github.com/vendor/my-plugin/releases/download/v1.3.0/my-plugin.zip"},
				{Name: "checksums.txt", BrowserDownloadURL: "https://github.com/vendor/my-plugin/releases/download/v1.3.0/checksums.txt"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	f := New(server.URL, client.DefaultClient())
	release, err := f.LatestRelease(context.Background(), "https://github.com/vendor/my-plugin")
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}

	if release.TagName != "v1.3.0" {
		t.Errorf("TagName = %q, want %q", release.TagName, "v1.3.0")
	}
	if len(release.Assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(release.Assets))
	}
	if got := release.PackageURL(); got != "https://github.com/vendor/my-plugin/releases/download/v1.3.0/my-plugin.zip" {
		t.Errorf("PackageURL() = %q", got)
	}
	if release.Assets[1].Name != "checksums.txt" {
		t.Errorf("second asset = %q", release.Assets[1].Name)
	}
}

func TestLatestRelease_VerbatimURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"tag_name":"2.0","assets":[]}`))
	}))
	defer server.Close()

	f := New("", client.DefaultClient())
	release, err := f.LatestRelease(context.Background(), server.URL+"/api/v3/repos/acme/storefront")
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if gotPath != "/api/v3/repos/acme/storefront/releases/latest" {
		t.Errorf("path = %q", gotPath)
	}
	if release.TagName != "2.0" || len(release.Assets) != 0 {
		t.Errorf("release = %+v", release)
	}
}

func TestLatestRelease_MissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"nightly"}`))
	}))
	defer server.Close()

	f := New(server.URL, nil)
	release, err := f.LatestRelease(context.Background(), "https://github.com/vendor/my-plugin")
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if release.TagName != "" || release.PackageURL() != "" {
		t.Errorf("release = %+v, want empty", release)
	}
}

func TestLatestRelease_ParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>rate limit page</html>`))
	}))
	defer server.Close()

	f := New(server.URL, client.DefaultClient())
	_, err := f.LatestRelease(context.Background(), "https://github.com/vendor/my-plugin")
	if !core.IsParseFailure(err) {
		t.Errorf("error = %v, want parse failure", err)
	}
	if !errors.Is(err, client.ErrInvalidBody) {
		t.Errorf("error = %v, want it to wrap ErrInvalidBody", err)
	}
}

func TestLatestRelease_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	f := New(server.URL, client.DefaultClient())
	_, err := f.LatestRelease(context.Background(), "https://github.com/vendor/missing")
	if !core.IsTransportFailure(err) {
		t.Errorf("error = %v, want transport failure", err)
	}
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("error = %v, want wrapped ErrNotFound", err)
	}
}

func TestLatestRelease_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := New(url, client.NewClient(client.WithTimeout(time.Second)))
	_, err := f.LatestRelease(context.Background(), "https://github.com/vendor/my-plugin")
	if !core.IsTransportFailure(err) {
		t.Errorf("error = %v, want transport failure", err)
	}
}

func TestCheckerWithFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"1.3.0","assets":[{"browser_download_url":"https://example.com/p.zip"}]}`))
	}))
	defer server.Close()

	kind := core.Kind{Name: "plugin", SlugField: "slug"}
	pkg := core.PackageDescriptor{Slug: "p/p.php", CurrentVersion: "1.2.0", RepositoryURL: "https://github.com/vendor/p"}
	c := core.NewChecker(kind, pkg, New(server.URL, nil))

	cache := core.NewUpdateCache(map[string]string{"p/p.php": "1.2.0"})
	got := c.CheckForUpdates(context.Background(), cache)
	r, ok := got.Response("p/p.php")
	if !ok {
		t.Fatal("expected an update record")
	}
	if r.NewVersion != "1.3.0" || r.Package != "https://example.com/p.zip" {
		t.Errorf("record = %+v", r)
	}
}
