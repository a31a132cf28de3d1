package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "wpupdates.db" {
		t.Errorf("Database = %q, want %q", cfg.Database, "wpupdates.db")
	}
	if cfg.AdminURL != "/wp-admin/" {
		t.Errorf("AdminURL = %q, want %q", cfg.AdminURL, "/wp-admin/")
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Retries != 0 {
		t.Errorf("Retries = %d, want 0", cfg.Retries)
	}
	if cfg.Schedule != "@every 12h" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
	if len(cfg.Packages) != 0 {
		t.Errorf("Packages = %v, want none", cfg.Packages)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "wpupdates.yaml", `
database: /var/lib/wpupdates.db
admin_url: https://example.com/wp-admin/
timeout: 5s
retries: 2
admins:
  - name: alice
    token: secret
    capabilities: [update_plugins, update_themes]
packages:
  - kind: plugin
    slug: my-plugin/my-plugin.php
    version: 1.2.0
    repository: https://github.com/vendor/my-plugin
  - purl: pkg:github/acme/storefront@3.0?kind=theme
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/var/lib/wpupdates.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.Retries)
	}
	if len(cfg.Admins) != 1 || cfg.Admins[0].Name != "alice" || len(cfg.Admins[0].Capabilities) != 2 {
		t.Errorf("Admins = %+v", cfg.Admins)
	}
	if len(cfg.Packages) != 2 {
		t.Fatalf("Packages = %+v, want 2", cfg.Packages)
	}

	kind, pkg, err := cfg.Packages[0].Descriptor()
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if kind != "plugin" || pkg.Slug != "my-plugin/my-plugin.php" || pkg.CurrentVersion != "1.2.0" {
		t.Errorf("first package = %s %+v", kind, pkg)
	}

	kind, pkg, err = cfg.Packages[1].Descriptor()
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if kind != "theme" || pkg.Slug != "storefront" || pkg.RepositoryURL != "https://github.com/acme/storefront" {
		t.Errorf("second package = %s %+v", kind, pkg)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "wpupdates.json", `{"listen": ":9000", "version_scheme": "semver"}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":9000")
	}
	if cfg.VersionScheme != "semver" {
		t.Errorf("VersionScheme = %q, want semver", cfg.VersionScheme)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("WPUPDATES_DATABASE", "libsql://db.example.com")
	t.Setenv("WPUPDATES_TIMEOUT", "10s")

	path := writeConfig(t, "wpupdates.yaml", "database: local.db\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "libsql://db.example.com" {
		t.Errorf("Database = %q, want env value", cfg.Database)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadNegativeRetries(t *testing.T) {
	path := writeConfig(t, "wpupdates.yaml", "retries: -1\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for negative retries")
	}
}

func TestPackageDescriptor(t *testing.T) {
	tests := []struct {
		name     string
		pkg      Package
		wantKind string
		wantSlug string
		wantErr  bool
	}{
		{"explicit", Package{Slug: "a/a.php", Version: "1.0", Repository: "https://github.com/x/a"}, "plugin", "a/a.php", false},
		{"purl", Package{PURL: "pkg:github/x/a@1.0"}, "plugin", "a", false},
		{"purl with override", Package{PURL: "pkg:github/x/a@1.0", Slug: "a/main.php", Version: "1.1"}, "plugin", "a/main.php", false},
		{"explicit kind wins", Package{Kind: "theme", PURL: "pkg:github/x/a@1.0?kind=plugin"}, "theme", "a", false},
		{"missing version", Package{Slug: "a", Repository: "https://github.com/x/a"}, "", "", true},
		{"bad purl", Package{PURL: "pkg:npm/lodash@1.0"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, pkg, err := tt.pkg.Descriptor()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Descriptor failed: %v", err)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
			if pkg.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", pkg.Slug, tt.wantSlug)
			}
		})
	}
}
