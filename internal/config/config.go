// Package config loads the wpupdates command configuration from a file and
// WPUPDATES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/git-pkgs/wpupdates/internal/core"
)

const (
	KeyDatabase         = "database"
	KeyAdminURL         = "admin_url"
	KeyAPIURL           = "api_url"
	KeyUserAgent        = "user_agent"
	KeyTimeout          = "timeout"
	KeyRetries          = "retries"
	KeyBreakerThreshold = "breaker_threshold"
	KeySchedule         = "schedule"
	KeyListen           = "listen"
	KeyVersionScheme    = "version_scheme"
	KeyTokenTTL         = "token_ttl"
	KeyVerbose          = "verbose"

	envPrefix = "WPUPDATES"
)

// Admin is an account allowed into the admin area.
type Admin struct {
	Name         string   `mapstructure:"name"`
	Token        string   `mapstructure:"token"`
	Capabilities []string `mapstructure:"capabilities"`
}

// Package is a managed plugin or theme. Either PURL or the explicit fields
// identify it; explicit fields override what the PURL carries.
type Package struct {
	Kind       string `mapstructure:"kind"`
	Slug       string `mapstructure:"slug"`
	Version    string `mapstructure:"version"`
	Repository string `mapstructure:"repository"`
	PURL       string `mapstructure:"purl"`
}

// Descriptor resolves the package's kind name and descriptor.
func (p Package) Descriptor() (string, core.PackageDescriptor, error) {
	kind := p.Kind
	var pkg core.PackageDescriptor
	if p.PURL != "" {
		k, d, err := core.DescriptorFromPURL(p.PURL)
		if err != nil {
			return "", core.PackageDescriptor{}, fmt.Errorf("package %s: %w", p.PURL, err)
		}
		pkg = d
		if kind == "" {
			kind = k
		}
	}
	if p.Slug != "" {
		pkg.Slug = p.Slug
	}
	if p.Version != "" {
		pkg.CurrentVersion = p.Version
	}
	if p.Repository != "" {
		pkg.RepositoryURL = p.Repository
	}
	if kind == "" {
		kind = "plugin"
	}
	if err := pkg.Validate(); err != nil {
		return "", core.PackageDescriptor{}, err
	}
	return kind, pkg, nil
}

// Config is the resolved configuration.
type Config struct {
	Database         string        `mapstructure:"database"`
	AdminURL         string        `mapstructure:"admin_url"`
	APIURL           string        `mapstructure:"api_url"`
	UserAgent        string        `mapstructure:"user_agent"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Retries          int           `mapstructure:"retries"`
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	Schedule         string        `mapstructure:"schedule"`
	Listen           string        `mapstructure:"listen"`
	VersionScheme    string        `mapstructure:"version_scheme"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	Verbose          bool          `mapstructure:"verbose"`
	Admins           []Admin       `mapstructure:"admins"`
	Packages         []Package     `mapstructure:"packages"`
}

// Load reads path (YAML, JSON or TOML by extension) over the defaults and
// applies environment overrides such as WPUPDATES_DATABASE. A missing file
// at an explicit path is an error; an empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := New()

	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return Decode(v)
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Decode resolves v into a Config. Environment overrides apply to every key
// with a default.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("%s must not be negative", KeyRetries)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabase, "wpupdates.db")
	v.SetDefault(KeyAdminURL, "/wp-admin/")
	v.SetDefault(KeyAPIURL, "https://api.github.com")
	v.SetDefault(KeyUserAgent, "wpupdates")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyRetries, 0)
	v.SetDefault(KeyBreakerThreshold, 0)
	v.SetDefault(KeySchedule, "@every 12h")
	v.SetDefault(KeyListen, "127.0.0.1:8080")
	v.SetDefault(KeyVersionScheme, "default")
	v.SetDefault(KeyTokenTTL, 24*time.Hour)
	v.SetDefault(KeyVerbose, false)
}
