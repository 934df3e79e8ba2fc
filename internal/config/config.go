// Package config loads and validates the blogbuilder configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	bberrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
}

// SiteConfig carries site-wide fields exposed to every layout.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Author      string `yaml:"author,omitempty"`
}

// ContentRoot is a directory of source documents. Collection names the
// collection its documents belong to; empty means top-level pages outside
// any root collection.
type ContentRoot struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection,omitempty"`
}

// RemoteConfig optionally points the content scan at a git repository that
// is shallow-cloned into a temporary workspace before building.
type RemoteConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
}

// ContentConfig locates source documents, layouts and static assets.
type ContentConfig struct {
	Roots   []ContentRoot `yaml:"roots,omitempty"`
	Layouts string        `yaml:"layouts,omitempty"`
	Static  string        `yaml:"static,omitempty"`
	Remote  *RemoteConfig `yaml:"remote,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     *bool  `yaml:"clean,omitempty"` // Clean output directory before build (default true)
}

// CleanEnabled reports whether the destination is emptied before writing.
// Unset means true: stale outputs from removed documents must not survive a
// rebuild unless the user explicitly opts out.
func (o OutputConfig) CleanEnabled() bool {
	return o.Clean == nil || *o.Clean
}

// BuildConfig holds build policy knobs.
type BuildConfig struct {
	StrictFrontMatter bool   `yaml:"strict_front_matter,omitempty"` // abort on first malformed document
	FailFast          bool   `yaml:"fail_fast,omitempty"`           // abort on first render failure
	DisableFeeds      bool   `yaml:"disable_feeds,omitempty"`       // suppress feed.xml and sitemap.xml
	HistoryDB         string `yaml:"history_db,omitempty"`          // sqlite build ledger, empty disables
	MetricsFile       string `yaml:"metrics_file,omitempty"`        // prometheus textfile export, empty disables
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; existing process env wins.
	if err := godotenv.Load(".env", ".env.local"); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, bberrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if len(c.Content.Roots) == 0 {
		c.Content.Roots = []ContentRoot{
			{Path: "content/posts", Collection: "posts"},
			{Path: "content/pages"},
		}
	}
	if c.Content.Layouts == "" {
		c.Content.Layouts = "layouts"
	}
	if c.Content.Static == "" {
		c.Content.Static = "static"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./public"
	}
}

// Validate checks structural invariants of the configuration.
func (c *Config) Validate() error {
	if len(c.Content.Roots) == 0 {
		return bberrors.ValidationFailed("content.roots", "at least one content root is required")
	}
	seen := map[string]struct{}{}
	for i, root := range c.Content.Roots {
		if root.Path == "" {
			return bberrors.ValidationFailed(fmt.Sprintf("content.roots[%d].path", i), "path is required")
		}
		if root.Collection != "" {
			if _, dup := seen[root.Collection]; dup {
				return bberrors.ValidationFailed(fmt.Sprintf("content.roots[%d].collection", i),
					fmt.Sprintf("duplicate collection name %q", root.Collection))
			}
			seen[root.Collection] = struct{}{}
		}
	}
	if c.Output.Directory == "" {
		return bberrors.ValidationFailed("output.directory", "output directory is required")
	}
	if c.Content.Remote != nil && c.Content.Remote.URL == "" {
		return bberrors.ValidationFailed("content.remote.url", "remote url is required when remote is set")
	}
	return nil
}
