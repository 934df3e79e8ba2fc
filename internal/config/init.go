package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# blogbuilder configuration
site:
  title: "My Blog"
  description: "Notes on software"
  base_url: "https://blog.example.com"
  author: "Jane Doe"

content:
  roots:
    - path: content/posts
      collection: posts
    - path: content/pages
  layouts: layouts
  static: static

output:
  directory: ./public

build:
  strict_front_matter: false
  fail_fast: false
  # history_db: ./blogbuilder.db
  # metrics_file: ./blogbuilder.prom
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}
	return nil
}
