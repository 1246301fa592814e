package content

import "gopkg.in/yaml.v3"

// Config is the site configuration aggregate parsed from the repo-root
// config.yml. Every field has a safe default so a missing or partial file
// never fails rendering.
type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Theme ThemeConfig `yaml:"theme"`
	Posts PostsConfig `yaml:"posts"`
}

// SiteConfig holds site-wide settings.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	URL         string `yaml:"url"`
	Favicon     string `yaml:"favicon"`
	FeaturedMax int    `yaml:"featured_max"`
}

// ThemeConfig holds presentation settings.
type ThemeConfig struct {
	Name          string `yaml:"name"`
	PygmentsStyle string `yaml:"pygments_style"`
	NavMaxPages   int    `yaml:"nav_max_pages"`
}

// PostsConfig holds listing settings.
type PostsConfig struct {
	PerPage int `yaml:"per_page"`
}

// DefaultConfig returns the configuration used when the repo has no config
// file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ParseConfig parses config YAML, filling defaults for absent fields.
// Malformed YAML returns nil; callers substitute DefaultConfig.
func ParseConfig(data []byte) *Config {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "My Blog"
	}
	if c.Site.FeaturedMax <= 0 {
		c.Site.FeaturedMax = 3
	}
	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}
	if c.Theme.PygmentsStyle == "" {
		c.Theme.PygmentsStyle = "monokai"
	}
	if c.Posts.PerPage <= 0 {
		c.Posts.PerPage = 10
	}
}
