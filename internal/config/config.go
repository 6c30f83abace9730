// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds the configuration from the site.yaml file.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"baseurl"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`

	ContentDir  string `yaml:"content_dir"`
	TemplateDir string `yaml:"template_dir"`
	StaticDir   string `yaml:"static_dir"`
	OutputDir   string `yaml:"output_dir"`

	// CollectionPages is kept undecoded: it is either one mapping or a list of
	// mappings and is validated by tagpages.ParseConfigs.
	CollectionPages any `yaml:"collection_pages"`
}

// Default directory layout of a site.
const (
	DefaultContentDir  = "content"
	DefaultTemplateDir = "templates"
	DefaultStaticDir   = "static"
	DefaultOutputDir   = "public"
	DefaultTemplate    = "simple"
)

// LoadSiteConfig reads and parses a site.yaml file and fills in defaults.
func LoadSiteConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	return ParseSiteConfig(data, path)
}

// ParseSiteConfig parses site.yaml content; name is used in error messages.
func ParseSiteConfig(data []byte, name string) (SiteConfig, error) {
	cfg := SiteConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", name, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.ContentDir == "" {
		c.ContentDir = DefaultContentDir
	}
	if c.TemplateDir == "" {
		c.TemplateDir = DefaultTemplateDir
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
}

// Within returns a copy of c with relative directories resolved against root,
// the directory holding site.yaml.
func (c SiteConfig) Within(root string) SiteConfig {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(root, dir)
	}
	c.ContentDir = resolve(c.ContentDir)
	c.TemplateDir = resolve(c.TemplateDir)
	c.StaticDir = resolve(c.StaticDir)
	c.OutputDir = resolve(c.OutputDir)
	return c
}
