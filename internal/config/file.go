package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitekit"

// File is the structure of the .sitekit YAML file. Zero fields leave the
// corresponding Config value unchanged.
type File struct {
	BaseURL     string            `yaml:"baseURL,omitempty"`
	Timeout     string            `yaml:"timeout,omitempty"`
	UserAgent   string            `yaml:"userAgent,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	MaxBodySize int64             `yaml:"maxBodySize,omitempty"`
	Proxy       string            `yaml:"proxy,omitempty"`
	Concurrency int               `yaml:"concurrency,omitempty"`
	DataDir     string            `yaml:"dataDir,omitempty"`
	Currency    string            `yaml:"currency,omitempty"`
	Feed        FeedFile          `yaml:"feed,omitempty"`
	Portfolio   PortfolioFile     `yaml:"portfolio,omitempty"`
}

// FeedFile is the feed section of the config file.
type FeedFile struct {
	SiteURL           string `yaml:"siteURL,omitempty"`
	Title             string `yaml:"title,omitempty"`
	Description       string `yaml:"description,omitempty"`
	Limit             int    `yaml:"limit,omitempty"`
	DescriptionLength int    `yaml:"descriptionLength,omitempty"`
}

// PortfolioFile is the portfolio section of the config file.
type PortfolioFile struct {
	StartingEquity float64 `yaml:"startingEquity,omitempty"`
	Inception      string  `yaml:"inception,omitempty"`
}

// LoadConfigFile reads and parses the YAML file at path. It returns
// ErrConfigNotFound when the file does not exist.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file:
//  1. configPath, when given
//  2. .sitekit in the current directory
//  3. .sitekit in the user's home directory
//  4. config.yaml in the XDG config directory
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Apply copies the values set in f onto c.
func (f *File) Apply(c *Config) error {
	if f == nil {
		return nil
	}

	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, f.Timeout)
		}
		c.Timeout = d
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.Currency != "" {
		c.Currency = f.Currency
	}

	if f.Feed.SiteURL != "" {
		c.Feed.SiteURL = f.Feed.SiteURL
	}
	if f.Feed.Title != "" {
		c.Feed.Title = f.Feed.Title
	}
	if f.Feed.Description != "" {
		c.Feed.Description = f.Feed.Description
	}
	if f.Feed.Limit != 0 {
		c.Feed.Limit = f.Feed.Limit
	}
	if f.Feed.DescriptionLength != 0 {
		c.Feed.DescriptionLength = f.Feed.DescriptionLength
	}

	if f.Portfolio.StartingEquity != 0 {
		c.Portfolio.StartingEquity = f.Portfolio.StartingEquity
	}
	if f.Portfolio.Inception != "" {
		c.Portfolio.Inception = f.Portfolio.Inception
	}
	return nil
}
