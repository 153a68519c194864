package apidoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables read by LoadConfig, as in
// APIDOC_OUTPUT.
const EnvPrefix = "APIDOC"

// Config holds the settings of a documentation run. Values come from a
// config file, then the environment, then command-line flags.
type Config struct {
	Output      string   `json:"output" yaml:"output" toml:"output" split_words:"true"`
	RoutePrefix []string `json:"route_prefix" yaml:"route_prefix" toml:"route_prefix" split_words:"true"`
	Routes      []string `json:"routes" yaml:"routes" toml:"routes" split_words:"true"`
	ActAsUserID string   `json:"act_as_user_id" yaml:"act_as_user_id" toml:"act_as_user_id" split_words:"true"`

	Manifest string `json:"manifest" yaml:"manifest" toml:"manifest" split_words:"true"`
	Source   string `json:"source" yaml:"source" toml:"source" split_words:"true"`

	Title       string   `json:"title" yaml:"title" toml:"title" split_words:"true"`
	PostmanName string   `json:"postman_name" yaml:"postman_name" toml:"postman_name" split_words:"true"`
	BaseURL     string   `json:"base_url" yaml:"base_url" toml:"base_url" split_words:"true"`
	Locale      string   `json:"locale" yaml:"locale" toml:"locale" split_words:"true"`
	Languages   []string `json:"languages" yaml:"languages" toml:"languages" split_words:"true"`
	RateLimit   string   `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit" split_words:"true"`

	Format string `json:"format" yaml:"format" toml:"format" split_words:"true"`
	Force  bool   `json:"force" yaml:"force" toml:"force" split_words:"true"`
	Seed   uint64 `json:"seed" yaml:"seed" toml:"seed" split_words:"true"`

	PreviewAddr  string  `json:"preview_addr" yaml:"preview_addr" toml:"preview_addr" split_words:"true"`
	PreviewRate  float64 `json:"preview_rate" yaml:"preview_rate" toml:"preview_rate" split_words:"true"`
	PreviewBurst int     `json:"preview_burst" yaml:"preview_burst" toml:"preview_burst" split_words:"true"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		Output:       "public/docs",
		Title:        "API Reference",
		BaseURL:      "http://localhost",
		Locale:       "en",
		PreviewAddr:  ":8000",
		PreviewRate:  10,
		PreviewBurst: 20,
	}
}

// LoadConfig reads path over DefaultConfig, then applies APIDOC_*
// environment variables. An empty path skips the file. The format follows
// the extension: .yaml, .yml, .toml or .json.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := decodeConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, &ConfigurationError{Reason: "environment overrides", Err: err}
	}

	if err := cfg.ExpandPaths(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeConfigFile(path string, cfg *Config) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return &ConfigurationError{Reason: "config path", Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigurationError{Reason: "read config", Err: err}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), cfg)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown keys %v", undecoded)
			}
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unsupported config format %q (supported: .yaml, .yml, .toml, .json)", ext)}
	}
	if err != nil {
		return &ConfigurationError{Reason: "decode " + path, Err: err}
	}
	return nil
}

// ExpandPaths resolves a leading "~" in the path settings.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Output, &c.Manifest, &c.Source} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return &ConfigurationError{Reason: "expand " + *p, Err: err}
		}
		*p = expanded
	}
	return nil
}

// Filter returns the route filter described by the settings.
func (c Config) Filter() Filter {
	var prefixes []string
	for _, p := range c.RoutePrefix {
		prefixes = append(prefixes, ParsePrefixes(p)...)
	}
	return Filter{Prefixes: prefixes, Names: c.Routes}
}
