// Package config loads the rigport configuration file.
//
// The file is TOML by default (rigport.toml). Files ending in .yaml or
// .yml are read as YAML and files ending in .json as JSON; all three share
// the same keys. Values from the file override the options a payload
// carries, and command-line flags override the file.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/cache"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/render"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "rigport.toml"

// Config is the rigport configuration.
type Config struct {
	Import ImportConfig `toml:"import" yaml:"import" json:"import"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache" json:"cache"`
	Render RenderConfig `toml:"render" yaml:"render" json:"render"`
	Server ServerConfig `toml:"server" yaml:"server" json:"server"`
	Log    LogConfig    `toml:"log" yaml:"log" json:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-" json:"-"`
}

// ImportConfig overrides payload options. Unset fields keep the payload's
// value.
type ImportConfig struct {
	Assets           string   `toml:"assets" yaml:"assets" json:"assets"`
	MergeSkeletons   *bool    `toml:"merge_skeletons" yaml:"merge_skeletons" json:"merge_skeletons"`
	ImportCollection *bool    `toml:"import_collection" yaml:"import_collection" json:"import_collection"`
	AmbientOcclusion *float64 `toml:"ambient_occlusion" yaml:"ambient_occlusion" json:"ambient_occlusion"`
	Cavity           *float64 `toml:"cavity" yaml:"cavity" json:"cavity"`
	Subsurface       *float64 `toml:"subsurface" yaml:"subsurface" json:"subsurface"`
	MeshExportType   string   `toml:"mesh_export_type" yaml:"mesh_export_type" json:"mesh_export_type"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled" json:"disabled"`
	Dir      string `toml:"dir" yaml:"dir" json:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url" json:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix" json:"prefix"`
	TTL      string `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// RenderConfig sets artifact defaults.
type RenderConfig struct {
	Formats    []string `toml:"formats" yaml:"formats" json:"formats"`
	Detailed   bool     `toml:"detailed" yaml:"detailed" json:"detailed"`
	Swatch     bool     `toml:"swatch" yaml:"swatch" json:"swatch"`
	SwatchTile int      `toml:"swatch_tile" yaml:"swatch_tile" json:"swatch_tile"`
}

// ServerConfig configures `rigport serve`.
type ServerConfig struct {
	Addr   string `toml:"addr" yaml:"addr" json:"addr"`
	Assets string `toml:"assets" yaml:"assets" json:"assets"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache:  CacheConfig{TTL: cache.ArtifactTTL.String()},
		Render: RenderConfig{Formats: []string{string(render.FormatSVG), string(render.FormatJSON)}, Swatch: true},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the config at path. With an empty path it looks for
// DefaultFile in the working directory and then in the user config
// directory, falling back to Default when neither exists. An explicit path
// that does not exist is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = find()
	}
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Decode(data, filepath.Ext(path), cfg); err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func find() string {
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "rigport", DefaultFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Decode parses data in the format named by ext (".toml", ".yaml", ".yml"
// or ".json") into cfg.
func Decode(data []byte, ext string, cfg *Config) error {
	var err error
	switch strings.ToLower(ext) {
	case ".toml", "":
		_, err = toml.Decode(string(data), cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return nil
}

// applyEnv applies environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("RIGPORT_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("RIGPORT_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("RIGPORT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RIGPORT_ASSETS"); v != "" {
		c.Import.Assets = v
		c.Server.Assets = v
	}
}

// Validate checks values that are only parsed on use.
func (c *Config) Validate() error {
	if c.Import.MeshExportType != "" {
		if _, err := asset.ParseMeshExportType(c.Import.MeshExportType); err != nil {
			return err
		}
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := render.ParseFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
	}
	if c.Render.SwatchTile < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.swatch_tile must be positive")
	}
	return nil
}

// CacheTTL parses the cache TTL. An empty value means cache.ArtifactTTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.ArtifactTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid cache.ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Apply overrides the payload's assets folder and options with the values
// set in the import section.
func (c *Config) Apply(p *asset.Payload) error {
	ic := c.Import
	if ic.Assets != "" {
		p.AssetsFolder = ic.Assets
	}
	opts := &p.Options
	if ic.MergeSkeletons != nil {
		opts.MergeSkeletons = *ic.MergeSkeletons
	}
	if ic.ImportCollection != nil {
		opts.ImportCollection = *ic.ImportCollection
	}
	if ic.AmbientOcclusion != nil {
		opts.AmbientOcclusion = *ic.AmbientOcclusion
	}
	if ic.Cavity != nil {
		opts.Cavity = *ic.Cavity
	}
	if ic.Subsurface != nil {
		opts.Subsurface = *ic.Subsurface
	}
	if ic.MeshExportType != "" {
		t, err := asset.ParseMeshExportType(ic.MeshExportType)
		if err != nil {
			return err
		}
		opts.MeshExportType = t
	}
	return nil
}
