// Package config loads the TOML configuration file.
//
//	[data]
//	dataset = "kjv.json.xz"
//	osis = "kjv.osis.xml"
//
//	[index]
//	ratio_threshold = 60
//
//	[log]
//	level = "info"
//	format = "json"
//
//	[content]
//	database = "text.db"
//	cache_ttl = "10m"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/core/fuzzy"
	"github.com/FocuswithJustin/JuniperCanon/internal/logging"
)

// FileName is the configuration file looked up in the working directory
// when no explicit path is given.
const FileName = "juniper-canon.toml"

// Config is the complete configuration.
type Config struct {
	Data    Data    `toml:"data"`
	Index   Index   `toml:"index"`
	Log     Log     `toml:"log"`
	Content Content `toml:"content"`
}

// Data names the hydration inputs.
type Data struct {
	Dataset string `toml:"dataset"`
	OSIS    string `toml:"osis"`
}

// Index tunes identifier lookups.
type Index struct {
	RatioThreshold int `toml:"ratio_threshold"`
}

// Log selects the logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Content configures the local text store.
type Content struct {
	Database string `toml:"database"`
	CacheTTL string `toml:"cache_ttl"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Index:   Index{RatioThreshold: fuzzy.DefaultThreshold},
		Log:     Log{Level: "info", Format: "json"},
		Content: Content{Database: "juniper-canon.db", CacheTTL: "10m"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults
// unless the path was given explicitly. Relative data paths are resolved
// against the file's directory.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.NewIO("read", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		perr := errors.NewParse("TOML", path, err.Error())
		perr.Err = err
		return cfg, perr
	}

	dir := filepath.Dir(path)
	cfg.Data.Dataset = resolvePath(dir, cfg.Data.Dataset)
	cfg.Data.OSIS = resolvePath(dir, cfg.Data.OSIS)
	cfg.Content.Database = resolvePath(dir, cfg.Content.Database)

	return cfg, cfg.Validate()
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Validate checks every field that has a restricted domain.
func (c Config) Validate() error {
	if t := c.Index.RatioThreshold; t < 1 || t > 100 {
		return errors.NewValidation("index.ratio_threshold", "must be between 1 and 100")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return validation("log.level", c.Log.Level, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return validation("log.format", c.Log.Format, err)
	}
	if _, err := c.Content.TTL(); err != nil {
		return validation("content.cache_ttl", c.Content.CacheTTL, err)
	}
	return nil
}

func validation(field, value string, err error) error {
	return &errors.ValidationError{Field: field, Value: value, Message: err.Error()}
}

// TTL parses CacheTTL. An empty value disables caching.
func (c Content) TTL() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.NewValidation("content.cache_ttl", "must not be negative")
	}
	return d, nil
}
