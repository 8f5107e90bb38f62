package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canon.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Index.RatioThreshold)

	ttl, err := cfg.Content.TTL()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoad_OverridesAndResolvesPaths(t *testing.T) {
	path := writeConfig(t, `
[data]
dataset = "kjv.json.xz"
osis = "/abs/kjv.osis.xml"

[index]
ratio_threshold = 75

[log]
level = "debug"
format = "text"

[content]
cache_ttl = "30s"
`)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "kjv.json.xz"), cfg.Data.Dataset)
	assert.Equal(t, "/abs/kjv.osis.xml", cfg.Data.OSIS)
	assert.Equal(t, filepath.Join(dir, "juniper-canon.db"), cfg.Content.Database, "defaults survive a partial file")
	assert.Equal(t, 75, cfg.Index.RatioThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)

	ttl, err := cfg.Content.TTL()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"threshold", "[index]\nratio_threshold = 0\n", "index.ratio_threshold"},
		{"level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"format", "[log]\nformat = \"xml\"\n", "log.format"},
		{"ttl", "[content]\ncache_ttl = \"soon\"\n", "content.cache_ttl"},
		{"negative ttl", "[content]\ncache_ttl = \"-1m\"\n", "content.cache_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			var vErr *errors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":        "[data\n",
		"unknown field": "[data]\nbible = \"kjv\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			var pErr *errors.ParseError
			require.ErrorAs(t, err, &pErr)
			assert.Equal(t, "TOML", pErr.Format)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := Default()
	cfg.Data.Dataset = "/data/kjv.json"
	cfg.Index.RatioThreshold = 80

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/kjv.json", got.Data.Dataset)
	assert.Equal(t, 80, got.Index.RatioThreshold)
}
