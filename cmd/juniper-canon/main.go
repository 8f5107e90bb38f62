// Command juniper-canon resolves Bible references and answers questions
// about the characters of a hydrated collection.
//
// Usage:
//
//	juniper-canon resolve "Gen 1:1-3"
//	juniper-canon verses "John 3:16" --text
//	juniper-canon kinship Abraham Isaac
//	juniper-canon text import kjv.tsv
package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/internal/config"
	"github.com/FocuswithJustin/JuniperCanon/internal/content"
	"github.com/FocuswithJustin/JuniperCanon/internal/hydrate"
	"github.com/FocuswithJustin/JuniperCanon/internal/logging"
	"github.com/FocuswithJustin/JuniperCanon/internal/validation"
)

const version = "0.1.0"

// CLI defines the command-line interface for juniper-canon.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"Configuration file (default: ./juniper-canon.toml)" type:"path"`
	Dataset   string `name:"dataset" short:"d" help:"JSON dataset, optionally xz-compressed (default: built-in KJV)" type:"path"`
	OSIS      string `name:"osis" help:"OSIS document supplying chapter and verse counts" type:"path"`
	Database  string `name:"database" help:"Verse text database" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (json, text)"`

	Resolve   ResolveCmd   `cmd:"" help:"Resolve a reference to a passage"`
	Ordinal   OrdinalCmd   `cmd:"" help:"Resolve a numeric reference such as 1001001-1001003"`
	Verses    VersesCmd    `cmd:"" help:"List the verses of a passage"`
	Books     BooksCmd     `cmd:"" help:"List books"`
	Character CharacterCmd `cmd:"" help:"Show a character"`
	Kinship   KinshipCmd   `cmd:"" help:"Describe how one character is related to another"`
	Lineage   LineageCmd   `cmd:"" help:"Show the line of descent between two characters"`
	Text      TextGroup    `cmd:"" help:"Verse text storage"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// TextGroup contains verse text operations.
type TextGroup struct {
	Import TextImportCmd `cmd:"" help:"Import tab-separated ordinal and text lines"`
}

// env is what commands run against. The collection and the text store are
// opened on first use.
type env struct {
	ctx context.Context
	out io.Writer
	cfg config.Config

	collection *hydrate.Result
	store      *content.Store
}

// setup loads the configuration, applies flag overrides and initialises
// logging.
func (c *CLI) setup(out io.Writer) (*env, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Dataset != "" {
		cfg.Data.Dataset = c.Dataset
	}
	if c.OSIS != "" {
		cfg.Data.OSIS = c.OSIS
	}
	if c.Database != "" {
		cfg.Content.Database = c.Database
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	logging.InitLogger(level, format)

	return &env{ctx: context.Background(), out: out, cfg: cfg}, nil
}

// Translation hydrates the configured collection.
func (e *env) Translation() (*bible.Translation, error) {
	if e.collection == nil {
		if err := e.checkInputs(); err != nil {
			return nil, err
		}
		res, err := hydrate.Load(e.ctx, hydrate.Options{
			Dataset:   e.cfg.Data.Dataset,
			OSIS:      e.cfg.Data.OSIS,
			Threshold: e.cfg.Index.RatioThreshold,
		})
		if err != nil {
			return nil, err
		}
		e.collection = res
	}
	return e.collection.Translation, nil
}

func (e *env) checkInputs() error {
	if p := e.cfg.Data.Dataset; p != "" {
		if _, err := validation.CheckFile("data.dataset", p, validation.FileTypeJSON, validation.FileTypeXZ); err != nil {
			return err
		}
	}
	if p := e.cfg.Data.OSIS; p != "" {
		if _, err := validation.CheckFile("data.osis", p, validation.FileTypeXML); err != nil {
			return err
		}
	}
	return nil
}

// Store opens the configured text store.
func (e *env) Store() (*content.Store, error) {
	if e.store == nil {
		if err := validation.CheckDatabase("content.database", e.cfg.Content.Database); err != nil {
			return nil, err
		}
		s, err := content.Open(e.cfg.Content.Database)
		if err != nil {
			return nil, err
		}
		e.store = s
	}
	return e.store, nil
}

// Source returns the text store behind the configured cache, warning when
// its text was imported against a different dataset.
func (e *env) Source() (content.Source, error) {
	t, err := e.Translation()
	if err != nil {
		return nil, err
	}
	s, err := e.Store()
	if err != nil {
		return nil, err
	}
	if _, err := s.CheckFingerprint(e.ctx, t.Name(), e.collection.Fingerprint); err != nil {
		return nil, err
	}
	ttl, _ := e.cfg.Content.TTL()
	return content.NewCached(s, ttl), nil
}

func (e *env) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("juniper-canon"),
		kong.Description("Juniper Canon - Bible reference resolution and genealogy"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}
}

// run executes the parsed command and releases the environment.
func run(kctx *kong.Context, cli *CLI, out io.Writer) error {
	e, err := cli.setup(out)
	if err != nil {
		return err
	}
	e.ctx = logging.WithCommand(e.ctx, kctx.Command())
	err = kctx.Run(e)
	if cerr := e.Close(); err == nil {
		err = cerr
	}
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, options()...)
	err := run(ctx, &cli, os.Stdout)
	ctx.FatalIfErrorf(err)
}
