// OttoMeasure shows recipes in the measurement system you cook in.
//
// Usage:
//
//	ottomeasure [repl]                       interactive viewer (default)
//	ottomeasure convert 1.5 cups --to metric
//	ottomeasure show country-loaf --mode imperial
//	ottomeasure serve
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottomeasure/internal/config"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/recipe"
	"github.com/hammamikhairi/ottomeasure/internal/storage"
	"github.com/hammamikhairi/ottomeasure/internal/viewer"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config  string `name:"config" short:"c" help:"Config file (default: ottomeasure.yaml or $OTTO_CONFIG)" type:"path"`
	Verbose bool   `help:"Enable verbose/debug logging"`
	Quiet   bool   `help:"Disable all logging"`

	out io.Writer
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Repl    ReplCmd    `cmd:"" default:"1" help:"Interactive recipe viewer"`
	Convert ConvertCmd `cmd:"" help:"Convert a single measurement"`
	Detect  DetectCmd  `cmd:"" help:"Detect the measurement system of a recipe"`
	Show    ShowCmd    `cmd:"" help:"Print a recipe in a display mode"`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP API"`
	Import  ImportCmd  `cmd:"" help:"Import a YAML recipe into the SQLite store"`
	Check   CheckCmd   `cmd:"" help:"Check the conversion tables for missing units"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	cli.out = os.Stdout
	ctx := kong.Parse(&cli,
		kong.Name("ottomeasure"),
		kong.Description("Imperial and metric recipe conversion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// app holds what a command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	out     io.Writer
	engine  *viewer.Engine
	store   *storage.MemoryStore
	closers []func() error
}

// bootstrap loads config, builds the logger and wires the recipe source.
// With logToFile the logger writes to log.file so terminal UIs stay clean.
func (g *Globals) bootstrap(logToFile bool) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.Config != "" {
		cfg, err = config.LoadFile(g.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, out: g.out}
	if a.out == nil {
		a.out = os.Stdout
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if g.Verbose {
		level = logger.LevelVerbose
	}
	if g.Quiet {
		level = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if logToFile && cfg.Log.File != "" && cfg.Log.File != "stderr" {
		if dir := filepath.Dir(cfg.Log.File); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Log.File, err)
		} else {
			logOut = f
			a.closers = append(a.closers, f.Close)
		}
	}
	var opts []logger.Option
	if cfg.Log.Format == "json" {
		opts = append(opts, logger.WithJSON())
	}
	a.log = logger.New(level, logOut, opts...)

	var recipes domain.RecipeSource
	switch cfg.Storage.Driver {
	case "sqlite":
		src, err := recipe.OpenSQLite(cfg.Storage.Path, a.log)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, src.Close)
		recipes = src
	default:
		recipes = recipe.NewMemorySource(a.log)
	}

	a.store = storage.NewMemoryStore(a.log)
	a.engine = viewer.New(recipes, a.store, a.log)
	a.log.Debug("config loaded (storage=%s, mode=%s)", cfg.Storage.Driver, cfg.Display.Mode)
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
