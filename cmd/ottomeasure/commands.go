package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hammamikhairi/ottomeasure/internal/api"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/recipe"
	"github.com/hammamikhairi/ottomeasure/internal/units"
	"github.com/hammamikhairi/ottomeasure/internal/viewer"
)

// ConvertCmd converts one measurement.
type ConvertCmd struct {
	Amount string   `arg:"" help:"Amount, e.g. 2, 1.5, 1/2 or \"1 1/2\""`
	Unit   []string `arg:"" optional:"" help:"Unit, e.g. cup or fl oz"`
	To     string   `short:"t" required:"" enum:"metric,imperial" help:"Target system (metric|imperial)"`
}

func (c *ConvertCmd) Run(g *Globals) error {
	a, err := g.bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	amount, err := recipe.ParseAmount(c.Amount)
	if err != nil {
		return err
	}
	target, err := domain.ParseSystem(c.To)
	if err != nil {
		return err
	}

	unit := strings.Join(c.Unit, " ")
	res := units.Convert(domain.Measurement{Amount: amount, Unit: unit}, target)
	if res.Outcome == units.OutcomeMissingEntry {
		a.log.Warn("no %s conversion for unit %q", target, unit)
	}
	fmt.Fprintf(a.out, "%s\n", formatMeasurement(res.Measurement))
	if res.Outcome.PassThrough() && res.Outcome != units.OutcomeSameSystem {
		fmt.Fprintf(a.out, "(%s: unit kept as given)\n", res.Outcome)
	}
	return nil
}

// DetectCmd prints the dominant measurement system of a recipe.
type DetectCmd struct {
	ID string `arg:"" help:"Recipe ID"`
}

func (c *DetectCmd) Run(g *Globals) error {
	a, err := g.bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	r, err := a.engine.GetRecipe(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("recipe %s: %w", c.ID, err)
	}
	us := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		us[i] = ing.Unit
	}
	imperial, metric := units.Tally(us)
	sys, err := a.engine.Detect(ctx, c.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s (imperial units: %d, metric units: %d)\n", r.Name, sys, imperial, metric)
	return nil
}

// ShowCmd prints a recipe's ingredients in a display mode.
type ShowCmd struct {
	ID   string `arg:"" help:"Recipe ID"`
	Mode string `short:"m" help:"Display mode (original|metric|imperial); defaults to display.mode"`
}

func (c *ShowCmd) Run(g *Globals) error {
	a, err := g.bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	name := c.Mode
	if name == "" {
		name = a.cfg.Display.Mode
	}
	mode, err := domain.ParseMode(name)
	if err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}

	r, err := a.engine.GetRecipe(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("recipe %s: %w", c.ID, err)
	}
	view := a.engine.RenderRecipe(r, mode)

	fmt.Fprintf(a.out, "%s\n", r.Name)
	fmt.Fprintf(a.out, "written in %s, showing %s\n\n", view.Detected, view.Mode)
	for _, line := range viewer.Lines(view) {
		fmt.Fprintf(a.out, "  - %s\n", line)
	}
	if len(r.Steps) > 0 {
		fmt.Fprintln(a.out)
		for i, step := range r.Steps {
			fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
		}
	}
	return nil
}

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	Addr string `help:"Listen address; defaults to server.addr"`
}

func (c *ServeCmd) Run(g *Globals) error {
	a, err := g.bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	addr := c.Addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(a.engine, a.log)
	return api.Serve(ctx, addr, handler.Router(), a.log)
}

// ImportCmd loads a YAML recipe into the SQLite store at storage.path.
type ImportCmd struct {
	File string `arg:"" help:"Recipe YAML file" type:"existingfile"`
}

func (c *ImportCmd) Run(g *Globals) error {
	a, err := g.bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := recipe.DecodeYAML(f)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	src, err := recipe.OpenSQLite(a.cfg.Storage.Path, a.log)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Import(context.Background(), r); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("recipe %s already imported", r.ID)
		}
		return err
	}
	if a.cfg.Storage.Driver != "sqlite" {
		a.log.Warn("storage.driver is %s; set it to sqlite to browse imported recipes", a.cfg.Storage.Driver)
	}
	fmt.Fprintf(a.out, "imported %s as %s (%d ingredients, detected %s)\n",
		r.Name, r.ID, len(r.Ingredients), units.DetectIngredients(r.Ingredients))
	return nil
}

// CheckCmd runs the table completeness check.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Globals) error {
	a, err := g.bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := units.CheckTables(); err != nil {
		return fmt.Errorf("conversion tables incomplete:\n%w", err)
	}
	imperial := len(units.Units(domain.UnitImperial))
	metric := len(units.Units(domain.UnitMetric))
	fmt.Fprintf(a.out, "conversion tables complete (%d imperial, %d metric units)\n", imperial, metric)
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	out := g.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "ottomeasure %s\n", version)
	return nil
}

func formatMeasurement(m domain.Measurement) string {
	amount := recipe.FormatAmount(m.Amount)
	if m.Unit == "" {
		return amount
	}
	return amount + " " + m.Unit
}
