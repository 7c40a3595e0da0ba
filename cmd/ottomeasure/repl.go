package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottomeasure/internal/conversation"
	"github.com/hammamikhairi/ottomeasure/internal/display"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/speech"
	"github.com/hammamikhairi/ottomeasure/internal/sweeper"
	"github.com/hammamikhairi/ottomeasure/internal/units"
	"github.com/hammamikhairi/ottomeasure/internal/viewer"
)

// ReplCmd runs the interactive viewer.
type ReplCmd struct {
	NoSpeech bool   `help:"Disable reading ingredients aloud even if speech is configured"`
	CacheDir string `default:".otto-cache" help:"Directory for the persistent TTS audio cache"`
}

func (c *ReplCmd) Run(g *Globals) error {
	a, err := g.bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ui := display.NewUI(a.store)
	notifier := conversation.NewCLINotifier(a.log, ui.Printf)
	parser := conversation.NewKeywordParser(a.log)

	defaultMode, err := domain.ParseMode(a.cfg.Display.Mode)
	if err != nil {
		return fmt.Errorf("display.mode: %w", err)
	}

	repl := &cliApp{
		engine:      a.engine,
		parser:      parser,
		notifier:    notifier,
		reader:      c.buildReader(a),
		log:         a.log,
		ui:          ui,
		defaultMode: defaultMode,
	}

	sweep := sweeper.New(a.engine, notifier, a.log,
		sweeper.WithIdleTimeout(a.cfg.Display.IdleTimeout),
	)
	sweep.Start(ctx)
	defer sweep.Stop()

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		repl.run(ctx)
		ui.Quit()
	}()

	if err := ui.Run(); err != nil {
		a.log.Error("display: %v", err)
	}
	cancel()
	repl.closeView(context.Background())
	return nil
}

// buildReader returns an Azure-backed reader when speech is configured and
// the audio device opens, a no-op reader otherwise.
func (c *ReplCmd) buildReader(a *app) domain.IngredientReader {
	sc := a.cfg.Speech
	key, region := sc.Key, sc.Region
	if key == "" {
		key = os.Getenv(speech.EnvAzureSpeechKey)
	}
	if region == "" {
		region = os.Getenv(speech.EnvAzureSpeechRegion)
	}

	if c.NoSpeech || key == "" || region == "" {
		a.log.Info("TTS disabled: set speech.key and speech.region (or %s and %s) to enable",
			speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
		return speech.NewNoOp(a.log)
	}

	player, err := speech.NewPlayer(a.log)
	if err != nil {
		a.log.Error("audio player init failed, speech disabled: %v", err)
		return speech.NewNoOp(a.log)
	}
	client := speech.NewAzureClient(key, region, a.log)
	cache := speech.NewAudioCache(client.Voice(), c.CacheDir, a.log)
	a.log.Info("TTS enabled (voice=%s, region=%s)", client.Voice(), region)
	return speech.NewReader(client, player, cache, a.log)
}

type cliApp struct {
	engine      *viewer.Engine
	parser      domain.IntentParser
	notifier    domain.Notifier
	reader      domain.IngredientReader
	log         *logger.Logger
	ui          *display.UI
	defaultMode domain.DisplayMode

	mu        sync.Mutex
	sessionID string // current open view
	listing   []domain.RecipeSummary
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Pick a recipe and flip it between metric and imperial.")
	a.ui.Println("")
	a.showRecipes(ctx)

	uiCh := a.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case in, ok := <-uiCh:
			if !ok {
				return
			}
			input = strings.TrimSpace(in)
		}
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

		if intent.Type == domain.IntentQuit {
			a.ui.PrintChat("Bye.")
			return
		}
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentSearch:
		a.search(ctx, intent.Payload)
	case domain.IntentSelectRecipe:
		a.selectRecipe(ctx, intent.Payload)
	case domain.IntentShowMetric:
		a.setMode(ctx, domain.ModeMetric)
	case domain.IntentShowImperial:
		a.setMode(ctx, domain.ModeImperial)
	case domain.IntentShowOriginal:
		a.setMode(ctx, domain.ModeOriginal)
	case domain.IntentToggle:
		a.toggle(ctx)
	case domain.IntentConvert:
		a.convert(intent.Payload)
	case domain.IntentDetect:
		a.detect(ctx)
	case domain.IntentRead:
		a.read(ctx)
	default:
		a.ui.PrintHint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", intent.Payload))
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Commands")
	for _, line := range []string{
		"list                      show all recipes",
		"<n> | select <n|id>       open a recipe",
		"search <text>             find recipes by name, tag or ingredient",
		"metric | imperial         show the open recipe in that system",
		"original                  show quantities as written",
		"toggle | t                flip between written and converted",
		"detect                    which system the recipe is written in",
		"convert 2 cups to metric  convert a single measurement",
		"read                      read the ingredients aloud",
		"quit                      exit",
	} {
		a.ui.PrintLine(line)
	}
}

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.engine.ListRecipes(ctx)
	if err != nil {
		a.notifyErr(ctx, "loading recipes", err)
		return
	}
	a.printListing(recipes, "Available recipes:")
}

func (a *cliApp) search(ctx context.Context, query string) {
	recipes, err := a.engine.SearchRecipes(ctx, query)
	if err != nil {
		a.notifyErr(ctx, "searching", err)
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintHint(fmt.Sprintf("No recipes match %q.", query))
		return
	}
	a.printListing(recipes, fmt.Sprintf("Recipes matching %q:", query))
}

func (a *cliApp) printListing(recipes []domain.RecipeSummary, heading string) {
	a.mu.Lock()
	a.listing = recipes
	a.mu.Unlock()

	a.ui.PrintHeading(heading)
	for i, r := range recipes {
		a.ui.PrintLine(fmt.Sprintf("[%d] %s", i+1, r.Name))
		if r.Description != "" {
			a.ui.PrintHint(r.Description)
		}
		if len(r.Tags) > 0 {
			a.ui.PrintHint("Tags: " + strings.Join(r.Tags, ", "))
		}
	}
	a.ui.Println("")
	a.ui.PrintChat("Pick a recipe by number, or type 'help' for commands.")
}

// resolve maps a listing number or a recipe ID to a recipe ID.
func (a *cliApp) resolve(payload string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n, err := strconv.Atoi(payload); err == nil {
		if n >= 1 && n <= len(a.listing) {
			return a.listing[n-1].ID
		}
		return ""
	}
	return payload
}

func (a *cliApp) selectRecipe(ctx context.Context, payload string) {
	a.mu.Lock()
	empty := len(a.listing) == 0
	a.mu.Unlock()
	if empty {
		if recipes, err := a.engine.ListRecipes(ctx); err == nil {
			a.mu.Lock()
			a.listing = recipes
			a.mu.Unlock()
		}
	}

	id := a.resolve(payload)
	if id == "" {
		a.ui.PrintHint(fmt.Sprintf("No recipe %q. Type 'list' to see them.", payload))
		return
	}

	a.closeView(ctx)
	session, err := a.engine.Open(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintHint(fmt.Sprintf("No recipe %q. Type 'list' to see them.", payload))
			return
		}
		a.notifyErr(ctx, "opening recipe", err)
		return
	}
	a.mu.Lock()
	a.sessionID = session.ID
	a.mu.Unlock()

	if a.defaultMode != domain.ModeOriginal {
		if _, err := a.engine.SetMode(ctx, session.ID, a.defaultMode); err != nil {
			a.notifyErr(ctx, "setting mode", err)
		}
	}
	a.showView(ctx)
}

func (a *cliApp) currentSession() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

func (a *cliApp) setMode(ctx context.Context, mode domain.DisplayMode) {
	id := a.currentSession()
	if id == "" {
		a.ui.PrintHint("Pick a recipe first.")
		return
	}
	if _, err := a.engine.SetMode(ctx, id, mode); err != nil {
		a.notifyErr(ctx, "changing mode", err)
		return
	}
	a.showView(ctx)
}

func (a *cliApp) toggle(ctx context.Context) {
	id := a.currentSession()
	if id == "" {
		a.ui.PrintHint("Pick a recipe first.")
		return
	}
	if _, err := a.engine.Toggle(ctx, id); err != nil {
		a.notifyErr(ctx, "toggling", err)
		return
	}
	a.showView(ctx)
}

func (a *cliApp) showView(ctx context.Context) {
	view, err := a.engine.Render(ctx, a.currentSession())
	if err != nil {
		a.notifyErr(ctx, "rendering recipe", err)
		return
	}

	a.ui.PrintHeading(fmt.Sprintf("=== %s ===", view.Recipe.Name))
	if view.Recipe.Description != "" {
		a.ui.PrintLine(view.Recipe.Description)
	}
	a.ui.PrintHint(fmt.Sprintf("Written in %s, showing %s. Servings: %d",
		view.Detected, view.Mode, view.Recipe.Servings))
	a.ui.Println("")
	for _, line := range viewer.Lines(view) {
		a.ui.PrintLine("- " + line)
	}
	a.ui.PrintHint(fmt.Sprintf("Steps: %d", len(view.Recipe.Steps)))
}

func (a *cliApp) convert(payload string) {
	req, err := conversation.ParseConvert(payload)
	if err != nil {
		a.ui.PrintHint(err.Error())
		return
	}
	res := units.Convert(req.Measurement, req.Target)
	from := formatMeasurement(req.Measurement)
	to := formatMeasurement(res.Measurement)

	switch res.Outcome {
	case units.OutcomeConverted:
		a.ui.PrintChat(fmt.Sprintf("%s is %s.", from, to))
	case units.OutcomeSameSystem:
		a.ui.PrintChat(fmt.Sprintf("%s is already %s.", to, req.Target))
	case units.OutcomeCount:
		a.ui.PrintChat(fmt.Sprintf("%s is a count, nothing to convert.", to))
	default:
		a.ui.PrintChat(fmt.Sprintf("I don't know how to convert %q; kept as %s.", req.Measurement.Unit, to))
	}
}

func (a *cliApp) detect(ctx context.Context) {
	id := a.currentSession()
	if id == "" {
		a.ui.PrintHint("Pick a recipe first.")
		return
	}
	view, err := a.engine.Render(ctx, id)
	if err != nil {
		a.notifyErr(ctx, "detecting", err)
		return
	}
	us := make([]string, len(view.Recipe.Ingredients))
	for i, ing := range view.Recipe.Ingredients {
		us[i] = ing.Unit
	}
	imperial, metric := units.Tally(us)
	a.ui.PrintChat(fmt.Sprintf("%s is written in %s (%d imperial, %d metric units).",
		view.Recipe.Name, view.Detected, imperial, metric))
}

func (a *cliApp) read(ctx context.Context) {
	id := a.currentSession()
	if id == "" {
		a.ui.PrintHint("Pick a recipe first.")
		return
	}
	view, err := a.engine.Render(ctx, id)
	if err != nil {
		a.notifyErr(ctx, "rendering recipe", err)
		return
	}
	lines := viewer.Lines(view)

	go func() {
		if err := a.reader.Read(ctx, lines); err != nil {
			if errors.Is(err, domain.ErrNotImplemented) {
				a.ui.PrintHint("Speech is off. Set speech.key and speech.region to enable it.")
				return
			}
			if !errors.Is(err, context.Canceled) {
				a.notifyErr(ctx, "reading aloud", err)
			}
		}
	}()
}

func (a *cliApp) closeView(ctx context.Context) {
	a.mu.Lock()
	id := a.sessionID
	a.sessionID = ""
	a.mu.Unlock()

	if id == "" {
		return
	}
	if err := a.engine.Close(ctx, id); err != nil && !errors.Is(err, domain.ErrSessionClosed) {
		a.log.Error("closing view %s: %v", id, err)
	}
}

func (a *cliApp) notifyErr(ctx context.Context, what string, err error) {
	if errors.Is(err, domain.ErrSessionClosed) {
		a.mu.Lock()
		a.sessionID = ""
		a.mu.Unlock()
		a.ui.PrintHint("That view was closed. Pick a recipe again.")
		return
	}
	a.log.Error("%s: %v", what, err)
	_ = a.notifier.NotifyUrgent(ctx, fmt.Sprintf("Error %s: %v", what, err))
}
