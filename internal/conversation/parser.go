// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/recipe"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// keep carries the text after the keyword as the intent payload.
	keep bool
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(list|recipes|ls|browse)$`), domain.IntentListRecipes, false},
		{regexp.MustCompile(`(?i)^(metric|m|show metric)$`), domain.IntentShowMetric, false},
		{regexp.MustCompile(`(?i)^(imperial|i|us|show imperial)$`), domain.IntentShowImperial, false},
		{regexp.MustCompile(`(?i)^(original|o|as written|reset)$`), domain.IntentShowOriginal, false},
		{regexp.MustCompile(`(?i)^(toggle|t|switch|flip)$`), domain.IntentToggle, false},
		{regexp.MustCompile(`(?i)^(detect|system|which system)$`), domain.IntentDetect, false},
		{regexp.MustCompile(`(?i)^(read|say|speak|read aloud)$`), domain.IntentRead, false},
		{regexp.MustCompile(`(?i)^(quit|exit|stop|q)$`), domain.IntentQuit, false},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp, false},
		{regexp.MustCompile(`(?i)^(?:convert|conv|c)\s+(.+)$`), domain.IntentConvert, true},
		{regexp.MustCompile(`(?i)^(?:select|pick|open)\s+(.+)$`), domain.IntentSelectRecipe, true},
		{regexp.MustCompile(`(?i)^(?:search|find)\s+(.+)$`), domain.IntentSearch, true},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Recipe selection by number (e.g., "1", "2", "3").
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentSelectRecipe, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		if rule.keep {
			return &domain.Intent{Type: rule.intent, Payload: strings.TrimSpace(m[1])}, nil
		}
		return &domain.Intent{Type: rule.intent}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// ConvertRequest is a parsed "convert" payload.
type ConvertRequest struct {
	Measurement domain.Measurement
	Target      domain.MeasurementSystem
}

// ParseConvert reads payloads such as "1 1/2 cups to metric" or
// "250 g imperial". Leading numeric words form the amount, the last word
// names the target system, and everything between (minus a connecting
// "to", "in" or "into") is the unit.
func ParseConvert(payload string) (ConvertRequest, error) {
	words := strings.Fields(payload)
	if len(words) < 2 {
		return ConvertRequest{}, fmt.Errorf("usage: convert <amount> <unit> to <metric|imperial>")
	}

	target, err := domain.ParseSystem(words[len(words)-1])
	if err != nil {
		return ConvertRequest{}, fmt.Errorf("%w: %q", err, words[len(words)-1])
	}
	words = words[:len(words)-1]
	if n := len(words); n > 0 {
		switch strings.ToLower(words[n-1]) {
		case "to", "in", "into":
			words = words[:n-1]
		}
	}

	i := 0
	for i < len(words) && isNumeric(words[i]) {
		i++
	}
	if i == 0 {
		return ConvertRequest{}, fmt.Errorf("%w: missing amount", domain.ErrInvalidAmount)
	}
	amount, err := recipe.ParseAmount(strings.Join(words[:i], " "))
	if err != nil {
		return ConvertRequest{}, err
	}

	return ConvertRequest{
		Measurement: domain.Measurement{Amount: amount, Unit: strings.Join(words[i:], " ")},
		Target:      target,
	}, nil
}

func isNumeric(word string) bool {
	_, err := recipe.ParseAmount(word)
	return err == nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
