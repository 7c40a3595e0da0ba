package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// List
		{"list", domain.IntentListRecipes, ""},
		{"recipes", domain.IntentListRecipes, ""},

		// Selection
		{"1", domain.IntentSelectRecipe, "1"},
		{"12", domain.IntentSelectRecipe, "12"},
		{"select 2", domain.IntentSelectRecipe, "2"},
		{"open miso-soup", domain.IntentSelectRecipe, "miso-soup"},

		// Modes
		{"metric", domain.IntentShowMetric, ""},
		{"Imperial", domain.IntentShowImperial, ""},
		{"original", domain.IntentShowOriginal, ""},
		{"toggle", domain.IntentToggle, ""},
		{"t", domain.IntentToggle, ""},

		// Convert carries everything after the keyword.
		{"convert 1 cup to metric", domain.IntentConvert, "1 cup to metric"},
		{"c 250 g imperial", domain.IntentConvert, "250 g imperial"},

		// Misc
		{"detect", domain.IntentDetect, ""},
		{"read", domain.IntentRead, ""},
		{"search bread", domain.IntentSearch, "bread"},
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"quit", domain.IntentQuit, ""},
		{"q", domain.IntentQuit, ""},

		// Unknown
		{"", domain.IntentUnknown, ""},
		{"make me a sandwich", domain.IntentUnknown, "make me a sandwich"},
		{"123", domain.IntentUnknown, "123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Fatalf("input=%q: expected %s, got %s", tt.input, tt.wantType, intent.Type)
			}
			if intent.Payload != tt.wantPayload {
				t.Fatalf("input=%q: expected payload %q, got %q", tt.input, tt.wantPayload, intent.Payload)
			}
		})
	}
}

func TestParseConvert(t *testing.T) {
	tests := []struct {
		payload string
		amount  float64
		unit    string
		target  domain.MeasurementSystem
	}{
		{"1 cup to metric", 1, "cup", domain.SystemMetric},
		{"1 1/2 cups metric", 1.5, "cups", domain.SystemMetric},
		{"2 fl oz into metric", 2, "fl oz", domain.SystemMetric},
		{"250 g in imperial", 250, "g", domain.SystemImperial},
		{"3 smidgen imperial", 3, "smidgen", domain.SystemImperial},
		{"2 metric", 2, "", domain.SystemMetric},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			req, err := ParseConvert(tt.payload)
			if err != nil {
				t.Fatalf("ParseConvert(%q): %v", tt.payload, err)
			}
			if req.Measurement.Amount != tt.amount || req.Measurement.Unit != tt.unit || req.Target != tt.target {
				t.Fatalf("got %+v, want {%v %q} -> %s", req, tt.amount, tt.unit, tt.target)
			}
		})
	}
}

func TestParseConvertErrors(t *testing.T) {
	tests := []struct {
		payload string
		want    error
	}{
		{"cup to metric", domain.ErrInvalidAmount},
		{"1 cup to nautical", domain.ErrInvalidSystem},
		{"-1 cup metric", domain.ErrInvalidAmount},
		{"2 1 cup to metric", domain.ErrInvalidAmount},
		{"1 -1/2 cup to metric", domain.ErrInvalidAmount},
		{"metric", nil},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			_, err := ParseConvert(tt.payload)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
