package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ottomeasure.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func testGlobals(t *testing.T, cfg string) (*Globals, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return &Globals{Config: writeConfig(t, cfg), Quiet: true, out: &buf}, &buf
}

const memoryConfig = `
log:
  level: "off"
storage:
  driver: memory
`

func TestConvertCmd(t *testing.T) {
	tests := []struct {
		name   string
		cmd    ConvertCmd
		want   string
		wantOK bool
	}{
		{"cup to metric", ConvertCmd{Amount: "1", Unit: []string{"cup"}, To: "metric"}, "237 ml\n", true},
		{"mixed number", ConvertCmd{Amount: "1 1/2", Unit: []string{"cups"}, To: "metric"}, "355 ml\n", true},
		{"two word unit", ConvertCmd{Amount: "2", Unit: []string{"fl", "oz"}, To: "metric"}, "59 ml\n", true},
		{"grams to imperial", ConvertCmd{Amount: "500", Unit: []string{"g"}, To: "imperial"}, "1.1 lb\n", true},
		{"same system", ConvertCmd{Amount: "250", Unit: []string{"g"}, To: "metric"}, "250 g\n", true},
		{"unknown unit", ConvertCmd{Amount: "1.5", Unit: []string{"smidgen"}, To: "metric"}, "1.5 smidgen\n(unknown: unit kept as given)\n", true},
		{"bad amount", ConvertCmd{Amount: "lots", Unit: []string{"cup"}, To: "metric"}, "", false},
		{"bad target", ConvertCmd{Amount: "1", Unit: []string{"cup"}, To: "kelvin"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, out := testGlobals(t, memoryConfig)
			err := tt.cmd.Run(g)
			if tt.wantOK && err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !tt.wantOK {
				if err == nil {
					t.Fatalf("expected error, got output %q", out.String())
				}
				return
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestShowCmd(t *testing.T) {
	g, out := testGlobals(t, memoryConfig)

	cmd := ShowCmd{ID: "chicken-alfredo", Mode: "metric"}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Chicken Alfredo\n",
		"written in imperial, showing metric",
		"  - 237 ml creme fraiche\n",
		"  - 250 grams spaghetti\n",
		"  1. ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestShowCmd_DefaultModeFromConfig(t *testing.T) {
	g, out := testGlobals(t, memoryConfig+"display:\n  mode: imperial\n")

	cmd := ShowCmd{ID: "chicken-alfredo"}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "showing imperial") {
		t.Errorf("expected imperial mode from config, got:\n%s", out.String())
	}
}

func TestShowCmd_Errors(t *testing.T) {
	g, _ := testGlobals(t, memoryConfig)

	if err := (&ShowCmd{ID: "nope"}).Run(g); err == nil {
		t.Error("expected error for unknown recipe")
	}
	if err := (&ShowCmd{ID: "chicken-alfredo", Mode: "kelvin"}).Run(g); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestDetectCmd(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"chicken-alfredo", "Chicken Alfredo: imperial"},
		{"country-loaf", ": metric"},
		{"miso-soup", ": imperial"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			g, out := testGlobals(t, memoryConfig)
			if err := (&DetectCmd{ID: tt.id}).Run(g); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.want)
			}
		})
	}
}

const pancakesYAML = `
name: Pancakes
description: Fluffy breakfast pancakes.
servings: 4
ingredients:
  - name: flour
    amount: "1 1/2"
    unit: cups
  - name: milk
    amount: "1 1/4"
    unit: cups
  - name: egg
    amount: "1"
    unit: whole
steps:
  - Whisk everything together.
  - Cook on a hot griddle.
`

func TestImportThenShow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "recipes.db")
	recipeFile := filepath.Join(dir, "pancakes.yaml")
	if err := os.WriteFile(recipeFile, []byte(pancakesYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := "log:\n  level: \"off\"\nstorage:\n  driver: sqlite\n  path: " + db + "\n"

	g, out := testGlobals(t, cfg)
	if err := (&ImportCmd{File: recipeFile}).Run(g); err != nil {
		t.Fatalf("import: %v", err)
	}
	m := regexp.MustCompile(`imported Pancakes as (\S+) \(3 ingredients, detected imperial\)`).FindStringSubmatch(out.String())
	if m == nil {
		t.Fatalf("unexpected import output %q", out.String())
	}

	g, out = testGlobals(t, cfg)
	if err := (&ShowCmd{ID: m[1], Mode: "metric"}).Run(g); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "  - 355 ml flour\n") {
		t.Errorf("show output:\n%s", out.String())
	}
}

func TestCheckCmd(t *testing.T) {
	g, out := testGlobals(t, memoryConfig)
	if err := (&CheckCmd{}).Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "conversion tables complete") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	if err := (&VersionCmd{}).Run(&Globals{out: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ottomeasure "+version+"\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	g, _ := testGlobals(t, "storage:\n  driver: postgres\n")
	if _, err := g.bootstrap(false); err == nil {
		t.Fatal("expected validation error")
	}
}
