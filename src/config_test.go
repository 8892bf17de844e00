package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toruslife/src/universe"
)

func TestLoadEnvOptions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "life.json")
	if err := os.WriteFile(file, []byte(`{"engine": "parallel", "max_steps": 50, "seed": 9}`), 0o600); err != nil {
		t.Fatal(err)
	}
	eo, err := LoadEnvOptions(file)
	if err != nil {
		t.Fatal(err)
	}
	if eo.Engine != "parallel" || eo.MaxSteps != 50 || eo.Seed != 9 || eo.Interactive {
		t.Fatalf("loaded %+v", eo)
	}
}

func TestLoadEnvOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")
	if _, err := LoadEnvOptions(missing); err == nil || !strings.Contains(err.Error(), missing) {
		t.Fatalf("missing file error = %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"engine": `), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEnvOptions(broken); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("broken file error = %v", err)
	}
}

func TestOverlayPrefersFlags(t *testing.T) {
	def := DefaultEnvOptions()
	file := EnvOptions{Engine: "parallel", MaxSteps: 50, Seed: 9, RandomData: true}
	cli := def
	cli.MaxSteps = 7
	cli.Verbose = true

	eo := overlay(file, cli, def)
	if eo.MaxSteps != 7 || !eo.Verbose {
		t.Fatalf("flags lost: %+v", eo)
	}
	if eo.Engine != "parallel" || eo.Seed != 9 || !eo.RandomData {
		t.Fatalf("file values lost: %+v", eo)
	}
}

func TestHeadlessRunIsLimited(t *testing.T) {
	eo := DefaultEnvOptions()
	if got := eo.runMaxSteps(); got != universe.DefMaxSteps {
		t.Fatalf("default headless limit = %d, expected %d", got, universe.DefMaxSteps)
	}
	eo.MaxSteps = 0
	if got := eo.runMaxSteps(); got != 0 {
		t.Fatalf("explicit unlimited run got limit %d", got)
	}
	eo = DefaultEnvOptions()
	eo.Interactive = true
	if got := eo.runMaxSteps(); got != 0 {
		t.Fatalf("interactive run got limit %d", got)
	}
}

func TestTemplateOption(t *testing.T) {
	def := DefaultEnvOptions()
	if def.Template != universe.DefTemplate {
		t.Fatalf("default template = %q", def.Template)
	}
	cli := def
	cli.Template = "glider"
	if eo := overlay(EnvOptions{Template: "toad"}, cli, def); eo.Template != "glider" {
		t.Fatalf("template flag lost: %q", eo.Template)
	}
	if eo := overlay(EnvOptions{Template: "toad"}, def, def); eo.Template != "toad" {
		t.Fatalf("file template lost: %q", eo.Template)
	}
}
