package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFilePresent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.lat")
	cfg, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := Default()
	if *cfg != *want {
		t.Fatalf("expected defaults %#v, got %#v", want, cfg)
	}
}

func TestLoadMergesFileNextToSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.lat")
	toml := `
[paths]
llvm_as = "/opt/llvm/bin/llvm-as"

[output]
verbose = true
color = "never"
`
	if err := os.WriteFile(filepath.Join(dir, "lattec.toml"), []byte(toml), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	cfg, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Paths.LLVMAs != "/opt/llvm/bin/llvm-as" {
		t.Errorf("expected llvm_as override, got %q", cfg.Paths.LLVMAs)
	}
	if cfg.Paths.LLVMLink != "llvm-link" {
		t.Errorf("expected llvm_link to keep its default, got %q", cfg.Paths.LLVMLink)
	}
	if !cfg.Output.Verbose {
		t.Error("expected verbose to be true")
	}
	if cfg.Output.Color != ColorNever {
		t.Errorf("expected color never, got %q", cfg.Output.Color)
	}
}

func TestLoadRejectsInvalidColor(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.lat")
	toml := "[output]\ncolor = \"loud\"\n"
	if err := os.WriteFile(filepath.Join(dir, "lattec.toml"), []byte(toml), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}
	if _, err := Load(src); err == nil {
		t.Fatal("expected an error for an invalid color mode")
	}
}

func TestColorModeIsValid(t *testing.T) {
	for _, m := range []ColorMode{ColorAuto, ColorAlways, ColorNever} {
		if !m.IsValid() {
			t.Errorf("expected %q to be valid", m)
		}
	}
	if ColorMode("bogus").IsValid() {
		t.Error("expected an unrecognized mode to be invalid")
	}
}
