package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terminator2-agent/sitekit/internal/config"
)

func TestInitFlags(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	tests := []struct {
		name, shorthand, def string
	}{
		{name: "output", shorthand: "o", def: config.DefaultConfigFile},
		{name: "force", shorthand: "f", def: "false"},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Errorf("--%s is not defined", tt.name)
			continue
		}
		if flag.Shorthand != tt.shorthand || flag.DefValue != tt.def {
			t.Errorf("--%s = -%s default %q, want -%s default %q",
				tt.name, flag.Shorthand, flag.DefValue, tt.shorthand, tt.def)
		}
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "a", "b", ".sitekit")

		out, _, err := executeCommand(t, "", "init", "-o", path)
		if err != nil {
			t.Fatalf("init: %v", err)
		}
		if out != "wrote "+path+"\n" {
			t.Errorf("output = %q", out)
		}
		got, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, starterConfig) {
			t.Error("file does not match the embedded template")
		}
	})

	t.Run("keeps an existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".sitekit")
		if err := os.WriteFile(path, []byte("mine"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, _, err := executeCommand(t, "", "init", "-o", path)
		if !errors.Is(err, errConfigExists) {
			t.Fatalf("err = %v, want errConfigExists", err)
		}
		if got, _ := os.ReadFile(path); string(got) != "mine" { //nolint:gosec // test file
			t.Errorf("file was changed to %q", got)
		}
	})

	t.Run("force replaces an existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".sitekit")
		if err := os.WriteFile(path, []byte("mine"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := executeCommand(t, "", "init", "-o", path, "-f"); err != nil {
			t.Fatalf("init -f: %v", err)
		}
		if got, _ := os.ReadFile(path); !bytes.Equal(got, starterConfig) { //nolint:gosec // test file
			t.Error("file was not replaced")
		}
	})

	t.Run("template mentions every section", func(t *testing.T) {
		t.Parallel()
		for _, key := range []string{"baseURL:", "feed:", "portfolio:"} {
			if !strings.Contains(string(starterConfig), key) {
				t.Errorf("template is missing %q", key)
			}
		}
	})
}

// The generated file must load into a valid configuration.
func TestConfigTemplateIsValid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".sitekit")
	if _, _, err := executeCommand(t, "", "init", "-o", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	cfg := config.NewConfig()
	if err := file.Apply(cfg); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.Portfolio.StartingEquity != 1000 {
		t.Errorf("StartingEquity = %v, want 1000", cfg.Portfolio.StartingEquity)
	}
}
