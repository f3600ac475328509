package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	origVersion := Version
	origGitCommit := GitCommit
	origBuildDate := BuildDate
	defer func() {
		Version = origVersion
		GitCommit = origGitCommit
		BuildDate = origBuildDate
	}()

	Version = "0.1.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-11-20"

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	for _, want := range []string{"Meter 0.1.0-test", "Git Commit: abc123", "Build Date: 2025-11-20", runtime.Version()} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"query": false, "serve": false, "pricing": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-c", writeConfig(t, "http://localhost:1/v1"))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, want := range []string{"✓ Configuration valid", "✓ Pricing table loaded", "✓ openai: default model gpt-4o", "✓ local:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("providers:\n  foo: {}\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := execute(t, "validate", "-c", path); err == nil {
		t.Fatal("expected validation error for unsupported provider")
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !strings.Contains(out, "meter") {
		t.Error("bash completion should reference the meter command")
	}
}
