package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootShowsHelpWithoutSubcommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Usage:") {
		t.Fatalf("expected help output, got %q", output)
	}
	if !strings.Contains(output, "run") || !strings.Contains(output, "migrate") {
		t.Fatalf("expected subcommands listed in help, got %q", output)
	}
}

func TestRootRejectsUnknownFlags(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--unknown-flag", "value"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestSetVersionInfoFormatsVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-02")

	if rootCmd.Version != "1.2.3 (commit: abc123, built: 2026-01-02)" {
		t.Fatalf("unexpected version string %q", rootCmd.Version)
	}
}
