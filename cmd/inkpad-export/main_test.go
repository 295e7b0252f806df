package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T) (dir, src string) {
	t.Helper()
	dir = t.TempDir()
	src = filepath.Join(dir, "doc.md")
	if err := os.WriteFile(src, []byte("# Doc\n\nbody text\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return dir, src
}

func TestExportCommandWritesArtifact(t *testing.T) {
	dir, src := writeSource(t)
	out := filepath.Join(dir, "custom.html")

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{src, "--format", "html", "--out", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !strings.Contains(stdout.String(), "Exported as HTML") {
		t.Errorf("stdout = %q, want status message", stdout.String())
	}
	artifact, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if !strings.Contains(string(artifact), "body text") {
		t.Error("artifact missing document content")
	}
}

func TestExportCommandDryRun(t *testing.T) {
	dir, src := writeSource(t)

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{src, "--format", "html", "--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("dry run printed %q, want nothing", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "doc.html")); !errors.Is(err, os.ErrNotExist) {
		t.Error("artifact written during dry run")
	}
}

func TestExportCommandUnknownFormat(t *testing.T) {
	_, src := writeSource(t)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{src, "--format", "xlsx"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("unknown format accepted")
	}
}
