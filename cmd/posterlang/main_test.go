package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()
	want := []string{
		"status", "images", "resolve", "observe", "enable", "disable",
		"cache", "history", "warm", "config",
	}
	found := make(map[string]bool)
	for _, cmd := range root.Commands() {
		found[cmd.Name()] = true
	}
	for _, name := range want {
		if !found[name] {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	root := newRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"config", "init", "--path", target})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	for _, section := range []string{"[tmdb]", "[selection]", "[jellyfin]", "[language_cache]"} {
		if !strings.Contains(string(data), section) {
			t.Errorf("sample config missing %s", section)
		}
	}

	// Second init without --overwrite must refuse.
	root = newRootCommand()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"config", "init", "--path", target})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for existing config file")
	}
}

func TestRenderTable(t *testing.T) {
	rendered := renderTable(
		[]string{"Key", "Language"},
		[][]string{{"movie_550", "en"}, {"tv_1396", "en"}},
		[]columnAlignment{alignLeft, alignLeft},
	)
	if !strings.Contains(rendered, "movie_550") || !strings.Contains(rendered, "tv_1396") {
		t.Fatalf("table missing rows:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Key") {
		t.Fatalf("table missing header:\n%s", rendered)
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Daemon", statusOK, "pid 42", false)
	if !strings.Contains(line, "Daemon:") || !strings.Contains(line, "[OK] pid 42") {
		t.Fatalf("line = %q", line)
	}

	colored := renderStatusLine("Daemon", statusError, "stopped", true)
	if !strings.Contains(colored, ansiRed) || !strings.Contains(colored, ansiReset) {
		t.Fatalf("colored line = %q", colored)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("yesNo mapping broken")
	}
}
