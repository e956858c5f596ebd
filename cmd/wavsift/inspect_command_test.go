package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"wavsift/internal/testsupport"
)

func TestInspectJSON(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	input := filepath.Join(base, "in")

	testsupport.WriteWAV(t, filepath.Join(input, "a.wav"), 44100, 1, framesFor(1000, 44100))
	testsupport.WriteFile(t, filepath.Join(input, "bad.wav"), 100)

	out, err := runCommand(t, "inspect", input, "--json", "-c", cfgPath)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}

	var entries []inspectEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}

	byPath := map[string]inspectEntry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}
	good, ok := byPath["a.wav"]
	if !ok || good.Status != "ok" || good.DurationMS != 1000 {
		t.Fatalf("good entry wrong: %+v", good)
	}
	bad, ok := byPath["bad.wav"]
	if !ok || bad.Status != "malformed" || bad.Error == "" {
		t.Fatalf("bad entry wrong: %+v", bad)
	}
}

func TestInspectTable(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	input := filepath.Join(base, "in")

	testsupport.WriteWAV(t, filepath.Join(input, "sub", "tone.wav"), 48000, 2, framesFor(250, 48000))

	out, err := runCommand(t, "inspect", input, "-c", cfgPath)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	if !strings.Contains(out, filepath.Join("sub", "tone.wav")) {
		t.Fatalf("table missing file row:\n%s", out)
	}
	if !strings.Contains(out, "250 ms") {
		t.Fatalf("table missing duration:\n%s", out)
	}
	if !strings.Contains(out, "1 WAV files") {
		t.Fatalf("table missing count:\n%s", out)
	}
}

func TestInspectMissingDirectory(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)

	if _, err := runCommand(t, "inspect", filepath.Join(base, "nope"), "-c", cfgPath); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
