package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintHelpers(t *testing.T) {
	buf := captureStdout(t)

	printSuccess("Loaded %s", "oceans")
	printStats(14, 13, "desktop")
	printFile("out/oceans.svg")
	printKeyValue("listening", "http://127.0.0.1:8080")

	out := buf.String()
	for _, want := range []string{
		iconSuccess + " Loaded oceans",
		"14 nodes", "13 links", "desktop",
		iconArrow, "out/oceans.svg",
		"listening", "http://127.0.0.1:8080",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBreadcrumb(t *testing.T) {
	labels, err := breadcrumb(oceans, "reefs")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(labels, "/"); got != "The Ocean/Marine Life/Coral Reefs" {
		t.Errorf("breadcrumb = %q", got)
	}
	if _, err := breadcrumb(oceans, "atlantis"); err == nil {
		t.Error("unknown id should fail")
	}

	buf := captureStdout(t)
	printBreadcrumb(labels)
	printBreadcrumb(nil)
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("printed %d lines, want 1", got)
	}
	if !strings.Contains(buf.String(), "The Ocean"+pathSep+"Marine Life") || !strings.Contains(buf.String(), "Coral Reefs") {
		t.Errorf("breadcrumb line = %q", buf.String())
	}
}
