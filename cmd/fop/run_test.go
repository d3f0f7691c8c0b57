package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopconfig"
)

func TestBuildSinkRejectsBothFlags(t *testing.T) {
	c := newTestContext(t, runOnlyFlags(), map[string]string{"sink-fs": "/tmp/a", "sink-s3": "bucket/x"})
	if _, err := buildSink(c, fopconfig.Config{}); err == nil {
		t.Fatal("expected an error when both --sink-fs and --sink-s3 are set")
	}
}

func TestBuildSinkNoneConfigured(t *testing.T) {
	c := newTestContext(t, runOnlyFlags(), nil)
	s, err := buildSink(c, fopconfig.Config{})
	if err != nil {
		t.Fatalf("buildSink: %v", err)
	}
	if s != nil {
		t.Fatal("expected a nil sink when nothing is configured")
	}
}

func TestBuildSinkFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	c := newTestContext(t, runOnlyFlags(), map[string]string{"sink-fs": dir})
	s, err := buildSink(c, fopconfig.Config{})
	if err != nil {
		t.Fatalf("buildSink: %v", err)
	}
	if s == nil {
		t.Fatal("expected a non-nil FSSink")
	}
}

func TestRenderResultsUnknownFormat(t *testing.T) {
	c := newTestContext(t, runOnlyFlags(), map[string]string{"format": "xml"})
	c.App.Writer = &bytes.Buffer{}
	if err := renderResults(c, nil); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestRenderResultsText(t *testing.T) {
	var buf bytes.Buffer
	c := newTestContext(t, runOnlyFlags(), nil)
	c.App.Writer = &buf

	filename := "a.txt"
	results := []fop.Fop{
		{FileOrPattern: "a.txt", Filename: &filename, Content: &fop.Content{IsText: true, Text: "hello"}},
		{FileOrPattern: "missing.txt", Err: fop.NewStageError("ReadContent", fop.ErrIO, "open failed", nil)},
	}

	if err := renderResults(c, results); err != nil {
		t.Fatalf("renderResults: %v", err)
	}

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("OK\ta.txt\t5 bytes")) {
		t.Errorf("expected OK line for a.txt, got %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("ERROR\tmissing.txt\tio: open failed")) {
		t.Errorf("expected ERROR line for missing.txt, got %q", out)
	}
}

func TestRenderResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	c := newTestContext(t, runOnlyFlags(), map[string]string{"format": "json"})
	c.App.Writer = &buf

	results := []fop.Fop{{FileOrPattern: "a.txt"}}
	if err := renderResults(c, results); err != nil {
		t.Fatalf("renderResults: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"file_or_pattern": "a.txt"`)) {
		t.Errorf("expected JSON output to contain file_or_pattern, got %q", buf.String())
	}
}
