package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contentdef/internal/prompt"
	"github.com/goliatone/go-contentdef/pkg/config"
	"github.com/goliatone/go-contentdef/pkg/template"
)

func setup(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cfg = config.Default()
	logger = zap.NewNop()
	loadFormat, lintFormat = "json", "text"
	describeKey, describeFormat = "", "text"
	exportTitle, exportVersion = "Content templates", "1.0.0"
	watchDebounce = 20 * time.Millisecond

	prevPicker, prevInteractive := picker, interactive
	t.Cleanup(func() { picker, interactive = prevPicker, prevInteractive })
	interactive = func() bool { return false }

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestLoadCmd(t *testing.T) {
	cmd, out := setup(t)
	if err := runLoad(cmd, []string{"testdata/templates/overview.xml"}); err != nil {
		t.Fatalf("runLoad: %v", err)
	}
	var got template.Definition
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if got.Key != "overview" || len(got.Properties) != 2 {
		t.Fatalf("unexpected definition: %#v", got)
	}
	if diff := cmp.Diff("unbounded", got.Properties["images"].MaxOccurs); diff != "" {
		t.Fatalf("maxOccurs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCmdYAMLFromStdin(t *testing.T) {
	cmd, out := setup(t)
	raw, err := os.ReadFile("testdata/templates/default.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	cmd.SetIn(bytes.NewReader(raw))
	loadFormat = "yaml"
	if err := runLoad(cmd, []string{"-"}); err != nil {
		t.Fatalf("runLoad: %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got["key"] != "default" || got["cacheLifetime"] != "2400" {
		t.Fatalf("unexpected yaml output:\n%s", out.String())
	}
}

func TestLoadCmdInvalid(t *testing.T) {
	cmd, _ := setup(t)
	err := runLoad(cmd, []string{"testdata/invalid/duplicate_priority.xml"})
	if !errors.Is(err, template.ErrDuplicatePriority) {
		t.Fatalf("expected ErrDuplicatePriority, got %v", err)
	}
}

func TestLoadCmdUsesConfiguredRequiredTags(t *testing.T) {
	cmd, _ := setup(t)
	cfg.RequiredTags = []string{"sulu.rlp"}
	err := runLoad(cmd, []string{"testdata/templates/default.xml"})
	if !errors.Is(err, template.ErrMissingRequiredTag) {
		t.Fatalf("expected ErrMissingRequiredTag, got %v", err)
	}
}

func TestLintCmd(t *testing.T) {
	cmd, out := setup(t)
	err := runLint(cmd, []string{
		"testdata/templates/default.xml",
		"testdata/invalid/duplicate_priority.xml",
	})
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "ok   testdata/templates/default.xml (default)") {
		t.Fatalf("missing ok line:\n%s", text)
	}
	if !strings.Contains(text, "FAIL testdata/invalid/duplicate_priority.xml") {
		t.Fatalf("missing FAIL line:\n%s", text)
	}
	if !strings.Contains(text, "duplicate_priority") {
		t.Fatalf("missing issue code:\n%s", text)
	}
}

func TestLintCmdJSON(t *testing.T) {
	cmd, out := setup(t)
	lintFormat = "json"
	if err := runLint(cmd, []string{"testdata/templates/overview.xml"}); err != nil {
		t.Fatalf("runLint: %v", err)
	}
	var results []struct {
		Source string `json:"source"`
		Valid  bool   `json:"valid"`
		Key    string `json:"key"`
	}
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || !results[0].Valid || results[0].Key != "overview" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestDescribeCmdFile(t *testing.T) {
	cmd, out := setup(t)
	if err := runDescribe(cmd, []string{"testdata/templates/overview.xml"}); err != nil {
		t.Fatalf("runDescribe: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Template overview", "images [media_selection]", "param types = image"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestDescribeCmdDirectoryNeedsKey(t *testing.T) {
	cmd, _ := setup(t)
	err := runDescribe(cmd, []string{"testdata/templates"})
	if err == nil || !strings.Contains(err.Error(), "default, overview") {
		t.Fatalf("expected key hint, got %v", err)
	}
}

func TestDescribeCmdDirectoryWithKey(t *testing.T) {
	cmd, out := setup(t)
	describeKey = "default"
	describeFormat = "markdown"
	if err := runDescribe(cmd, []string{"testdata/templates"}); err != nil {
		t.Fatalf("runDescribe: %v", err)
	}
	if !strings.Contains(out.String(), "default") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	describeKey = "missing"
	if err := runDescribe(cmd, []string{"testdata/templates"}); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

type fakePicker struct {
	choice string
	seen   []string
}

func (f *fakePicker) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	f.seen = cfg.Options
	return prompt.IndexOf(cfg.Options, f.choice), nil
}

func TestDescribeCmdInteractive(t *testing.T) {
	cmd, out := setup(t)
	fake := &fakePicker{choice: "overview"}
	picker = fake
	interactive = func() bool { return true }

	if err := runDescribe(cmd, []string{"testdata/templates"}); err != nil {
		t.Fatalf("runDescribe: %v", err)
	}
	if diff := cmp.Diff([]string{"default", "overview"}, fake.seen); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Template overview") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestExportCmd(t *testing.T) {
	cmd, out := setup(t)
	if err := runExport(cmd, []string{"testdata/templates"}); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	var doc struct {
		OpenAPI    string `json:"openapi"`
		Components struct {
			Schemas map[string]struct {
				Type       any            `json:"type"`
				Required   []string       `json:"required"`
				Properties map[string]any `json:"properties"`
			} `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	overview, ok := doc.Components.Schemas["overview"]
	if !ok {
		t.Fatalf("overview schema missing: %s", out.String())
	}
	if diff := cmp.Diff([]string{"title"}, overview.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc.Components.Schemas["default"]; !ok {
		t.Fatalf("default schema missing")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCmd(t *testing.T) {
	cmd, _ := setup(t)
	dir := t.TempDir()
	raw, err := os.ReadFile("testdata/templates/default.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "default.xml"), raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := &syncBuffer{}
	cmd.SetOut(out)
	ctx, cancel := context.WithCancel(context.Background())
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- runWatch(cmd, []string{dir}) }()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "watching") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("watch did not start: %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runWatch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runWatch did not return after cancel")
	}
	if !strings.Contains(out.String(), "default") {
		t.Fatalf("expected initial keys in output: %q", out.String())
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if err := encode(&bytes.Buffer{}, "toml", struct{}{}); err == nil {
		t.Fatalf("expected error")
	}
}
