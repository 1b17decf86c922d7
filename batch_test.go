package outline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/outline/config"
)

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFixture(t, dir, "a.yaml", introductionFixture),
		writeFixture(t, dir, "b.yaml", "pages: [unclosed"),
		writeFixture(t, dir, "c.yaml", introductionFixture),
	}

	report := newPipeline(t).Batch(context.Background(), paths)

	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if len(report.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(report.Items))
	}
	if report.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Failed)
	}
	for i, item := range report.Items {
		if item.Path != paths[i] {
			t.Errorf("Items[%d].Path = %q, want input order", i, item.Path)
		}
	}
	if report.Items[1].Err == nil || len(report.Items[1].Result.Outline) != 0 {
		t.Errorf("failed item = %+v, want an error and the empty result", report.Items[1])
	}
	if len(report.Items[2].Result.Outline) != 1 {
		t.Errorf("Items[2] outline = %+v, want one heading", report.Items[2].Result.Outline)
	}
	if report.Performance.Files != 3 {
		t.Errorf("Performance.Files = %d, want 3", report.Performance.Files)
	}
}

func TestBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.yaml", introductionFixture)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := newPipeline(t).Batch(ctx, []string{path, path})
	if len(report.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0 after cancellation", len(report.Items))
	}
}

func TestBatchSingleWorker(t *testing.T) {
	cfg := config.NewBuilder().Apply(func(c *config.Config) { c.Performance.MaxWorkers = 1 }).MustBuild()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml"} {
		paths = append(paths, writeFixture(t, dir, name, introductionFixture))
	}

	report := New(cfg, WithLogger(quietLogger())).Batch(context.Background(), paths)
	if len(report.Items) != 4 || report.Failed != 0 {
		t.Errorf("Items, Failed = %d, %d, want 4, 0", len(report.Items), report.Failed)
	}
}

func TestProcessDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "results")
	writeFixture(t, in, "intro.yaml", introductionFixture)
	writeFixture(t, in, "broken.json", "{")
	writeFixture(t, in, "notes.txt", "ignored")

	report, err := newPipeline(t).ProcessDir(context.Background(), in, out)
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2 supported files", len(report.Items))
	}

	data, err := os.ReadFile(filepath.Join(out, "intro.json"))
	if err != nil {
		t.Fatalf("reading intro.json: %v", err)
	}
	if !strings.Contains(string(data), `"text": "1. Introduction"`) {
		t.Errorf("intro.json = %s, want the introduction heading", data)
	}
	if strings.Contains(string(data), "_accuracy_metrics") {
		t.Error("intro.json should not contain metrics")
	}

	data, err = os.ReadFile(filepath.Join(out, "broken.json"))
	if err != nil {
		t.Fatalf("reading broken.json: %v", err)
	}
	if !strings.Contains(string(data), `"outline": []`) {
		t.Errorf("broken.json = %s, want the empty result", data)
	}
}

func TestSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "b.pdf", "")
	writeFixture(t, dir, "a.yml", "")
	writeFixture(t, dir, "c.docx", "")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := SupportedFiles(dir)
	if err != nil {
		t.Fatalf("SupportedFiles() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.pdf")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SupportedFiles() = %q, want %q", got, want)
	}
}
