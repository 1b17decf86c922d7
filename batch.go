package outline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/outline/export"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/monitor"
	"github.com/tsawler/outline/source"
)

// BatchItem is the outcome of one document in a batch. Result is the empty
// result when Err is set.
type BatchItem struct {
	Path     string        `json:"path"`
	Result   model.Result  `json:"result"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// BatchReport summarises a batch run. Items are in input order; documents
// never dispatched because the context was cancelled are absent.
type BatchReport struct {
	RunID       string         `json:"run_id"`
	Items       []BatchItem    `json:"items"`
	Failed      int            `json:"failed"`
	Performance monitor.Report `json:"performance"`
}

type batchJob struct {
	index int
	path  string
}

// Batch extracts every path with a pool of Performance.MaxWorkers
// goroutines. A failing or panicking document yields the empty result and
// does not stop the batch. Cancelling ctx stops dispatching new documents;
// documents already running finish.
func (p *Pipeline) Batch(ctx context.Context, paths []string) BatchReport {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	workers := max(1, min(p.cfg.Performance.MaxWorkers, len(paths)))
	logger.Info("batch started", "documents", len(paths), "workers", workers)

	span := p.monitor.Start(len(paths))
	items := make([]BatchItem, len(paths))
	done := make([]bool, len(paths))
	jobs := make(chan batchJob)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				items[job.index] = p.runOne(ctx, job.path)
				done[job.index] = true
			}
		}()
	}

	for i, path := range paths {
		if !dispatch(ctx, jobs, batchJob{index: i, path: path}) {
			logger.Warn("batch cancelled", "dispatched", i, "remaining", len(paths)-i)
			break
		}
	}
	close(jobs)
	wg.Wait()

	report := BatchReport{RunID: runID}
	for i, item := range items {
		if !done[i] {
			continue
		}
		if item.Err != nil {
			report.Failed++
		}
		report.Items = append(report.Items, item)
	}
	report.Performance = span.Stop()
	logger.Info("batch finished", "documents", len(report.Items), "failed", report.Failed)
	return report
}

// dispatch hands job to a worker unless ctx is done first.
func dispatch(ctx context.Context, jobs chan<- batchJob, job batchJob) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case jobs <- job:
		return true
	}
}

// runOne extracts one document, converting errors and panics into the
// empty result.
func (p *Pipeline) runOne(ctx context.Context, path string) (item BatchItem) {
	start := time.Now()
	item.Path = path
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic during extraction", "path", path, "panic", r, "stack", string(debug.Stack()))
			item.Result = model.EmptyResult()
			item.Err = fmt.Errorf("panic: %v", r)
		}
		item.Duration = time.Since(start)
	}()

	// In-flight documents run to completion even if the batch is cancelled.
	result, err := p.Extract(context.WithoutCancel(ctx), path)
	if err != nil {
		p.logger.Error("extraction failed", "path", path, "error", err)
	} else {
		p.logger.Info("document processed", "path", path, "headings", len(result.Outline), "duration", time.Since(start))
	}
	item.Result = result
	item.Err = err
	return item
}

// ProcessDir extracts every supported document in inDir and writes
// <name>.json for each into outDir, creating it if needed. Failed
// documents are written with the empty result.
func (p *Pipeline) ProcessDir(ctx context.Context, inDir, outDir string) (BatchReport, error) {
	paths, err := SupportedFiles(inDir)
	if err != nil {
		return BatchReport{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchReport{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	report := p.Batch(ctx, paths)
	for _, item := range report.Items {
		if _, err := export.SaveJSON(outDir, export.BaseName(item.Path), item.Result); err != nil {
			return report, err
		}
	}
	return report, nil
}

// SupportedFiles lists the documents in dir the default opener can read,
// sorted by name.
func SupportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && source.IsSupported(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
