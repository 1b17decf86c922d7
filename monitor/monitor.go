// Package monitor measures how long extraction takes and how much heap it
// uses, and reports compliance with the configured limits. It only
// observes: nothing is aborted when a limit is exceeded.
package monitor

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/tsawler/outline/config"
)

// Report is the measurement of one monitored run.
type Report struct {
	Elapsed    time.Duration `json:"elapsed"`
	Files      int           `json:"files"`
	AvgPerFile time.Duration `json:"avg_per_file"`
	HeapMB     float64       `json:"heap_mb"`
	PeakHeapMB float64       `json:"peak_heap_mb"`
	Goroutines int           `json:"goroutines"`
	Violations []string      `json:"violations,omitempty"`
}

// Compliant reports whether the run stayed within every limit.
func (r Report) Compliant() bool {
	return len(r.Violations) == 0
}

// SampleInterval is how often a running span samples the heap.
const SampleInterval = 50 * time.Millisecond

// Monitor records reports. It is safe for concurrent use.
type Monitor struct {
	cfg    config.Performance
	logger *slog.Logger
	now    func() time.Time
	every  time.Duration

	mu      sync.Mutex
	history []Report
}

// New creates a monitor for the given limits. A nil logger uses
// slog.Default().
func New(cfg config.Performance, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{cfg: cfg, logger: logger, now: time.Now, every: SampleInterval}
}

// Span is a run in progress. A background sampler tracks the peak heap
// until Stop.
type Span struct {
	m     *Monitor
	start time.Time
	files int

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	mu   sync.Mutex
	peak float64
}

// Start begins measuring a run over files documents. It returns nil when
// monitoring is disabled; a nil Span is safe to stop.
func (m *Monitor) Start(files int) *Span {
	if m == nil || !m.cfg.MonitorEnabled {
		return nil
	}
	s := &Span{m: m, start: m.now(), files: files, peak: HeapMB(), done: make(chan struct{})}
	if m.every > 0 {
		s.wg.Add(1)
		go s.sample(m.every)
	}
	return s
}

func (s *Span) sample(every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.observe(HeapMB())
		}
	}
}

// observe records a heap sample in megabytes.
func (s *Span) observe(heapMB float64) {
	s.mu.Lock()
	s.peak = max(s.peak, heapMB)
	s.mu.Unlock()
}

func (s *Span) peakMB() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// Stop ends the run, checks it against the limits, logs the outcome and
// records the report.
func (s *Span) Stop() Report {
	if s == nil {
		return Report{}
	}
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	heap := HeapMB()
	s.observe(heap)
	r := Report{
		Elapsed:    s.m.now().Sub(s.start),
		Files:      s.files,
		HeapMB:     heap,
		PeakHeapMB: s.peakMB(),
		Goroutines: runtime.NumGoroutine(),
	}
	r.AvgPerFile = r.Elapsed / time.Duration(max(1, s.files))
	r.Violations = Check(s.m.cfg, r)

	if r.Compliant() {
		s.m.logger.Info("performance compliant",
			"elapsed", r.Elapsed, "files", r.Files, "heap_mb", fmt.Sprintf("%.1f", r.PeakHeapMB))
	} else {
		for _, v := range r.Violations {
			s.m.logger.Warn("performance limit exceeded", "violation", v)
		}
	}

	s.m.mu.Lock()
	s.m.history = append(s.m.history, r)
	s.m.mu.Unlock()
	return r
}

// Check returns one message per exceeded limit. Time is checked per file.
func Check(cfg config.Performance, r Report) []string {
	var out []string
	if cfg.TimeLimit > 0 && r.AvgPerFile > cfg.TimeLimit {
		out = append(out, fmt.Sprintf("processing time %s per file exceeds limit %s",
			r.AvgPerFile.Round(time.Millisecond), cfg.TimeLimit))
	}
	if cfg.MemoryLimitMB > 0 && r.PeakHeapMB > float64(cfg.MemoryLimitMB) {
		out = append(out, fmt.Sprintf("memory usage %.1fMB exceeds limit %dMB",
			r.PeakHeapMB, cfg.MemoryLimitMB))
	}
	return out
}

// Latest returns the most recent report.
func (m *Monitor) Latest() (Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return Report{}, false
	}
	return m.history[len(m.history)-1], true
}

// History returns a copy of every recorded report.
func (m *Monitor) History() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Report(nil), m.history...)
}

// HeapMB returns the bytes of allocated heap objects in megabytes.
func HeapMB() float64 {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return float64(mem.HeapAlloc) / 1024 / 1024
}
