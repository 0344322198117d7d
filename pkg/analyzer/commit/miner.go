// Package commit mines a repository's history into a per-commit metrics
// timeline.
package commit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panbanda/thermometer/pkg/models"
	"github.com/sourcegraph/conc/pool"
)

// DefaultExtension is the source-file suffix analyzed when none is configured.
const DefaultExtension = ".py"

// ErrInvalidDate is returned by ParseBound for malformed date strings.
var ErrInvalidDate = errors.New("invalid date")

// Miner drives a HistoryReader and folds per-file metrics into commit records.
type Miner struct {
	history   HistoryReader
	analyzer  FileAnalyzer
	extension string
	workers   int
	progress  ProgressReporter
	logger    *slog.Logger
}

// ProgressReporter is notified once per commit read from history. Tick must be
// safe for concurrent use.
type ProgressReporter interface {
	Tick()
}

type noProgress struct{}

func (noProgress) Tick() {}

// Option is a functional option for configuring Miner.
type Option func(*Miner)

// WithExtension sets the recognized source-file suffix.
func WithExtension(ext string) Option {
	return func(m *Miner) {
		if ext != "" {
			m.extension = ext
		}
	}
}

// WithWorkers sets how many commits are measured concurrently. Values below 2
// keep processing sequential.
func WithWorkers(n int) Option {
	return func(m *Miner) {
		m.workers = n
	}
}

// WithProgress sets the reporter ticked for every commit.
func WithProgress(p ProgressReporter) Option {
	return func(m *Miner) {
		if p != nil {
			m.progress = p
		}
	}
}

// WithLogger sets the logger for skipped files and history failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Miner) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a miner reading history from history and measuring files with analyzer.
func New(history HistoryReader, analyzer FileAnalyzer, opts ...Option) *Miner {
	m := &Miner{
		history:   history,
		analyzer:  analyzer,
		extension: DefaultExtension,
		workers:   1,
		progress:  noProgress{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type minedCommit struct {
	seq     int
	metrics models.CommitMetrics
}

// Mine builds the timeline for locator. It never fails: when the history cannot
// be read the cause is logged and an empty timeline is returned.
func (m *Miner) Mine(ctx context.Context, locator string, since, until *time.Time) *Timeline {
	var (
		mu     sync.Mutex
		mined  []minedCommit
		seq    int
		worker *pool.Pool
	)

	collect := func(i int, record models.CommitRecord) {
		defer m.progress.Tick()
		metrics, ok := m.measureCommit(record)
		if !ok {
			m.logger.Debug("skipping commit without measurable files", "commit", models.ShortHash(record.ID))
			return
		}
		mu.Lock()
		mined = append(mined, minedCommit{seq: i, metrics: metrics})
		mu.Unlock()
	}

	if m.workers > 1 {
		worker = pool.New().WithMaxGoroutines(m.workers)
	}

	err := m.history.Traverse(ctx, locator, since, until, func(record models.CommitRecord) error {
		i := seq
		seq++
		if worker == nil {
			collect(i, record)
			return nil
		}
		worker.Go(func() { collect(i, record) })
		return nil
	})

	if worker != nil {
		worker.Wait()
	}

	if err != nil {
		m.logger.Error("failed to read repository history", "repo", locator, "error", err)
		return &Timeline{Commits: make([]models.CommitMetrics, 0)}
	}

	sort.SliceStable(mined, func(i, j int) bool {
		if mined[i].metrics.Date.Equal(mined[j].metrics.Date) {
			return mined[i].seq < mined[j].seq
		}
		return mined[i].metrics.Date.Before(mined[j].metrics.Date)
	})

	commits := make([]models.CommitMetrics, len(mined))
	for i, c := range mined {
		commits[i] = c.metrics
	}
	return &Timeline{Commits: commits}
}

// measureCommit folds every analyzable file of record. Files with another
// extension or without text are skipped silently; analysis failures are logged.
func (m *Miner) measureCommit(record models.CommitRecord) (models.CommitMetrics, bool) {
	acc := NewAccumulator(record)

	for _, file := range record.ModifiedFiles {
		if !strings.HasSuffix(file.Name, m.extension) || !file.HasText() {
			continue
		}

		fm, err := m.analyzer.Analyze([]byte(*file.Text), file.Name)
		if err != nil {
			m.logger.Warn("skipping file", "commit", models.ShortHash(record.ID), "file", file.Path, "error", err)
			continue
		}
		acc = acc.Add(fm)
	}

	return acc.Finalize()
}

// dateLayouts are the accepted ISO 8601 forms for date bounds.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseBound parses an optional ISO 8601 date. An empty string yields nil.
// Dates without a zone are interpreted in local time.
func ParseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (expected YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC 3339)", ErrInvalidDate, s)
}
