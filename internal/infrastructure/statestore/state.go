// Package statestore records pipeline run history in a JSON state file, so
// operators can see what each harvest did without digging through logs.
package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hamaduzi123/ip/internal/domain/records"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/pkg/errors"
)

// maxRuns is how many runs the history keeps; older entries are discarded.
const maxRuns = 100

// Run is one recorded pipeline run.
type Run struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Source     string        `json:"source"`
	Stats      records.Stats `json:"stats"`
	TotalAfter int           `json:"total_after"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Error      string        `json:"error,omitempty"`
}

// state is the on-disk document.
type state struct {
	LastRun      *time.Time     `json:"last_run"`
	Runs         []Run          `json:"runs"`
	TotalPatents int            `json:"total_patents"`
	Sources      map[string]int `json:"sources"`
}

// Store persists run history at a fixed path. Safe for concurrent use within
// one process; the pipeline serializes merges, but HTTP reads can race a
// running merge.
type Store struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
	st     state
}

// New loads (or initializes) the state file at path. A corrupt or missing
// file starts fresh rather than blocking the pipeline; history is
// bookkeeping, not source of truth.
func New(path string, logger logging.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger.Named("statestore"),
		st:     state{Sources: map[string]int{}},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("state file corrupt, starting fresh",
			logging.String("path", path), logging.Err(err))
		return s
	}
	if st.Sources == nil {
		st.Sources = map[string]int{}
	}
	s.st = st
	return s
}

// RecordRun appends one run to the history and persists it. The run ID is
// returned so callers can reference the run in responses and logs.
func (s *Store) RecordRun(source string, stats records.Stats, totalAfter int, elapsed time.Duration, runErr error) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := Run{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Source:     source,
		Stats:      stats,
		TotalAfter: totalAfter,
		Elapsed:    elapsed,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	s.st.LastRun = &run.Timestamp
	s.st.Runs = append(s.st.Runs, run)
	if len(s.st.Runs) > maxRuns {
		s.st.Runs = s.st.Runs[len(s.st.Runs)-maxRuns:]
	}
	if runErr == nil {
		s.st.TotalPatents = totalAfter
		s.st.Sources[source] += stats.NewAdded
	}

	if err := s.save(); err != nil {
		return run, err
	}
	return run, nil
}

// History returns up to limit most-recent runs, newest first.
func (s *Store) History(limit int) []Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := s.st.Runs
	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	out := make([]Run, len(runs))
	for i := range runs {
		out[len(runs)-1-i] = runs[i]
	}
	return out
}

// LastRun returns the most recent run, or false when no run was recorded.
func (s *Store) LastRun() (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.st.Runs) == 0 {
		return Run{}, false
	}
	return s.st.Runs[len(s.st.Runs)-1], true
}

// Summary describes the accumulated pipeline state.
type Summary struct {
	LastRun      *time.Time     `json:"last_run"`
	TotalRuns    int            `json:"total_runs"`
	TotalPatents int            `json:"total_patents"`
	Sources      map[string]int `json:"sources"`
}

// Summary returns the overall pipeline summary.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sources := make(map[string]int, len(s.st.Sources))
	for k, v := range s.st.Sources {
		sources[k] = v
	}
	return Summary{
		LastRun:      s.st.LastRun,
		TotalRuns:    len(s.st.Runs),
		TotalPatents: s.st.TotalPatents,
		Sources:      sources,
	}
}

// ClearHistory drops all recorded runs but keeps the accumulated totals.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Runs = nil
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to create state directory for %q", s.path)
	}
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStateCorrupt, "failed to encode state")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to write state file %q", s.path)
	}
	return nil
}
