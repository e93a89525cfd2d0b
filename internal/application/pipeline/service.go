// Package pipeline orchestrates the full reconciliation flow: extract from a
// source, normalize, deduplicate, merge into the master dataset, persist,
// and record the run. It is the only layer that touches extractors, the
// dataset store, and the run history together; HTTP handlers and CLI
// commands call this service and nothing below it.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Hamaduzi123/ip/internal/domain/records"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/prometheus"
	"github.com/Hamaduzi123/ip/internal/infrastructure/statestore"
	"github.com/Hamaduzi123/ip/pkg/errors"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

// SourceAll selects every registered extractor.
const SourceAll = "all"

const topApplicantsLimit = 10

// DatasetStore persists the master dataset.
type DatasetStore interface {
	Load() ([]patent.Record, error)
	Save(dataset []patent.Record) error
	Export(path string, dataset []patent.Record) error
}

// RunRecorder keeps the run history.
type RunRecorder interface {
	RecordRun(source string, stats records.Stats, totalAfter int, elapsed time.Duration, runErr error) (statestore.Run, error)
	History(limit int) []statestore.Run
	Summary() statestore.Summary
}

// RunInput selects what to run.
type RunInput struct {
	// Source is a registered source name ("lens", "epo") or SourceAll.
	Source string `json:"source"`

	// DryRun computes the full merge but neither persists the dataset nor
	// records the run.
	DryRun bool `json:"dry_run"`
}

// SourceRun is the outcome of one source's pass.
type SourceRun struct {
	Source     string        `json:"source"`
	Stats      records.Stats `json:"stats"`
	TotalAfter int           `json:"total_after"`
	Elapsed    time.Duration `json:"elapsed"`
	DryRun     bool          `json:"dry_run,omitempty"`
}

// RunResult aggregates the passes of one Run call.
type RunResult struct {
	Runs         []SourceRun `json:"runs"`
	TotalPatents int         `json:"total_patents"`
}

// ApplicantCount is one entry of the top-applicants ranking.
type ApplicantCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DatasetSummary describes the master dataset and the run history.
type DatasetSummary struct {
	TotalPatents   int              `json:"total_patents"`
	WithTitle      int              `json:"with_title"`
	WithApplicants int              `json:"with_applicants"`
	WithInventors  int              `json:"with_inventors"`
	YearRange      string           `json:"year_range"`
	Sources        map[string]int   `json:"sources"`
	TopApplicants  []ApplicantCount `json:"top_applicants"`

	State statestore.Summary `json:"state"`
}

// Service is the pipeline application service.
type Service struct {
	extractors map[string]extract.Extractor
	store      DatasetStore
	state      RunRecorder
	merger     *records.MergeEngine
	metrics    *prometheus.Metrics
	logger     logging.Logger
	now        func() time.Time

	// The dataset is a whole file; two concurrent merges would race on it.
	mu sync.Mutex
}

// New builds the pipeline service. metrics may be nil when the caller runs
// without a metrics endpoint (the CLI does).
func New(store DatasetStore, state RunRecorder, merger *records.MergeEngine,
	metrics *prometheus.Metrics, logger logging.Logger, extractors ...extract.Extractor) *Service {

	byName := make(map[string]extract.Extractor, len(extractors))
	for _, ex := range extractors {
		byName[strings.ToLower(string(ex.Source()))] = ex
	}
	return &Service{
		extractors: byName,
		store:      store,
		state:      state,
		merger:     merger,
		metrics:    metrics,
		logger:     logger.Named("pipeline"),
		now:        time.Now,
	}
}

// Sources lists the registered source names in stable order.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.extractors))
	for name := range s.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the pipeline for the selected source(s). Each source is
// extracted, normalized, deduplicated, and merged in turn; the dataset is
// saved after every successful merge so a later source failing cannot lose
// an earlier source's records.
func (s *Service) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	sources, err := s.resolveSources(input.Source)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	result := &RunResult{}
	for _, name := range sources {
		run, merged, err := s.runSource(ctx, name, dataset, input.DryRun)
		if err != nil {
			return result, err
		}
		dataset = merged
		result.Runs = append(result.Runs, run)
	}
	result.TotalPatents = len(dataset)
	return result, nil
}

func (s *Service) resolveSources(selector string) ([]string, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" || selector == SourceAll {
		return s.Sources(), nil
	}
	if _, ok := s.extractors[selector]; !ok {
		return nil, errors.Newf(errors.ErrCodeBadRequest, "unknown source %q", selector)
	}
	return []string{selector}, nil
}

// runSource runs one source against the given dataset and returns the
// updated dataset. The run is recorded (and counted in metrics) even when
// it fails, so the history shows what happened.
func (s *Service) runSource(ctx context.Context, name string, dataset []patent.Record, dryRun bool) (SourceRun, []patent.Record, error) {
	logger := s.logger.With(logging.String("source", name))
	started := s.now()

	batch, err := s.extractors[name].Extract(ctx)
	if err != nil {
		logger.Error("extraction failed", logging.Err(err))
		s.finishRun(name, records.Stats{}, len(dataset), s.now().Sub(started), dryRun, err)
		return SourceRun{}, dataset, err
	}
	logger.Info("extracted records", logging.Int("count", len(batch)))

	normalized, stats := s.merger.Normalizer().NormalizeBatch(batch)
	deduped, removed := records.Deduplicate(normalized)
	stats.DuplicatesRemoved += removed

	merge := s.merger.Merge(deduped, dataset)
	stats.NewAdded = merge.NewCount
	stats.NamesStandardized += merge.NamesStandardized
	// Records that survived cleaning but were already in the dataset.
	stats.DuplicatesRemoved += len(deduped) - merge.NewCount

	if !dryRun {
		if err := s.store.Save(merge.Merged); err != nil {
			logger.Error("persisting merged dataset failed", logging.Err(err))
			s.finishRun(name, stats, len(dataset), s.now().Sub(started), dryRun, err)
			return SourceRun{}, dataset, err
		}
	}

	elapsed := s.now().Sub(started)
	s.finishRun(name, stats, len(merge.Merged), elapsed, dryRun, nil)

	logger.Info("source run complete",
		logging.Int("new", stats.NewAdded),
		logging.Int("duplicates", stats.DuplicatesRemoved),
		logging.Int("total", len(merge.Merged)),
		logging.Duration("elapsed", elapsed),
		logging.Bool("dry_run", dryRun))

	return SourceRun{
		Source:     name,
		Stats:      stats,
		TotalAfter: len(merge.Merged),
		Elapsed:    elapsed,
		DryRun:     dryRun,
	}, merge.Merged, nil
}

// finishRun records the run and updates metrics. Dry runs touch neither.
func (s *Service) finishRun(name string, stats records.Stats, totalAfter int, elapsed time.Duration, dryRun bool, runErr error) {
	if dryRun {
		return
	}
	if _, err := s.state.RecordRun(name, stats, totalAfter, elapsed, runErr); err != nil {
		s.logger.Warn("recording run history failed", logging.Err(err))
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(name, stats, totalAfter, elapsed, runErr)
	}
}

// Summary loads the dataset and computes its summary together with the run
// history totals.
func (s *Service) Summary(ctx context.Context) (*DatasetSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	summary := summarize(dataset)
	summary.State = s.state.Summary()
	return summary, nil
}

// Export writes the dataset to path without the internal bookkeeping
// columns. It returns the number of exported records.
func (s *Service) Export(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, err := s.store.Load()
	if err != nil {
		return 0, err
	}
	if err := s.store.Export(path, dataset); err != nil {
		return 0, err
	}
	return len(dataset), nil
}

// History returns the most recent runs, newest first.
func (s *Service) History(ctx context.Context, limit int) []statestore.Run {
	return s.state.History(limit)
}

func summarize(dataset []patent.Record) *DatasetSummary {
	summary := &DatasetSummary{
		TotalPatents: len(dataset),
		Sources:      make(map[string]int),
	}

	minYear, maxYear := "", ""
	applicantCounts := make(map[string]int)

	for i := range dataset {
		rec := &dataset[i]
		if rec.Title != "" {
			summary.WithTitle++
		}
		if rec.Applicants != "" {
			summary.WithApplicants++
		}
		if rec.Inventors != "" {
			summary.WithInventors++
		}
		if rec.Source != "" {
			summary.Sources[string(rec.Source)]++
		}
		if rec.PatentYear != "" {
			if minYear == "" || rec.PatentYear < minYear {
				minYear = rec.PatentYear
			}
			if rec.PatentYear > maxYear {
				maxYear = rec.PatentYear
			}
		}
		for _, name := range patent.SplitNames(rec.Applicants) {
			applicantCounts[name]++
		}
	}

	if minYear != "" {
		summary.YearRange = minYear + " - " + maxYear
	}
	summary.TopApplicants = topApplicants(applicantCounts, topApplicantsLimit)
	return summary
}

// topApplicants ranks by count descending, name ascending on ties, so the
// output is stable across runs.
func topApplicants(counts map[string]int, limit int) []ApplicantCount {
	ranked := make([]ApplicantCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, ApplicantCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
