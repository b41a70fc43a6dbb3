// Package dataset implements the scrape datasets: per-entity record
// building, sequential batch collection, and the merge policies that
// reconcile each fresh batch against its persisted history file.
package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/munistats/internal/fetch"
)

// Cadence describes how often a dataset is expected to change upstream.
type Cadence string

const (
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
	Annual  Cadence = "annual"
)

// RunOpts restricts a run to a subset of entities or years. Zero values mean
// the full defaults.
type RunOpts struct {
	IDs       []int // restrict to specific municipality ids (test mode)
	StartYear int   // millage only
	EndYear   int   // millage only
	Force     bool  // ignore ShouldRun scheduling
}

// Result holds the outcome of a dataset sync.
type Result struct {
	RowsCollected int   // records built from this run's fetches
	RowsWritten   int64 // rows in the merged file
}

// Dataset defines the interface each scrape dataset implements.
type Dataset interface {
	// Name returns the unique identifier for this dataset (e.g., "profiles").
	Name() string

	// File returns the dataset's CSV file name under the data directory.
	File() string

	// Cadence returns how often this dataset changes upstream.
	Cadence() Cadence

	// ShouldRun decides if this dataset needs syncing given the current
	// time and the time of the last successful run (nil if never run).
	ShouldRun(now time.Time, lastRun *time.Time) bool

	// Sync collects the fresh batch, merges it against the persisted file,
	// and writes the result back.
	Sync(ctx context.Context, client *fetch.Client, dataDir string, opts RunOpts) (*Result, error)
}

// weeklyDue reports whether now falls in a later snapshot week than the last
// successful run.
func weeklyDue(now time.Time, lastRun *time.Time) bool {
	if lastRun == nil {
		return true
	}
	return SnapshotWeek(now) != SnapshotWeek(*lastRun)
}

// monthlyDue reports whether a calendar month boundary has passed since the
// last successful run.
func monthlyDue(now time.Time, lastRun *time.Time) bool {
	if lastRun == nil {
		return true
	}
	return now.Year() != lastRun.Year() || now.Month() != lastRun.Month()
}

// Registry holds the known datasets.
type Registry struct {
	datasets []Dataset
}

// NewRegistry constructs the full dataset registry.
func NewRegistry(baseURL string, millage MillageYears, realEstatePolicy TimeSeriesPolicy) *Registry {
	return &Registry{datasets: []Dataset{
		NewProfiles(baseURL),
		NewMuniMillage(baseURL, millage),
		NewSchoolMillage(baseURL, millage),
		NewRealEstate(baseURL, realEstatePolicy),
	}}
}

// All returns every registered dataset.
func (r *Registry) All() []Dataset {
	return r.datasets
}

// Select returns the datasets with the given names, or all datasets when
// names is empty.
func (r *Registry) Select(names []string) ([]Dataset, error) {
	if len(names) == 0 {
		return r.datasets, nil
	}
	byName := make(map[string]Dataset, len(r.datasets))
	for _, ds := range r.datasets {
		byName[ds.Name()] = ds
	}
	out := make([]Dataset, 0, len(names))
	for _, name := range names {
		ds, ok := byName[name]
		if !ok {
			return nil, eris.Errorf("registry: unknown dataset %q", name)
		}
		out = append(out, ds)
	}
	return out, nil
}
