// Package runlog persists the outcome of generation runs for audit and
// later inspection.
package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/transitops/rosterd/core/model"
)

// Summary mirrors the scheduler's run summary for storage purposes.
type Summary struct {
	TotalBusinesses      int `json:"total_businesses"`
	AssignedBusinesses   int `json:"assigned_businesses"`
	UnassignedBusinesses int `json:"unassigned_businesses"`
	TotalEmployees       int `json:"total_employees"`
}

// Record captures one completed generation run.
type Record struct {
	Timestamp  time.Time               `json:"timestamp"`
	RunID      string                  `json:"run_id"`
	Location   string                  `json:"location"`
	Start      model.Day               `json:"start"`
	End        model.Day               `json:"end"`
	Summary    Summary                 `json:"summary"`
	Shifts     []model.ShiftAssignment `json:"shifts"`
	Unassigned []string                `json:"unassigned"`
	Warnings   []string                `json:"warnings,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start    time.Time
	End      time.Time
	Location string
	RunID    string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config defines settings for run log storage.
type Config struct {
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "roster-runs.log"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// New creates the store selected by the configuration.
func New(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return NewJSONLStore(cfg.Path)
	}
}

// matches reports whether the record passes all query filters.
func (q Query) matches(rec Record) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.Location != "" && rec.Location != q.Location {
		return false
	}
	if q.RunID != "" && rec.RunID != q.RunID {
		return false
	}
	return true
}
