// Package runctx defines the explicit run context threaded through every
// component: run identity, configuration, logger, metrics and accumulated
// diagnostics. Nothing in the pipeline touches process-global state.
package runctx

import (
	"sync"

	"github.com/google/uuid"

	"github.com/clusolabs/cmgraph/pkg/config"
	"github.com/clusolabs/cmgraph/pkg/logging"
	"github.com/clusolabs/cmgraph/pkg/metrics"
)

// Context carries per-run state. Safe for concurrent use: the logger and
// metrics are concurrency-safe and diagnostics are mutex-guarded.
type Context struct {
	RunID   string
	Cfg     config.Config
	Log     logging.Logger
	Metrics *metrics.Registry

	mu   sync.Mutex
	diag []string
}

// New creates a run context with a fresh run ID.
func New(cfg config.Config, log logging.Logger) *Context {
	if log == nil {
		log = logging.NopLogger{}
	}
	id := uuid.NewString()
	return &Context{
		RunID:   id,
		Cfg:     cfg,
		Log:     log.With(logging.String("run_id", id)),
		Metrics: metrics.NewRegistry(),
	}
}

// AddDiagnostic records a non-fatal condition for the run summary.
func (c *Context) AddDiagnostic(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diag = append(c.diag, msg)
}

// Diagnostics returns a copy of the accumulated diagnostics.
func (c *Context) Diagnostics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.diag))
	copy(out, c.diag)
	return out
}
