// Package engine provides the core orchestration for prod2lab runs.
//
// The engine sits between the CLI and the rewrite rules. It loads the
// documents a run needs, asks the planner which rules to apply, runs them
// in order and writes the results back. Nothing is written until every
// rule has succeeded, except the overlay side-file, which must exist
// before a master that references it.
//
// Key components:
//   - Engine: main orchestrator called by the CLI
//   - Run: the OpenStack and Kubernetes bundle pipeline
//   - RunMaster: the stand-alone master rewrite
//   - Plan: mode detection and rule preview without touching outputs
package engine

import (
	"github.com/juju/loggo"

	"github.com/danieljhkim/prod2lab/internal/chooser"
	"github.com/danieljhkim/prod2lab/internal/config"
	"github.com/danieljhkim/prod2lab/internal/fsops"
	"github.com/danieljhkim/prod2lab/internal/hash"
)

var logger = loggo.GetLogger("prod2lab.engine")

// Engine orchestrates all prod2lab operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs      fsops.FS
	chooser chooser.Chooser
	hasher  hash.Hasher
	cfg     *config.Config
}

// New creates a new Engine with the given dependencies.
func New(fs fsops.FS, pick chooser.Chooser, hasher hash.Hasher, cfg *config.Config) *Engine {
	return &Engine{
		fs:      fs,
		chooser: pick,
		hasher:  hasher,
		cfg:     cfg,
	}
}
