package engine

import (
	"context"

	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/planner"
)

// Plan detects the mode of a master document and returns the plan a run
// would execute. No file other than the master is read.
func (e *Engine) Plan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	master, err := e.readMaster(req.Master)
	if err != nil {
		return nil, errors.Trace(err)
	}
	mode, err := planner.DetectMode(master, e.cfg, req.Kubernetes)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &PlanResult{Plan: planner.Build(mode, e.cfg, e.chooser)}, nil
}
