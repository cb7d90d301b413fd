package engine

import (
	"context"

	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/planner"
)

// RunMaster rewrites a master document on its own: lab tweaks, dropped
// HA settings and removed controller and monitoring layers.
func (e *Engine) RunMaster(ctx context.Context, req *MasterRequest) (*MasterResult, error) {
	in, err := e.readMaster(req.Master.In)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !req.DryRun {
		conflicts := planner.NewConflictChecker(e.fs).Check([]planner.Target{{Slot: planner.SlotMaster, Path: req.Master.Out}})
		if len(conflicts) > 0 {
			return nil, errors.Annotatef(ErrConflict, "%s", conflicts[0].Reason)
		}
	}

	result := &MasterResult{}
	out := in
	for _, step := range planner.BuildMaster(e.cfg).Steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		logger.Infof("%s", step.Name)
		out = step.Rule(out)
		result.Steps = append(result.Steps, step.Name)
	}

	if req.DryRun {
		changes, err := diffDocuments(in, out)
		if err != nil {
			return nil, errors.Annotate(err, "diffing master document")
		}
		result.Diff = &DocumentDiff{Slot: planner.SlotMaster, Path: req.Master.Out, Changes: changes}
		return result, nil
	}

	w, err := e.write(planner.SlotMaster, req.Master.Out, out)
	if err != nil {
		return nil, errors.Trace(err)
	}
	result.Written = &w
	return result, nil
}
