package engine

import (
	"context"
	"path/filepath"

	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/document"
	"github.com/danieljhkim/prod2lab/internal/planner"
	"github.com/danieljhkim/prod2lab/internal/rules"
)

// documents holds one value per slot; a nil field is a slot the run does
// not use.
type documents struct {
	master    *document.Master
	bundle    *document.Bundle
	placement *document.Bundle
}

// Algorithm steps:
// 1. Load the master and detect the mode
// 2. Build the plan and check output targets for conflicts
// 3. Load the rule input documents
// 4. Run every step in order
// 5. Write the overlay side-file (if the plan emits one and not DryRun)
// 6. Write the outputs, or report diffs for DryRun
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	master, err := e.readMaster(req.Master.In)
	if err != nil {
		return nil, errors.Trace(err)
	}

	mode, err := planner.DetectMode(master, e.cfg, req.Kubernetes)
	if err != nil {
		return nil, errors.Trace(err)
	}
	plan := planner.Build(mode, e.cfg, e.chooser)
	logger.Infof("mode: %s", mode)
	result := &RunResult{Plan: plan}

	targets := outputTargets(plan, req)
	if conflicts := planner.NewConflictChecker(e.fs).Check(targets); len(conflicts) > 0 {
		result.Conflicts = conflicts
		return result, errors.Annotatef(ErrConflict, "%d conflicts detected", len(conflicts))
	}

	in := documents{}
	if plan.Reading(planner.SlotMaster) {
		in.master = master
	}
	if plan.Reading(planner.SlotBundle) {
		if in.bundle, err = e.readBundle(planner.SlotBundle, req.Bundle.In); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if plan.Reading(planner.SlotPlacement) {
		if in.placement, err = e.readBundle(planner.SlotPlacement, req.Placement.In); err != nil {
			return nil, errors.Trace(err)
		}
	}

	out, err := runSteps(ctx, plan, in.shape(plan.Mode))
	if err != nil {
		return result, errors.Trace(err)
	}
	outDocs := documentsOf(out)

	var overlay *document.Bundle
	if plan.Overlay != "" {
		overlay = rules.ComputeOverlay(e.cfg.OpenStack.PlacementCompute)
		if !req.DryRun {
			path := overlayPath(plan, req)
			w, err := e.write(planner.SlotOverlay, path, overlay)
			if err != nil {
				return nil, errors.Annotatef(ErrOverlayWrite, "%v", err)
			}
			logger.Infof("wrote overlay %s", path)
			result.Written = append(result.Written, w)
		}
	}

	if req.DryRun {
		for _, t := range targets {
			var before, after interface{}
			switch t.Slot {
			case planner.SlotOverlay:
				after = overlay
			default:
				before, after = in.get(t.Slot), outDocs.get(t.Slot)
			}
			changes, err := diffDocuments(before, after)
			if err != nil {
				return result, errors.Annotatef(err, "diffing %s document", t.Slot)
			}
			result.Diffs = append(result.Diffs, DocumentDiff{Slot: t.Slot, Path: t.Path, Changes: changes})
		}
		return result, nil
	}

	for _, slot := range plan.Writes {
		w, err := e.write(slot, req.paths(slot).Out, outDocs.get(slot))
		if err != nil {
			return result, errors.Trace(err)
		}
		result.Written = append(result.Written, w)
	}
	return result, nil
}

func runSteps(ctx context.Context, plan *planner.Plan, s rules.Shape) (rules.Shape, error) {
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		logger.Infof("%s", step.Name)
		next, err := step.Rule(s)
		if err != nil {
			return nil, errors.Annotatef(err, "step %q", step.Name)
		}
		s = next
	}
	return s, nil
}

// outputTargets lists the documents the plan writes, overlay first.
func outputTargets(plan *planner.Plan, req *RunRequest) []planner.Target {
	var targets []planner.Target
	if plan.Overlay != "" {
		targets = append(targets, planner.Target{Slot: planner.SlotOverlay, Path: overlayPath(plan, req)})
	}
	for _, slot := range plan.Writes {
		targets = append(targets, planner.Target{Slot: slot, Path: req.paths(slot).Out})
	}
	return targets
}

// overlayPath places the overlay beside the master output.
func overlayPath(plan *planner.Plan, req *RunRequest) string {
	return filepath.Join(filepath.Dir(req.Master.Out), plan.Overlay)
}

func (r *RunRequest) paths(slot planner.Slot) DocumentPaths {
	switch slot {
	case planner.SlotMaster:
		return r.Master
	case planner.SlotBundle:
		return r.Bundle
	case planner.SlotPlacement:
		return r.Placement
	}
	return DocumentPaths{}
}

func (d documents) shape(mode planner.Mode) rules.Shape {
	if !mode.BundleBuilder {
		return rules.FlatBundle{Bundle: d.bundle}
	}
	return rules.MasterPlacement{
		Master:             d.master,
		Placement:          d.placement,
		AutomaticPlacement: mode.AutomaticPlacement,
	}
}

func documentsOf(s rules.Shape) documents {
	switch t := s.(type) {
	case rules.FlatBundle:
		return documents{bundle: t.Bundle}
	case rules.MasterPlacement:
		return documents{master: t.Master, placement: t.Placement}
	}
	return documents{}
}

// get returns the slot's document, or an untyped nil when it is absent.
func (d documents) get(slot planner.Slot) interface{} {
	switch slot {
	case planner.SlotMaster:
		if d.master != nil {
			return d.master
		}
	case planner.SlotBundle:
		if d.bundle != nil {
			return d.bundle
		}
	case planner.SlotPlacement:
		if d.placement != nil {
			return d.placement
		}
	}
	return nil
}
