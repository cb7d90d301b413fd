package engine

import "github.com/danieljhkim/prod2lab/internal/planner"

// WrittenDocument records one document written by a run.
type WrittenDocument struct {
	Slot planner.Slot
	Path string

	// Checksum is the hex SHA-256 of the written bytes
	Checksum string
}

// DocumentDiff is the dry-run difference for one output document.
type DocumentDiff struct {
	Slot planner.Slot
	Path string

	// Changes is one line per changed value, empty when nothing changed
	Changes []string
}

// RunResult represents the result of a bundle run.
type RunResult struct {
	// Plan is the executed plan
	Plan *planner.Plan

	// Conflicts lists output conflicts; the run stops when there are any
	Conflicts []planner.Conflict

	// Written lists the documents written, in order (empty if DryRun)
	Written []WrittenDocument

	// Diffs holds per-document changes (DryRun only)
	Diffs []DocumentDiff
}

// MasterResult represents the result of a master rewrite.
type MasterResult struct {
	// Steps lists the applied step names in order
	Steps []string

	// Written is set unless DryRun
	Written *WrittenDocument

	// Diff is set for DryRun
	Diff *DocumentDiff
}

// PlanResult represents a run preview.
type PlanResult struct {
	Plan *planner.Plan
}
