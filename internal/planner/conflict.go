package planner

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/prod2lab/internal/fsops"
)

// Target is a document the run is about to write.
type Target struct {
	Slot Slot
	Path string
}

// Conflict represents a conflict detected before writing.
type Conflict struct {
	// Path is the output path where the conflict was detected
	Path string

	// Reason is a human-readable explanation of the conflict
	Reason string

	// Existing describes what currently claims the path
	Existing string

	// Incoming is the slot that wants to write the path
	Incoming Slot
}

// ConflictChecker checks output targets before a run writes them.
type ConflictChecker struct {
	fs fsops.FS
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(fs fsops.FS) *ConflictChecker {
	return &ConflictChecker{fs: fs}
}

// Check returns every conflict among targets: a missing path, two
// documents written to the same path, or a path occupied by a directory.
func (c *ConflictChecker) Check(targets []Target) []Conflict {
	var conflicts []Conflict
	claimed := make(map[string]Slot)

	for _, t := range targets {
		if t.Path == "" {
			conflicts = append(conflicts, Conflict{
				Reason:   fmt.Sprintf("No output path for %s document", t.Slot),
				Existing: "none",
				Incoming: t.Slot,
			})
			continue
		}

		clean := filepath.Clean(t.Path)
		if owner, ok := claimed[clean]; ok {
			conflicts = append(conflicts, Conflict{
				Path:     t.Path,
				Reason:   fmt.Sprintf("Path is written by both %s and %s", owner, t.Slot),
				Existing: string(owner),
				Incoming: t.Slot,
			})
			continue
		}
		claimed[clean] = t.Slot

		if conflict := c.checkPath(t); conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}
	return conflicts
}

func (c *ConflictChecker) checkPath(t Target) *Conflict {
	exists, err := c.fs.Exists(t.Path)
	if err != nil {
		return &Conflict{
			Path:     t.Path,
			Reason:   fmt.Sprintf("Failed to check path: %v", err),
			Existing: "unknown",
			Incoming: t.Slot,
		}
	}
	if !exists {
		return nil
	}

	info, err := c.fs.Lstat(t.Path)
	if err != nil {
		return &Conflict{
			Path:     t.Path,
			Reason:   fmt.Sprintf("Failed to stat existing path: %v", err),
			Existing: "unknown",
			Incoming: t.Slot,
		}
	}
	if info.IsDir() {
		return &Conflict{
			Path:     t.Path,
			Reason:   "Directory exists at destination",
			Existing: "directory",
			Incoming: t.Slot,
		}
	}
	// an existing file is overwritten
	return nil
}
