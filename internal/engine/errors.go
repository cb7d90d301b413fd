package engine

import (
	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/document"
	"github.com/danieljhkim/prod2lab/internal/planner"
)

const (
	// ErrConflict indicates an output path conflict was detected before writing.
	ErrConflict = errors.ConstError("conflict detected")

	// ErrOverlayWrite indicates the overlay side-file could not be written.
	ErrOverlayWrite = errors.ConstError("overlay write failed")

	// ErrInvalidMode indicates the rule set does not fit the master's mode.
	ErrInvalidMode = planner.ErrInvalidMode

	// ErrMalformedDocument indicates a document does not have the expected shape.
	ErrMalformedDocument = document.ErrMalformedDocument
)
