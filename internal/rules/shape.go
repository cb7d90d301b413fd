// Package rules holds the prod2lab rewrite rules.
//
// Every rule is a pure function: it takes a Shape, copies whatever it
// changes and returns the new Shape, leaving its input untouched. Rules are
// idempotent and treat a missing application, feature, layer or option as
// nothing to do.
//
// A Shape is one of:
//   - FlatBundle: a hand-authored bundle with machines, applications and relations
//   - MasterPlacement: a bundle-builder master, plus its placement document
//     unless the layer uses automatic placement
package rules

import (
	"github.com/juju/loggo"

	"github.com/danieljhkim/prod2lab/internal/document"
)

var logger = loggo.GetLogger("prod2lab.rules")

// Shape is the set of documents a rule operates on.
type Shape interface {
	// Clone returns a deep copy of every document in the shape.
	Clone() Shape

	isShape()
}

// FlatBundle is the shape used when the master does not build its bundle.
type FlatBundle struct {
	Bundle *document.Bundle
}

// Clone implements Shape.
func (s FlatBundle) Clone() Shape {
	return FlatBundle{Bundle: s.Bundle.Clone()}
}

func (FlatBundle) isShape() {}

// MasterPlacement is the bundle-builder shape. Placement is nil when
// AutomaticPlacement is set.
type MasterPlacement struct {
	Master             *document.Master
	Placement          *document.Bundle
	AutomaticPlacement bool
}

// Clone implements Shape.
func (s MasterPlacement) Clone() Shape {
	return MasterPlacement{
		Master:             s.Master.Clone(),
		Placement:          s.Placement.Clone(),
		AutomaticPlacement: s.AutomaticPlacement,
	}
}

func (MasterPlacement) isShape() {}

// Rule rewrites a Shape.
type Rule func(Shape) (Shape, error)

// placementBundle returns the document that carries machines and
// applications for the shape, or nil when there is none.
func placementBundle(s Shape) *document.Bundle {
	switch t := s.(type) {
	case FlatBundle:
		return t.Bundle
	case MasterPlacement:
		if t.AutomaticPlacement {
			return nil
		}
		return t.Placement
	}
	return nil
}

// withPlacementBundle returns s with its machines/applications document replaced.
func withPlacementBundle(s Shape, b *document.Bundle) Shape {
	switch t := s.(type) {
	case FlatBundle:
		t.Bundle = b
		return t
	case MasterPlacement:
		t.Placement = b
		return t
	}
	return s
}
