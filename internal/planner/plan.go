package planner

import "github.com/danieljhkim/prod2lab/internal/rules"

// Slot names one of the documents a run can read or write.
type Slot string

// Document slots
const (
	SlotMaster    Slot = "master"
	SlotBundle    Slot = "bundle"
	SlotPlacement Slot = "placement"
	SlotOverlay   Slot = "overlay"
)

// Plan is the ordered work for one run.
type Plan struct {
	// Mode is the detected operating mode.
	Mode Mode

	// Layer is the master layer the rules act on.
	Layer string

	// Reads lists the documents that form the rule input. The master is
	// always read for mode detection even when it is not listed.
	Reads []Slot

	// Writes lists the documents written when the run succeeds.
	Writes []Slot

	// Overlay is the file name of the side-file written beside the master
	// output, or empty when no overlay is emitted.
	Overlay string

	// Steps is the ordered list of rules to run
	Steps []Step
}

// Step is one named rule application.
type Step struct {
	// Name is logged when the step runs.
	Name string

	Rule rules.Rule `json:"-"`
}

// MasterPlan is the ordered work for a master-only rewrite.
type MasterPlan struct {
	Steps []MasterStep
}

// MasterStep is one named master rule application.
type MasterStep struct {
	Name string
	Rule rules.MasterRule `json:"-"`
}

// NewPlan creates a new empty Plan for mode.
func NewPlan(mode Mode, layer string) *Plan {
	return &Plan{
		Mode:  mode,
		Layer: layer,
		Steps: []Step{},
	}
}

// AddStep appends a step to the plan.
func (p *Plan) AddStep(name string, rule rules.Rule) {
	p.Steps = append(p.Steps, Step{Name: name, Rule: rule})
}

// Reading returns true if the plan loads slot as rule input.
func (p *Plan) Reading(slot Slot) bool {
	return containsSlot(p.Reads, slot)
}

// Writing returns true if the plan writes slot.
func (p *Plan) Writing(slot Slot) bool {
	return containsSlot(p.Writes, slot)
}

// StepNames returns the step names in order.
func (p *Plan) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

func containsSlot(slots []Slot, slot Slot) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
