package rules

import "github.com/danieljhkim/prod2lab/internal/document"

// ComputeOverlay returns the side-file bundle forcing lab-friendly host
// options onto the compute application. It stands in for the placement
// document edits that automatic placement makes impossible.
func ComputeOverlay(app string) *document.Bundle {
	b := &document.Bundle{Applications: document.NewOrderedMap[*document.Application]()}
	b.SetApplication(app, &document.Application{
		Options: map[string]interface{}{
			"cpu-mode":             "none",
			"reserved-host-memory": 0,
		},
	})
	return b
}
