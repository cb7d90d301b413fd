// Package planner turns a master document into an ordered plan of rewrite
// steps.
//
// The planner detects the operating mode from the master document, then
// picks the documents to load and write, the rules to run and their order,
// and whether the overlay side-file is emitted. It never touches files
// itself; the engine executes the plan.
//
// Key responsibilities:
//   - Detect bundle-builder, automatic placement and Kubernetes modes
//   - Build the OpenStack, Kubernetes and master-only rule sequences
//   - Detect output path conflicts before anything is written
package planner
