package engine

// DocumentPaths holds the input and output path of one document.
type DocumentPaths struct {
	In  string
	Out string
}

// RunRequest represents a request to rewrite a master/bundle/placement trio.
type RunRequest struct {
	Master    DocumentPaths
	Bundle    DocumentPaths
	Placement DocumentPaths

	// Kubernetes selects the Kubernetes rule subset
	Kubernetes bool

	// DryRun runs the rules in memory and reports diffs without writing
	DryRun bool
}

// MasterRequest represents a request to rewrite a master document alone.
type MasterRequest struct {
	Master DocumentPaths

	// DryRun runs the rules in memory and reports diffs without writing
	DryRun bool
}

// PlanRequest represents a request to preview a run.
type PlanRequest struct {
	// Master is the master document path
	Master string

	Kubernetes bool
}
