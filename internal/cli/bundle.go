package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/prod2lab/internal/engine"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle IN_MASTER OUT_MASTER IN_BUNDLE OUT_BUNDLE IN_PLACEMENT OUT_PLACEMENT [k8s]",
	Short: "Rewrite a master/bundle/placement trio for a lab",
	Long: `Rewrite a production master, bundle and placement trio into a lab topology.

The master document decides which of the other documents are used:
  - without bundle builder the bundle is rewritten
  - with bundle builder the master and placement are rewritten
  - with automatic placement only the master is rewritten, and an overlay
    file is written beside it

Every path must be given; unused slots are ignored. A trailing "k8s" runs
the Kubernetes rules against the kubernetes layer instead.`,
	Example: `  prod2lab bundle prod/master.yaml lab/master.yaml \
      prod/bundle.yaml lab/bundle.yaml prod/placement.yaml lab/placement.yaml
  prod2lab bundle --dry-run lab/master.yaml lab/master.yaml - - - - k8s`,
	Args: cobra.RangeArgs(6, 7),
	RunE: func(cmd *cobra.Command, args []string) error {
		kubernetes, err := parseKubernetesToken(args, 6)
		if err != nil {
			return err
		}

		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		req := &engine.RunRequest{
			Master:     engine.DocumentPaths{In: args[0], Out: args[1]},
			Bundle:     engine.DocumentPaths{In: args[2], Out: args[3]},
			Placement:  engine.DocumentPaths{In: args[4], Out: args[5]},
			Kubernetes: kubernetes,
			DryRun:     dryRun,
		}

		result, err := eng.Run(context.Background(), req)
		if err != nil {
			if result != nil && len(result.Conflicts) > 0 {
				printConflicts(result.Conflicts)
			}
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("prod2lab")
		PrintLabelValue("Mode", result.Plan.Mode.String())
		PrintLabelValue("Rules", plural(len(result.Plan.Steps), "rule", "rules"))

		if req.DryRun {
			printDiffs(result.Diffs)
			return nil
		}
		printWritten(result.Written)
		return nil
	},
}
