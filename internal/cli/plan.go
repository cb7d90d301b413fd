package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/prod2lab/internal/engine"
	"github.com/danieljhkim/prod2lab/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan IN_MASTER [k8s]",
	Short: "Show the mode and rules a run would apply",
	Long: `Detect the mode of a master document and show which documents a run
would read and write and which rules it would apply, in order.

Nothing is written.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kubernetes, err := parseKubernetesToken(args, 1)
		if err != nil {
			return err
		}

		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		result, err := eng.Plan(context.Background(), &engine.PlanRequest{
			Master:     args[0],
			Kubernetes: kubernetes,
		})
		if err != nil {
			return err
		}
		plan := result.Plan

		if jsonOutput {
			return outputJSON(plan)
		}

		PrintSection("Plan")
		PrintLabelValue("Mode", plan.Mode.String())
		PrintLabelValue("Layer", plan.Layer)
		overlay := plan.Overlay
		if overlay == "" {
			overlay = "-"
		}
		PrintTable(
			[]string{"READS", "WRITES", "OVERLAY"},
			[][]string{{joinSlots(plan.Reads), joinSlots(plan.Writes), overlay}},
		)

		PrintSubsection("Rules:")
		PrintNumberedList(plan.StepNames(), 2)
		return nil
	},
}

func joinSlots(slots []planner.Slot) string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
