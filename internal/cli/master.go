package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/prod2lab/internal/engine"
)

var masterCmd = &cobra.Command{
	Use:   "master IN_MASTER OUT_MASTER",
	Short: "Rewrite a master document on its own for a lab",
	Long: `Rewrite a production master document for a lab.

Adds the lab tweaks to the maas layer, drops HA settings from the maas and
controller layers, and removes the controller bundle and monitoring layers
together with every reference to them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		req := &engine.MasterRequest{
			Master: engine.DocumentPaths{In: args[0], Out: args[1]},
			DryRun: dryRun,
		}
		result, err := eng.RunMaster(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("prod2lab master")
		PrintNumberedList(result.Steps, 1)

		if req.DryRun {
			printDiffs([]engine.DocumentDiff{*result.Diff})
			return nil
		}
		printWritten([]engine.WrittenDocument{*result.Written})
		return nil
	},
}
