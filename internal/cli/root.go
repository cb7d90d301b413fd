package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/prod2lab/internal/chooser"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
	dryRun     bool

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for prod2lab.
var rootCmd = &cobra.Command{
	Use:     "prod2lab",
	Version: "dev",
	Short:   "Rewrite production deployment documents for a lab",
	Long: `prod2lab rewrites production master, bundle and placement documents into a
reduced lab topology.

It drops monitoring and logging applications, caps unit and machine counts,
lowers HA cluster sizes and points networking and DNS options at lab values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion sets the version printed by --version and the version command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc prints the long description, usage, examples, commands by
// group and flags, with colored section titles.
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	writeSection(&help, "Usage:", "  "+cmd.UseLine()+"\n")
	if cmd.Example != "" {
		writeSection(&help, "Examples:", cmd.Example+"\n")
	}

	for _, group := range cmd.Groups() {
		if lines := commandLines(cmd, group.ID); lines != "" {
			help.WriteString(groupTitleColor.Sprint(group.Title))
			help.WriteString("\n" + lines + "\n")
		}
	}
	if lines := commandLines(cmd, ""); lines != "" {
		writeSection(&help, "Additional Commands:", lines)
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		writeSection(&help, "Flags:", cmd.LocalFlags().FlagUsages()+cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}
	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func writeSection(help *strings.Builder, title, body string) {
	help.WriteString(sectionTitleColor.Sprint(title))
	help.WriteString("\n" + body + "\n")
}

// commandLines lists the visible subcommands of cmd in groupID, one per line.
func commandLines(cmd *cobra.Command, groupID string) string {
	var b strings.Builder
	for _, c := range cmd.Commands() {
		if c.GroupID == groupID && !c.Hidden {
			fmt.Fprintf(&b, "  %-11s %s\n", c.Name(), c.Short)
		}
	}
	return b.String()
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default $PROD2LAB_CONFIG or ~/.prod2lab/config.yaml)")
	flags.String("log-level", "INFO", "Progress log level (TRACE, DEBUG, INFO, WARNING, ERROR)")
	flags.Int64("seed", 0, "Seed for the random placement pick (0 seeds from the clock)")
	flags.String("placement-policy", chooser.PolicyRandom, "Placement target kept when capping units: random or first")
	flags.BoolVar(&dryRun, "dry-run", false, "Show changes without writing any file")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "pipeline",
		Title: "Pipeline:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the prod2lab CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Root().Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for prod2lab for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	shells := []struct {
		name string
		gen  func(io.Writer) error
	}{
		{"bash", rootCmd.GenBashCompletion},
		{"zsh", rootCmd.GenZshCompletion},
		{"fish", func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) }},
		{"powershell", rootCmd.GenPowerShellCompletionWithDesc},
	}
	for _, sh := range shells {
		gen := sh.gen
		completionCmd.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 "Generate the autocompletion script for " + sh.name,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return gen(cmd.OutOrStdout())
			},
		})
	}
	rootCmd.AddCommand(completionCmd)

	for _, c := range []*cobra.Command{bundleCmd, masterCmd, planCmd} {
		c.GroupID = "pipeline"
		rootCmd.AddCommand(c)
	}
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
