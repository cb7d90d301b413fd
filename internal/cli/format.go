package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/prod2lab/internal/engine"
	"github.com/danieljhkim/prod2lab/internal/planner"
)

var (
	// fatih/color disables these when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// initColors honours NO_COLOR on top of fatih/color's own TTY detection.
func initColors() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color.NoColor = true
	}
}

// PrintSection prints a section header
func PrintSection(title string) {
	initColors()
	fmt.Println()
	_, _ = headerColor.Printf("▸ %s\n", title)
	fmt.Println()
}

// PrintSubsection prints a subsection header
func PrintSubsection(title string) {
	initColors()
	_, _ = infoColor.Printf("  %s\n", title)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	initColors()
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	initColors()
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	initColors()
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintLabelValue prints "label: value" indented under a section.
func PrintLabelValue(label, value string) {
	initColors()
	_, _ = labelColor.Printf("  %s: ", label)
	_, _ = dimColor.Println(value)
}

// PrintList prints items as bullets, indent levels deep.
func PrintList(items []string, indent int) {
	initColors()
	pad := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Printf("%s• %s\n", pad, item)
	}
}

// PrintNumberedList prints items numbered from 1, indent levels deep.
func PrintNumberedList(items []string, indent int) {
	initColors()
	pad := strings.Repeat("  ", indent)
	for i, item := range items {
		_, _ = infoColor.Printf("%s%d. %s\n", pad, i+1, item)
	}
}

// PrintTable prints rows under headers with every column padded to its
// widest cell.
func PrintTable(headers []string, rows [][]string) {
	initColors()
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for _, row := range append([][]string{headers}, rows...) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	printRow := func(c *color.Color, cells []string) {
		fmt.Print("  ")
		for i, w := range widths {
			if i > 0 {
				fmt.Print("  ")
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			_, _ = c.Printf("%-*s", w, cell)
		}
		fmt.Println()
	}

	printRow(headerColor, headers)
	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}
	printRow(dimColor, rules)
	for _, row := range rows {
		printRow(dimColor, row)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	initColors()
	_, _ = dimColor.Printf("  %s\n", msg)
}

// plural returns "1 rule" or "3 rules".
func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

// shortSum abbreviates a checksum for display.
func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func printConflicts(conflicts []planner.Conflict) {
	PrintSection("Conflicts Detected")
	for _, c := range conflicts {
		path := c.Path
		if path == "" {
			path = string(c.Incoming)
		}
		PrintError(fmt.Sprintf("%s: %s", path, c.Reason))
	}
	fmt.Println()
}

func printWritten(written []engine.WrittenDocument) {
	fmt.Println()
	for _, w := range written {
		PrintSuccess(fmt.Sprintf("Wrote %s document %s (sha256 %s)", w.Slot, w.Path, shortSum(w.Checksum)))
	}
}

// printDiffs prints the dry-run changes of every document.
func printDiffs(diffs []engine.DocumentDiff) {
	PrintSection("Dry Run")
	for _, d := range diffs {
		PrintSubsection(fmt.Sprintf("%s → %s", d.Slot, d.Path))
		if len(d.Changes) == 0 {
			PrintEmptyState("no changes")
			continue
		}
		PrintList(d.Changes, 2)
	}
	fmt.Println()
	PrintWarning("Dry run: nothing was written")
}
