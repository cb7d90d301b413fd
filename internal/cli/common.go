package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/prod2lab/internal/chooser"
	"github.com/danieljhkim/prod2lab/internal/config"
	"github.com/danieljhkim/prod2lab/internal/engine"
	"github.com/danieljhkim/prod2lab/internal/fsops"
	"github.com/danieljhkim/prod2lab/internal/hash"
)

// kubernetesToken is the trailing positional argument selecting the
// Kubernetes rule subset.
const kubernetesToken = "k8s"

// logOutput receives the progress log.
var logOutput io.Writer = os.Stderr

// newEngine loads configuration, configures logging and creates an engine
// with real implementations of all dependencies.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := config.Load(configFile, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, errors.Annotate(err, "failed to load config")
	}
	if err := setupLogging(cfg.Log.Level); err != nil {
		return nil, errors.Trace(err)
	}

	switch cfg.Placement.Policy {
	case chooser.PolicyRandom, chooser.PolicyFirst:
	default:
		return nil, errors.NotValidf("placement policy %q", cfg.Placement.Policy)
	}
	pick := chooser.ForPolicy(cfg.Placement.Policy, cfg.Placement.Seed)

	return engine.New(fsops.NewRealFS(), pick, hash.NewSHA256Hasher(), cfg), nil
}

// setupLogging sends prod2lab's progress log to logOutput at level.
func setupLogging(level string) error {
	lvl, ok := loggo.ParseLevel(level)
	if !ok {
		return errors.NotValidf("log level %q", level)
	}
	writer := loggo.NewSimpleWriter(logOutput, func(entry loggo.Entry) string {
		return fmt.Sprintf("%s %s", entry.Level, entry.Message)
	})
	if _, err := loggo.ReplaceDefaultWriter(writer); err != nil {
		return errors.Annotate(err, "failed to replace log writer")
	}
	loggo.GetLogger("prod2lab").SetLogLevel(lvl)
	return nil
}

// parseKubernetesToken reports whether the optional trailing argument
// selects Kubernetes mode.
func parseKubernetesToken(args []string, at int) (bool, error) {
	if len(args) <= at {
		return false, nil
	}
	if args[at] != kubernetesToken {
		return false, errors.NotValidf("mode token %q (only %q is accepted)", args[at], kubernetesToken)
	}
	return true, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	out, err := formatJSON(v)
	if err != nil {
		return errors.Annotate(err, "failed to encode JSON output")
	}
	_, err = fmt.Println(out)
	return err
}
