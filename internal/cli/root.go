package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lwjgl3ify-tools/clientgen/internal/branding"
	"github.com/lwjgl3ify-tools/clientgen/internal/source"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

type rootOptions struct {
	configFile string
	verbose    bool
	summary    bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` builds a launcher version manifest for lwjgl3ify from
base.json and the Prism patches of a lwjgl3ify checkout. Referenced jars are
downloaded into libraries/ and hashed; the result is written to out/<id>.json.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), logger, v, opts)
		},
	}

	f := cmd.Flags()
	f.BoolP("use-dirty-source", "d", false, "Generate even if the lwjgl3ify checkout has uncommitted changes (env "+branding.EnvVar("use_dirty_source")+")")
	f.StringP("location", "l", "../lwjgl3ify/", "Path to the lwjgl3ify checkout (env "+branding.EnvVar("location")+")")
	f.StringVar(&opts.configFile, "config", "", "Path to an alternate "+branding.ConfigName()+".yaml")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVar(&opts.summary, "summary", false, "Print a table of the generated libraries")

	// Errors are impossible here: both flags were registered above.
	_ = v.BindPFlag("use_dirty_source", f.Lookup("use-dirty-source"))
	_ = v.BindPFlag("location", f.Lookup("location"))

	return cmd
}

// newLogger writes to w, using logfmt when w is not a terminal.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	opts := log.Options{Prefix: branding.CLIName()}
	if !isTerminal(w) {
		opts.Formatter = log.LogfmtFormatter
	}
	logger := log.NewWithOptions(w, opts)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printError writes err and, for working copy problems, how to fix them.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var se *source.StateError
	if errors.As(err, &se) && se.Hint != "" {
		fmt.Fprintln(w, se.Hint)
	}
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}
