// Package cli provides the studioctl operator command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// Version is set at build time.
var Version = "0.1.0"

type app struct {
	cfg    *appconfig.Config
	logger *logging.Logger
	out    io.Writer
}

// NewRootCmd builds the command tree. cfg is loaded lazily from the
// environment when nil.
func NewRootCmd(cfg *appconfig.Config, out io.Writer) *cobra.Command {
	a := &app{cfg: cfg, out: out}
	var verbose bool

	root := &cobra.Command{
		Use:           "studioctl",
		Short:         "Operator tools for the tattoo studio assistant",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg == nil {
				if err := appconfig.LoadDotEnv(); err != nil {
					return fmt.Errorf("load .env: %w", err)
				}
				a.cfg = appconfig.Load()
			}
			level := "error"
			if verbose {
				level = "debug"
			}
			a.logger = logging.NewWithWriter(level, cmd.ErrOrStderr())
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")

	root.AddCommand(newCatalogCmd(a), newAppointmentsCmd(a))
	return root
}

// Execute runs studioctl with process arguments.
func Execute() error {
	return NewRootCmd(nil, os.Stdout).Execute()
}
