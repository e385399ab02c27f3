package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moasq/gridmenu/internal/menu"
)

// Version is set at build time.
var Version = "0.1.0"

// options holds the raw flag values before they are folded into a config.
type options struct {
	configPath string
	columns    int
	cellSize   int
	foreColor  string
	backColor  string
	prompt     string
	separator  string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "gridmenu [flags] [option ...]",
		Short: "Pick one option from a keyboard-driven grid",
		Long: "gridmenu shows its arguments as a grid in the terminal. Arrow keys move the\n" +
			"highlight, Enter or Space picks the highlighted option and prints it to stdout.\n" +
			"Ctrl+C cancels. The menu itself is drawn on stderr.",
		Example: `  gridmenu -c 3 red green blue cyan magenta yellow
  branch=$(gridmenu -p "Checkout:" $(git branch --format='%(refname:short)'))`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, &opts, args)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.columns, "columns", "c", 0, "number of grid columns (default 2)")
	f.IntVarP(&opts.cellSize, "cell-size", "s", 0, "cell width before labels are truncated (default 20)")
	f.StringVarP(&opts.foreColor, "fore-color", "f", "", `highlight foreground as "r g b", or "none" (default "255 255 255")`)
	f.StringVarP(&opts.backColor, "back-color", "b", "", `highlight background as "r g b", or "none" (default "0 0 255")`)
	f.StringVarP(&opts.prompt, "prompt", "p", "", `text shown above the grid (default "Select an option:")`)
	f.StringVar(&opts.separator, "separator", "", "line shown between the prompt and the grid (default a rule of '-')")
	f.BoolVar(&opts.noColor, "no-color", false, "mark the selection with brackets instead of colour")
	f.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridmenu/config.yaml)")

	return cmd
}

// Execute runs the root command. SIGINT, SIGTERM and SIGHUP cancel the
// menu so the terminal is restored before the process exits.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, menu.ErrCancelled), errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// Quiet reports whether err needs no message: the user asked to stop.
func Quiet(err error) bool {
	return errors.Is(err, menu.ErrCancelled) || errors.Is(err, context.Canceled)
}
