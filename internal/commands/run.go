package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/moasq/gridmenu/internal/config"
	"github.com/moasq/gridmenu/internal/menu"
	"github.com/moasq/gridmenu/internal/terminal"
)

// resolveConfig layers defaults, the config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("columns") {
		cfg.Columns = opts.columns
	}
	if f.Changed("cell-size") {
		cfg.CellWidth = opts.cellSize
	}
	if f.Changed("prompt") {
		cfg.Prompt = opts.prompt
	}
	if f.Changed("separator") {
		cfg.Separator = opts.separator
	}
	if f.Changed("no-color") {
		cfg.NoColor = opts.noColor
	}
	if f.Changed("fore-color") {
		if err := cfg.SetForeground(opts.foreColor); err != nil {
			return nil, err
		}
	}
	if f.Changed("back-color") {
		if err := cfg.SetBackground(opts.backColor); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMenu(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return menu.ErrNoOptions
	}

	diag := cmd.ErrOrStderr()
	var hl terminal.Highlighter
	if !cfg.NoColor {
		hl = terminal.DetectHighlighter(diag)
	}

	m := menu.New(cfg,
		terminal.NewRawMode(os.Stdin, diag),
		terminal.NewDecoder(terminal.NewPollReader(os.Stdin)),
		diag, cmd.OutOrStdout(), hl)

	_, err = m.Run(cmd.Context(), args)
	return err
}
