package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bookcard/fit"
	"github.com/ByLCY/bookcard/layout"
	"github.com/ByLCY/bookcard/renderer"
)

type renderOptions struct {
	format string
	out    string
	fit    bool
	debug  string
	data   string
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <deck.bookcard|project.json>",
		Short: "Export every card as PNG, PDF or SVG",
		Long: `Render lays out each card and writes it to the output directory as
card-01.png, card-02.png and so on.

Examples:
  bookcard render quotes.bookcard --format pdf --out build
  bookcard render project.json --fit --debug layout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(renderer.PNG), "output format: png, pdf or svg")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "shrink text to fit before rendering")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "write the computed layouts as JSON to this file")
	cmd.Flags().StringVar(&opts.data, "data", "", "JSON file bound to ${...} placeholders in deck files")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, input string, opts *renderOptions) error {
	format, err := renderer.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	d, _, err := a.loadDeck(input, opts.data)
	if err != nil {
		return err
	}
	outDir := opts.out
	if outDir == "" {
		outDir = a.cfg.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	cr, buildOpts := a.newRenderer(input)
	var r renderer.Renderer = cr
	out := cmd.OutOrStdout()

	if opts.fit {
		m := layout.NewMeasurer(buildOpts)
		for i := 0; i < d.Len(); i++ {
			if _, err := d.Fit(i, m); err != nil && !errors.Is(err, fit.ErrMeasure) {
				return err
			} else if err != nil {
				warn(out, "card %d: %v", i+1, err)
			}
		}
	}

	layouts := make([]*layout.CardLayout, 0, d.Len())
	for i, c := range d.Cards() {
		l, err := layout.Build(c, buildOpts)
		if err != nil {
			return fmt.Errorf("card %d: %w", i+1, err)
		}
		layouts = append(layouts, l)
		if l.Overflowing {
			warn(out, "card %d: text overflows (%.0f/%.0fpx); try `bookcard fit --split`", i+1, l.TextHeightPx, l.AvailablePx)
		}

		data, err := r.Render(l, format)
		if err != nil {
			return fmt.Errorf("card %d: %w", i+1, err)
		}
		name := filepath.Join(outDir, fmt.Sprintf("card-%02d.%s", i+1, format))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", name, err)
		}
		a.logger.Debug("card rendered", "index", i, "id", c.ID, "path", name, "bytes", len(data))
	}

	if opts.debug != "" {
		if err := os.MkdirAll(filepath.Dir(opts.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(layouts, opts.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	success(out, "rendered %d card(s) to %s", len(layouts), outDir)
	return nil
}
