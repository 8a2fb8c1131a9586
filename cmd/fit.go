package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/deck"
	"github.com/ByLCY/bookcard/fit"
	"github.com/ByLCY/bookcard/layout"
)

type fitOptions struct {
	apply bool
	split bool
	out   string
	data  string
}

func newFitCmd(a *app) *cobra.Command {
	opts := &fitOptions{}
	cmd := &cobra.Command{
		Use:   "fit <deck.bookcard|project.json>",
		Short: "Shrink card text until it fits, reporting cards that still overflow",
		Long: `Fit measures every card with real font metrics. While the text overflows,
the font size is reduced one pixel at a time down to 12px, then the padding
five pixels at a time down to 20px. Cards that still overflow are reported and
can be split in two (--split, or an interactive prompt on a terminal).

Examples:
  bookcard fit quotes.bookcard
  bookcard fit project.json --apply --split --out project.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFit(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "write the adjusted font size and padding into the cards")
	cmd.Flags().BoolVar(&opts.split, "split", false, "split cards that still overflow without asking")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the resulting project to this file")
	cmd.Flags().StringVar(&opts.data, "data", "", "JSON file bound to ${...} placeholders in deck files")
	return cmd
}

func (a *app) runFit(cmd *cobra.Command, input string, opts *fitOptions) error {
	d, project, err := a.loadDeck(input, opts.data)
	if err != nil {
		return err
	}
	_, buildOpts := a.newRenderer(input)
	m := layout.NewMeasurer(buildOpts)
	out := cmd.OutOrStdout()

	overflowing := 0
	// d.Len() 会随分割增长，新卡片在下一轮继续处理
	for i := 0; i < d.Len(); i++ {
		c, err := d.At(i)
		if err != nil {
			return err
		}
		res, err := fitCard(d, i, c, m, opts.apply)
		if errors.Is(err, fit.ErrMeasure) {
			failure(out, "card %d: %v", i+1, err)
			continue
		}
		if err != nil {
			return err
		}
		a.logger.Debug("card fitted", "index", i, "id", c.ID, "height", res.Height, "available", res.Available, "measurements", res.Measurements)
		report(cmd, i, res)
		if !res.Overflowing {
			continue
		}
		overflowing++

		if first, second := fit.Split(c); fit.Degenerate(first, second) {
			info(out, "card %d: a single word cannot be split", i+1)
			continue
		}
		if !opts.split && !a.confirm(cmd.InOrStdin(), out, fmt.Sprintf("card %d overflows. Split it into two cards?", i+1)) {
			continue
		}
		sibling, err := d.Split(i)
		if err != nil {
			return err
		}
		success(out, "card %d split; new card %s inserted after it", i+1, sibling.ID)

		// 前半部分重新测量；新卡片在下一轮处理
		first, err := d.At(i)
		if err != nil {
			return err
		}
		res, err = fitCard(d, i, first, m, opts.apply)
		if err != nil {
			failure(out, "card %d: %v", i+1, err)
			continue
		}
		report(cmd, i, res)
		if !res.Overflowing {
			overflowing--
		}
	}

	if overflowing > 0 {
		warn(out, "%d card(s) still overflow", overflowing)
	}
	if opts.out != "" {
		if err := writeProject(opts.out, d, project); err != nil {
			return err
		}
		success(out, "project written to %s", opts.out)
	}
	return nil
}

func fitCard(d *deck.Deck, i int, c card.Card, m fit.Measurer, apply bool) (fit.Result, error) {
	if apply {
		return d.Fit(i, m)
	}
	return fit.Resolve(c, m)
}

func report(cmd *cobra.Command, i int, res fit.Result) {
	out := cmd.OutOrStdout()
	notices := res.Notices()
	if len(notices) == 0 {
		success(out, "card %d: fits (%.0f/%.0fpx)", i+1, res.Height, res.Available)
		return
	}
	for _, n := range notices {
		if res.Overflowing {
			warn(out, "card %d: %s", i+1, n)
		} else {
			info(out, "card %d: %s", i+1, n)
		}
	}
}
