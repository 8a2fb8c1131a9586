package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bookcard/fit"
)

func newSplitCmd(a *app) *cobra.Command {
	var (
		index int
		out   string
	)
	cmd := &cobra.Command{
		Use:   "split <project.json>",
		Short: "Split one card's text across two cards",
		Long: `Split divides the words of a card in two. The first card keeps the first
half (rounded up) and a new card with the remaining words is inserted right
after it, sharing the original's style, size and footer.

Example:
  bookcard split project.json --index 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, project, err := a.loadDeck(args[0], "")
			if err != nil {
				return err
			}
			i := index - 1
			c, err := d.At(i)
			if err != nil {
				return fmt.Errorf("card %d: %w", index, err)
			}
			if first, second := fit.Split(c); fit.Degenerate(first, second) {
				return fmt.Errorf("card %d has fewer than two words", index)
			}
			sibling, err := d.Split(i)
			if err != nil {
				return err
			}
			a.logger.Debug("card split", "index", i, "id", c.ID, "sibling", sibling.ID)

			target := out
			if target == "" {
				target = args[0]
			}
			if err := writeProject(target, d, project); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "card %d split into %d and %d (%d cards), written to %s", index, index, index+1, d.Len(), target)
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 1, "card to split (1-based)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output project file (default: overwrite the input)")
	return cmd
}
