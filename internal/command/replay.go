package command

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

func Replay() *cobra.Command {
	var first string

	cmd := &cobra.Command{
		Use:   "replay [cells...]",
		Short: "Play a sequence of cells on a fresh board",
		Long: heredoc.Doc(`
			Plays the given cells (0-8, row by row) in order, alternating
			marks, then prints the board and the outcome. Stops at the first
			rejected move.
		`),
		Example: heredoc.Doc(`
			$ tictactoe replay 0 3 1 4 2
			$ tictactoe replay --first O 4 0 8
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			firstMover, err := entity.ParseMark(first)
			if err != nil {
				return err
			}

			game := entity.NewGame(firstMover)

			for i, arg := range args {
				cell, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("move %d: %q is not a cell number", i+1, arg)
				}

				mover := game.Turn()
				if err = game.AttemptMove(cell); err != nil {
					return fmt.Errorf("move %d (%s at %d): %w", i+1, mover, cell, err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, game.Board())
			fmt.Fprintf(out, "outcome: %s\n", game.Outcome())
			if game.Outcome().IsInProgress() {
				fmt.Fprintf(out, "turn: %s\n", game.Turn())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&first, "first", "f", string(entity.MarkX), "Mark that moves first (X or O)")

	return cmd
}
