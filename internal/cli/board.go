package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ten-exorcism/backend/internal/engine"
)

func newBoardCmd() *cobra.Command {
	var (
		seed   uint32
		asJSON bool
	)

	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Print the board generated from a seed",
		Long: `Print the 10x17 board a seed generates, row by row.

Examples:
  tenctl board --seed 12345
  tenctl board --seed 12345 --json
  tenctl board            # random seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = engine.GenerateSeed()
			}
			board := engine.NewBoardFromSeed(seed)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				return enc.Encode(struct {
					Seed          uint32       `json:"seed"`
					Board         engine.Board `json:"board"`
					HasValidMoves bool         `json:"has_valid_moves"`
				}{seed, board, engine.HasValidMoves(board)})
			}

			fmt.Fprintf(out, "Seed: %d\n", seed)
			fmt.Fprint(out, board.String())
			if move, ok := engine.FindValidMove(board); ok {
				fmt.Fprintf(out, "First valid move: (%d,%d)-(%d,%d)\n",
					move.StartRow, move.StartCol, move.EndRow, move.EndCol)
			} else {
				fmt.Fprintln(out, "No valid moves")
			}
			return nil
		},
	}

	boardCmd.Flags().Uint32VarP(&seed, "seed", "s", 0, "Board seed (random when omitted)")
	boardCmd.Flags().BoolVar(&asJSON, "json", false, "Print the board as JSON")

	return boardCmd
}
