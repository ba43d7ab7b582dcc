package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ten-exorcism/backend/internal/engine"
	"github.com/ten-exorcism/backend/internal/session"
)

func newReplayCmd() *cobra.Command {
	var showBoard bool

	replayCmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Walk through a recorded session action by action",
		Long: `Replay a recorded session from its seed, printing every action with the
result recomputed on the replayed board and the running score. Actions whose
logged result disagrees with the replay are marked with '!'.

Examples:
  tenctl replay session.json
  tenctl replay session.json --board`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := readSessions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			for _, gs := range sessions {
				fmt.Fprintf(out, "Session %s seed=%d actions=%d\n", gs.SessionID, gs.BoardSeed, len(gs.Actions))

				board, score := session.Walk(gs, func(step session.Step) {
					mark := " "
					if session.ResultOf(step.Result) != step.Action.Result {
						mark = "!"
					}
					sel := step.Action.Selection
					fmt.Fprintf(out, "%s #%-3d %7dms (%d,%d)-(%d,%d) sum=%-3d tiles=%-3d %-7s score=%d\n",
						mark, step.Index, step.Action.TimestampMs,
						sel.StartRow, sel.StartCol, sel.EndRow, sel.EndCol,
						step.Result.Sum, step.Result.TileCount,
						session.ResultOf(step.Result), step.Score)
				})

				if showBoard {
					fmt.Fprint(out, board.String())
				}
				fmt.Fprintf(out, "Replayed score: %d, claimed: %d, complete: %t, moves left: %t\n",
					score, gs.FinalScore, gs.IsComplete, engine.HasValidMoves(board))
			}
			return nil
		},
	}

	replayCmd.Flags().BoolVarP(&showBoard, "board", "b", false, "Print the final replayed board")

	return replayCmd
}
