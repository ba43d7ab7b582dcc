package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ten-exorcism/backend/internal/service"
)

// ErrVerificationFailed is returned when at least one session fails its audit.
var ErrVerificationFailed = errors.New("one or more sessions failed verification")

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE...",
		Short: "Replay session files and check their claimed scores",
		Long: `Replay every session in the given files from its seed and compare the
replayed score with the claimed final score. A file may hold one session
record or a JSON array of them. Exits non-zero when any session fails.

Examples:
  tenctl verify session.json
  tenctl verify export/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, path := range args {
				sessions, err := readSessions(path)
				if err != nil {
					return err
				}
				for _, gs := range sessions {
					v := service.VerifySession(gs)
					switch {
					case v.Verified:
						fmt.Fprintf(out, "OK    %s %s score=%d\n", path, v.SessionID, v.ReplayedScore)
					case !v.IsComplete:
						failed++
						fmt.Fprintf(out, "FAIL  %s %s not finalized (replayed=%d)\n", path, v.SessionID, v.ReplayedScore)
					default:
						failed++
						fmt.Fprintf(out, "FAIL  %s %s claimed=%d replayed=%d\n", path, v.SessionID, v.ClaimedScore, v.ReplayedScore)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d", ErrVerificationFailed, failed)
			}
			return nil
		},
	}
}
