// Package cli implements tenctl, the offline tool for inspecting boards and
// auditing recorded sessions.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ten-exorcism/backend/internal/session"
)

// NewRootCmd builds the tenctl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tenctl",
		Short: "Inspect ten-exorcism boards and audit recorded sessions",
		Long: `tenctl regenerates boards from their seed and replays recorded sessions
to check the scores they claim.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newBoardCmd(), newVerifyCmd(), newReplayCmd())
	return rootCmd
}

// Execute runs tenctl with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// readSessions loads a session file holding either one session record or a
// JSON array of them.
func readSessions(path string) ([]session.GameSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		var sessions []session.GameSession
		if err := json.Unmarshal(data, &sessions); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return sessions, nil
	}

	var gs session.GameSession
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []session.GameSession{gs}, nil
}
