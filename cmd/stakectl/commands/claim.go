package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClaimCmd creates the rewards claim command.
func NewClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim pending staking rewards",
		RunE:  runClaim,
	}
}

func runClaim(cmd *cobra.Command, args []string) error {
	env, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.session.Refresh(cmd.Context()); err != nil {
		return err
	}

	snap := env.session.Snapshot()
	pending := snap.Position.PendingRewards
	if pending == nil || pending.Sign() == 0 {
		Info("no rewards to claim")
		return nil
	}

	if err := env.session.Claim(cmd.Context()); err != nil {
		return err
	}

	Success(fmt.Sprintf("claimed %s", FormatToken(pending, env.session.Decimals())))
	return nil
}
