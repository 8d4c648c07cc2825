package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the staking status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Staking position and balances",
		Long:  "Display your SORAYIA balance, staked amount, pending rewards and lock countdown.",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.session.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to read on-chain state: %w", err)
	}
	env.session.Tick()

	snap := env.session.Snapshot()
	decimals := env.session.Decimals()

	allowance := FormatToken(snap.Allowance, decimals)
	if snap.Allowance != nil && snap.Balance != nil && snap.Allowance.Cmp(snap.Balance) >= 0 {
		allowance = "unlimited"
	}

	fmt.Println(StatusBox("SORAYIA Staking", [][2]string{
		{"Account", FormatAddress(env.session.Address().Hex())},
		{"Balance", FormatToken(snap.Balance, decimals)},
		{"Staked", FormatToken(snap.Position.StakedAmount, decimals)},
		{"Rewards", FormatToken(snap.Position.PendingRewards, decimals)},
		{"Allowance", allowance},
		{"Lock", FormatTimeLeft(env.session.TimeLeft())},
	}))

	fmt.Println(StatusBox("Contract", [][2]string{
		{"Min stake", FormatToken(snap.Bounds.MinStake, decimals)},
		{"Max stake", FormatToken(snap.Bounds.MaxStake, decimals)},
		{"Lock period", snap.Bounds.LockPeriod.String()},
		{"Total staked", FormatToken(snap.Bounds.TotalStaked, decimals)},
	}))

	return nil
}
