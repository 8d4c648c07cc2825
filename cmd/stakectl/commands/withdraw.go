package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWithdrawCmd creates the withdraw command.
func NewWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw staked SORAYIA",
		Long:  "Withdraw the given amount from your staked position once the lock period has elapsed.",
		Args:  cobra.ExactArgs(1),
		RunE:  runWithdraw,
	}
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	env, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.session.Refresh(cmd.Context()); err != nil {
		return err
	}
	env.session.Tick()

	amount := args[0]
	if err := env.session.Withdraw(cmd.Context(), amount); err != nil {
		if left := env.session.TimeLeft(); !left.Zero() {
			fmt.Println(Hint(fmt.Sprintf("lock period is active, unlocks in %s", FormatTimeLeft(left))))
		}
		return err
	}

	snap := env.session.Snapshot()
	Success(fmt.Sprintf("withdrew %s", amount))
	fmt.Println(StatusBox("Position", [][2]string{
		{"Staked", FormatToken(snap.Position.StakedAmount, env.session.Decimals())},
		{"Balance", FormatToken(snap.Balance, env.session.Decimals())},
	}))

	return nil
}
