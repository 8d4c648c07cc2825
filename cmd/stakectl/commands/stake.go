package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sorayia-labs/stakectl/internal/security"
)

// NewStakeCmd creates the stake command.
func NewStakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stake <amount>",
		Short: "Stake SORAYIA tokens",
		Long:  "Validate and stake the given token amount. The amount must be within the contract's min/max bounds and covered by your balance and allowance.",
		Args:  cobra.ExactArgs(1),
		RunE:  runStake,
	}
}

func runStake(cmd *cobra.Command, args []string) error {
	env, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.session.Refresh(cmd.Context()); err != nil {
		return err
	}

	amount := args[0]
	if err := env.session.Stake(cmd.Context(), amount); err != nil {
		if errors.Is(err, security.ErrInsufficientAllowance) {
			Error("allowance too low")
			fmt.Println(Hint("run 'stakectl approve' first"))
		}
		return err
	}

	snap := env.session.Snapshot()
	Success(fmt.Sprintf("staked %s", amount))
	fmt.Println(StatusBox("Position", [][2]string{
		{"Staked", FormatToken(snap.Position.StakedAmount, env.session.Decimals())},
		{"Lock", FormatTimeLeft(env.session.TimeLeft())},
	}))

	return nil
}
