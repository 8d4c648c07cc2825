package commands

import (
	"github.com/spf13/cobra"
)

// NewApproveCmd creates the allowance approval command.
func NewApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve",
		Short: "Grant the staking contract a token allowance",
		Long:  "Grant the staking contract an unlimited SORAYIA allowance so stakes do not need per-transaction approvals.",
		RunE:  runApprove,
	}
}

func runApprove(cmd *cobra.Command, args []string) error {
	env, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.session.Refresh(cmd.Context()); err != nil {
		return err
	}

	if err := env.session.Approve(cmd.Context()); err != nil {
		return err
	}

	Success("allowance granted")
	return nil
}
