package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sorayia-labs/stakectl/cmd/stakectl/commands"
)

var rootCmd = &cobra.Command{
	Use:   "stakectl",
	Short: "SORAYIA staking controller for BSC",
	Long:  "Stake, withdraw and claim SORAYIA on BNB Smart Chain with transaction throttling, network checks and continuous state sync",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&commands.ConfigPath, "config", "", "Path to config file (default: ~/.stakectl/config.yaml)")
}

func main() {
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewApproveCmd())
	rootCmd.AddCommand(commands.NewStakeCmd())
	rootCmd.AddCommand(commands.NewWithdrawCmd())
	rootCmd.AddCommand(commands.NewClaimCmd())
	rootCmd.AddCommand(commands.NewWatchCmd())
	rootCmd.AddCommand(commands.NewConfigCmd())
	rootCmd.AddCommand(commands.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
