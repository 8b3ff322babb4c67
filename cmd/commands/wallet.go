package commands

import (
	"errors"
	"fmt"

	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/features/activity"
	"base-wallet-bot/internal/features/report"
	"base-wallet-bot/internal/features/wallet"
	"base-wallet-bot/internal/gateway"
	logging "base-wallet-bot/internal/infra/log"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet <address>",
	Short: "Analyze one wallet and print the report",
	Long:  `Fetch balance, price and recent token transfers for a wallet and print the same HTML report the bot sends.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWallet,
}

func runWallet(cmd *cobra.Command, args []string) error {
	address := args[0]
	if !domain.IsWalletAddress(address) {
		return fmt.Errorf("%w: %q (example: %s)", wallet.ErrInvalidAddress, address, report.ExampleAddress)
	}

	cfg, err := loadRuntime(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	if err := cfg.RequireExplorer(); err != nil {
		return err
	}

	analyzer := wallet.NewAnalyzer(gateway.New(cfg), cfg.Analysis.TransferLimit, cfg.Analysis.MaxSummaries)
	walletReport, err := analyzer.Analyze(cmd.Context(), address)

	out := cmd.OutOrStdout()
	switch {
	case errors.Is(err, activity.ErrNoActivity):
		fmt.Fprintln(out, report.NoActivityMessage(cfg.Chain.Name))
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(out, report.WalletReport(walletReport, linkTemplates(cfg)))
	return nil
}
