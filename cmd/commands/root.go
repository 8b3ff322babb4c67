package commands

// Root command for Cobra CLI
// Registers all subcommands (bot, wallet, trending, chart) and the shared flags

import (
	"fmt"
	"time"

	"base-wallet-bot/internal/features/report"
	"base-wallet-bot/internal/infra/config"
	logging "base-wallet-bot/internal/infra/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "base-wallet-bot",
	Short: "Base Wallet Tracker - Telegram bot for wallet activity and trending tokens on Base",
	Long: `Base Wallet Tracker summarizes what a wallet on Base is buying and selling, using
read-only explorer, price and DEX data. It runs as a Telegram bot or from the terminal.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	// Flag names match config keys so viper binds them directly.
	flags.String("app.log_level", "info", "log level (debug, info, warn, error)")
	flags.String("app.logs_dir", "logs", "directory for app.log; empty disables file logging")
	flags.Duration("upstream.timeout", 5*time.Second, "per-call upstream timeout")
	flags.Int("analysis.transfer_limit", 30, "number of recent token transfers to analyze")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(chartCmd)
}

// loadRuntime reads configuration and initializes logging for a subcommand.
// console enables SUCCESS/ERROR lines on stderr.
func loadRuntime(cmd *cobra.Command, console bool) (*config.Config, error) {
	// Flags left unset fall through to config.yaml, env and defaults.
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(logging.Options{
		Dir:     cfg.App.LogsDir,
		Level:   cfg.App.LogLevel,
		Console: console,
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func linkTemplates(cfg *config.Config) report.LinkTemplates {
	return report.LinkTemplates{
		AddressURL:   cfg.Chain.AddressURL,
		ChartURL:     cfg.Chain.ChartURL,
		ExplorerName: cfg.Chain.ExplorerName,
	}
}
