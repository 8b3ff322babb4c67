package commands

// Command to run the Telegram bot
// Wires gateway, analyzer and trending service into the command handler
// Optionally starts the ops HTTP server (/health, /live, /metrics)
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"base-wallet-bot/bots_monitor"
	"base-wallet-bot/internal/features/trending"
	"base-wallet-bot/internal/features/wallet"
	"base-wallet-bot/internal/gateway"
	"base-wallet-bot/internal/infra/config"
	logging "base-wallet-bot/internal/infra/log"
	"base-wallet-bot/internal/infra/opsserver"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownGracePeriod = 10 * time.Second

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long:  `Run the Telegram bot: wallet analysis for pasted addresses, /trending and /chart.`,
	RunE:  runBot,
}

func init() {
	botCmd.Flags().String("app.ops_addr", "", "listen address for /health, /live and /metrics (empty disables)")
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer logging.Sync()

	if err := cfg.RequireBot(); err != nil {
		logging.LogError("Invalid bot configuration", zap.Error(err))
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logging.LogError("Failed to initialize bot", zap.Error(err))
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	logging.LogSuccess("Bot authorized", zap.String("username", bot.Self.UserName))

	gw := gateway.New(cfg)
	handler := newCommandHandler(cfg, bot, gw)

	var wg sync.WaitGroup

	if cfg.App.OpsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := opsserver.Run(ctx, cfg.App.OpsAddr, gw); err != nil {
				logging.LogError("Ops server failed", zap.Error(err))
			}
		}()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.UpdateTimeout
	updates := bot.GetUpdatesChan(u)

	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.Run(ctx, updates)
	}()

	logging.LogSuccess("Bot is running", zap.String("chain", cfg.Chain.Name))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping...")

	bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGracePeriod):
		logging.LogWarn("Timeout waiting for background tasks to stop")
	}

	if handler.Wait(shutdownGracePeriod) {
		logging.LogSuccess("All handlers stopped gracefully")
	} else {
		logging.LogWarn("Timeout waiting for in-flight updates, forcing shutdown")
	}
	return nil
}

func newCommandHandler(cfg *config.Config, sender bots_monitor.Sender, gw *gateway.Gateway) *bots_monitor.CommandHandler {
	analyzer := wallet.NewAnalyzer(gw, cfg.Analysis.TransferLimit, cfg.Analysis.MaxSummaries)
	trendingSvc := trending.NewService(gw, cfg.Analysis.TrendingQuery, cfg.Chain.DexChainID, cfg.Analysis.TrendingTopN)

	return bots_monitor.NewCommandHandler(sender, analyzer, trendingSvc, bots_monitor.HandlerOptions{
		Links:          linkTemplates(cfg),
		ChainLabel:     cfg.Chain.Name,
		HandlerTimeout: cfg.HandlerTimeout(),
	})
}
