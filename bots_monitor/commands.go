package bots_monitor

// Telegram command surface: update loop, routing and replies.

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"
	"time"

	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/features/activity"
	"base-wallet-bot/internal/features/report"
	"base-wallet-bot/internal/features/tg_charts"
	log "base-wallet-bot/internal/infra/log"
	"base-wallet-bot/internal/infra/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the handler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type WalletAnalyzer interface {
	Analyze(ctx context.Context, address string) (domain.WalletReport, error)
}

type TrendingSource interface {
	Top(ctx context.Context) []domain.PairInfo
}

type HandlerOptions struct {
	Links      report.LinkTemplates
	ChainLabel string
	// HandlerTimeout bounds one update end to end; 0 means 30s.
	HandlerTimeout time.Duration
}

// CommandHandler routes chat messages. Each update runs in its own goroutine and
// nothing is shared between updates besides the read-only dependencies.
type CommandHandler struct {
	sender   Sender
	analyzer WalletAnalyzer
	trending TrendingSource
	opts     HandlerOptions
	inFlight sync.WaitGroup
}

func NewCommandHandler(sender Sender, analyzer WalletAnalyzer, trending TrendingSource, opts HandlerOptions) *CommandHandler {
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = 30 * time.Second
	}
	return &CommandHandler{sender: sender, analyzer: analyzer, trending: trending, opts: opts}
}

// Run consumes updates until ctx is cancelled or the channel is closed.
func (h *CommandHandler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	log.LogInfo("Starting command handler", zap.String("chain", h.opts.ChainLabel))

	for {
		select {
		case <-ctx.Done():
			log.LogInfo("Command handler stopped", zap.Error(ctx.Err()))
			return
		case update, ok := <-updates:
			if !ok {
				log.LogInfo("Update channel closed, command handler stopped")
				return
			}
			h.inFlight.Add(1)
			go func(update tgbotapi.Update) {
				defer h.inFlight.Done()
				h.HandleUpdate(ctx, update)
			}(update)
		}
	}
}

// Wait blocks until in-flight updates finish or timeout elapses. It reports whether
// everything finished.
func (h *CommandHandler) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		h.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// HandleUpdate processes one update synchronously.
func (h *CommandHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.opts.HandlerTimeout)
	defer cancel()

	if message.IsCommand() {
		command := message.Command()

		log.LogDebug("Received command",
			zap.String("command", command),
			zap.Int64("chatID", message.Chat.ID))

		switch command {
		case "start", "help":
			metrics.IncCommand(command)
			h.reply(message, report.WelcomeMessage(h.opts.ChainLabel))
		case "trending":
			metrics.IncCommand(command)
			h.handleTrendingCommand(ctx, message)
		case "chart":
			metrics.IncCommand(command)
			h.handleChartCommand(ctx, message)
		default:
			log.LogDebug("Ignoring unknown command", zap.String("command", command))
		}
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	metrics.IncCommand("address")
	h.handleAddress(ctx, message, text)
}

func (h *CommandHandler) handleTrendingCommand(ctx context.Context, message *tgbotapi.Message) {
	h.reply(message, report.FetchingTrendingMessage())

	pairs := h.trending.Top(ctx)
	h.reply(message, report.Trending(pairs, h.opts.Links, h.opts.ChainLabel))
}

func (h *CommandHandler) handleChartCommand(ctx context.Context, message *tgbotapi.Message) {
	h.reply(message, report.FetchingTrendingMessage())

	pairs := h.trending.Top(ctx)
	if len(pairs) == 0 {
		h.reply(message, report.TrendingUnavailableMessage())
		return
	}

	title := "Top tokens on " + h.opts.ChainLabel + " by 24h volume"
	png, err := tg_charts.RenderTrendingVolume(pairs, title)
	if err != nil {
		log.LogError("Failed to render trending chart", zap.Error(err))
		h.reply(message, report.Trending(pairs, h.opts.Links, h.opts.ChainLabel))
		return
	}

	photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{Name: "trending.png", Bytes: png})
	photo.Caption = "🔥 <b>" + html.EscapeString(title) + "</b>"
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyToMessageID = message.MessageID

	if _, err := h.sender.Send(photo); err != nil {
		metrics.IncSendFailure()
		log.LogError("Failed to send trending chart", zap.Error(err))
		h.reply(message, report.Trending(pairs, h.opts.Links, h.opts.ChainLabel))
	}
}

func (h *CommandHandler) handleAddress(ctx context.Context, message *tgbotapi.Message, text string) {
	if !domain.IsWalletAddress(text) {
		metrics.IncWalletReport("invalid")
		h.reply(message, report.InvalidAddressMessage(h.opts.ChainLabel))
		return
	}

	h.reply(message, report.AnalyzingMessage())

	walletReport, err := h.analyzer.Analyze(ctx, text)
	switch {
	case errors.Is(err, activity.ErrNoActivity):
		metrics.IncWalletReport("no_activity")
		h.reply(message, report.NoActivityMessage(h.opts.ChainLabel))
	case err != nil:
		metrics.IncWalletReport("invalid")
		log.LogWarn("Wallet analysis rejected", zap.String("address", text), zap.Error(err))
		h.reply(message, report.InvalidAddressMessage(h.opts.ChainLabel))
	default:
		metrics.IncWalletReport("report")
		h.reply(message, report.WalletReport(walletReport, h.opts.Links))
	}
}

func (h *CommandHandler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyToMessageID = message.MessageID

	if _, err := h.sender.Send(msg); err != nil {
		metrics.IncSendFailure()
		log.LogError("Failed to send message",
			zap.Int64("chatID", message.Chat.ID),
			zap.Error(err))
	}
}
