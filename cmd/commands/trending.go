package commands

import (
	"fmt"

	"base-wallet-bot/internal/features/report"
	"base-wallet-bot/internal/features/tg_charts"
	"base-wallet-bot/internal/features/trending"
	"base-wallet-bot/internal/gateway"
	"base-wallet-bot/internal/infra/config"
	logging "base-wallet-bot/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the top tokens by 24h volume",
	RunE:  runTrending,
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the trending 24h volume chart to a PNG file",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringP("out", "o", "etc/charts/trending.png", "output PNG path")
}

func newTrendingService(cfg *config.Config) *trending.Service {
	return trending.NewService(gateway.New(cfg), cfg.Analysis.TrendingQuery, cfg.Chain.DexChainID, cfg.Analysis.TrendingTopN)
}

func runTrending(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntime(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	pairs := newTrendingService(cfg).Top(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), report.Trending(pairs, linkTemplates(cfg), cfg.Chain.Name))
	return nil
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntime(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	out, _ := cmd.Flags().GetString("out")

	pairs := newTrendingService(cfg).Top(cmd.Context())
	png, err := tg_charts.RenderTrendingVolume(pairs, "Top tokens on "+cfg.Chain.Name+" by 24h volume")
	if err != nil {
		return err
	}
	if err := tg_charts.SavePNG(out, png); err != nil {
		return err
	}

	logging.LogSuccess("Chart saved", zap.String("path", out), zap.Int("bars", len(pairs)))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
