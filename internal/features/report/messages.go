package report

import (
	"fmt"
	"strings"

	"base-wallet-bot/internal/domain"
)

// ExampleAddress is shown in usage hints.
const ExampleAddress = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

const disclaimer = "<i>Amounts are indicative and for display only.</i>"

func WelcomeMessage(chainLabel string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("🔵 <b>%s Wallet Tracker Bot</b>\n\n", escape(chainLabel)))
	msg.WriteString(fmt.Sprintf("Send me any %s wallet address and I'll show you:\n", escape(chainLabel)))
	msg.WriteString("• 💰 ETH balance\n")
	msg.WriteString("• 🪙 What tokens they're buying/selling\n")
	msg.WriteString("• 📊 Recent activity\n\n")
	msg.WriteString("<b>Commands:</b>\n")
	msg.WriteString(fmt.Sprintf("/trending - Top tokens on %s\n", escape(chainLabel)))
	msg.WriteString("/chart - 24h volume chart of the top tokens\n")
	msg.WriteString("/help - Show this message\n\n")
	msg.WriteString("<b>Example:</b>\n")
	msg.WriteString("Just paste a wallet address like:\n")
	msg.WriteString("<code>0x1234...abcd</code>")
	return msg.String()
}

func InvalidAddressMessage(chainLabel string) string {
	return "❌ That doesn't look like a valid wallet address.\n\n" +
		fmt.Sprintf("Send me a %s wallet address (starts with 0x, 42 characters).\n\n", escape(chainLabel)) +
		fmt.Sprintf("Example: <code>%s</code>", ExampleAddress)
}

func NoActivityMessage(chainLabel string) string {
	return fmt.Sprintf("❌ No activity found for this wallet on %s.\n\n", escape(chainLabel)) +
		fmt.Sprintf("Make sure it's a valid %s wallet address.", escape(chainLabel))
}

func AnalyzingMessage() string {
	return "🔍 Analyzing wallet..."
}

func FetchingTrendingMessage() string {
	return "🔍 Fetching trending tokens..."
}

func TrendingUnavailableMessage() string {
	return "❌ Couldn't fetch trending tokens. Try again later."
}

func actionEmoji(a domain.Action) string {
	switch a {
	case domain.ActionBuying:
		return "🟢"
	case domain.ActionSelling:
		return "🔴"
	default:
		return "⚪"
	}
}

// WalletReport renders an analysis as Telegram HTML.
func WalletReport(r domain.WalletReport, links LinkTemplates) string {
	snapshot := r.Snapshot

	var msg strings.Builder
	msg.WriteString("🔍 <b>WALLET ANALYSIS</b>\n\n")
	msg.WriteString(fmt.Sprintf("📍 <code>%s</code>\n", escape(domain.ShortenAddress(snapshot.Address))))
	msg.WriteString(fmt.Sprintf("🔗 %s\n\n", link(links.address(snapshot.Address), "View on "+links.explorerName())))
	msg.WriteString(fmt.Sprintf("💰 <b>ETH Balance:</b> %s ETH (%s)\n\n",
		snapshot.EthBalance.StringFixed(4), formatUSD(snapshot.ValueUSD())))

	if len(r.Summaries) == 0 {
		msg.WriteString("📊 No recent token activity found.\n\n")
	} else {
		msg.WriteString("📊 <b>RECENT TOKEN ACTIVITY</b>\n\n")
		for _, s := range r.Summaries {
			action := s.Action()
			msg.WriteString(fmt.Sprintf("%s <b>%s</b> - %s\n", actionEmoji(action), escape(symbolOrPlaceholder(s.Symbol)), action))
			msg.WriteString(fmt.Sprintf("   Buys: %d (%s) | Sells: %d (%s)\n",
				s.BuyCount, formatTokenAmount(s.BuyAmount), s.SellCount, formatTokenAmount(s.SellAmount)))
			msg.WriteString(fmt.Sprintf("   %s\n\n", link(links.chart(s.Address), "Chart")))
		}
	}

	if p := r.TopTraded; p != nil {
		msg.WriteString(fmt.Sprintf("🎯 <b>TOP TRADED: %s</b>\n", escape(symbolOrPlaceholder(p.Symbol))))
		msg.WriteString(fmt.Sprintf("   💵 Price: %s\n", formatPrice(p.PriceUSD)))
		msg.WriteString(fmt.Sprintf("   📈 24h: %s\n", formatChange(p.PriceChange24h)))
		msg.WriteString(fmt.Sprintf("   💧 Liquidity: %s\n\n", formatUSDWhole(p.LiquidityUSD)))
	}

	if len(r.Unavailable) > 0 {
		msg.WriteString(fmt.Sprintf("⚠️ Some data sources were unavailable (%s); affected values are shown as zero.\n\n",
			escape(strings.Join(r.Unavailable, ", "))))
	}

	msg.WriteString(disclaimer)
	return msg.String()
}

// Trending renders the ranked pair list, or the unavailable notice when empty.
func Trending(pairs []domain.PairInfo, links LinkTemplates, chainLabel string) string {
	if len(pairs) == 0 {
		return TrendingUnavailableMessage()
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("🔥 <b>TOP TOKENS ON %s (by 24h volume)</b>\n\n", escape(strings.ToUpper(chainLabel))))

	for i, p := range pairs {
		emoji := "🔴"
		if p.PriceChange24h > 0 {
			emoji = "🟢"
		}
		msg.WriteString(fmt.Sprintf("%d. <b>%s</b> %s %s\n", i+1, escape(symbolOrPlaceholder(p.Symbol)), emoji, formatChange(p.PriceChange24h)))
		msg.WriteString(fmt.Sprintf("   💵 %s | Vol: %s\n", formatPrice(p.PriceUSD), formatUSDWhole(p.Volume24h)))
		msg.WriteString(fmt.Sprintf("   %s\n\n", link(links.chart(p.TokenAddress), "Chart")))
	}

	return strings.TrimRight(msg.String(), "\n")
}
