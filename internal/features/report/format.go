package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// LinkTemplates are printf templates with a single %s for the address.
type LinkTemplates struct {
	AddressURL   string
	ChartURL     string
	ExplorerName string
}

func (l LinkTemplates) address(addr string) string {
	return fmt.Sprintf(l.AddressURL, addr)
}

func (l LinkTemplates) chart(addr string) string {
	return fmt.Sprintf(l.ChartURL, addr)
}

func (l LinkTemplates) explorerName() string {
	if l.ExplorerName == "" {
		return "explorer"
	}
	return l.ExplorerName
}

// escape guards every string that came from an upstream.
func escape(s string) string {
	return html.EscapeString(s)
}

func link(url, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, escape(url), escape(text))
}

func symbolOrPlaceholder(symbol string) string {
	if strings.TrimSpace(symbol) == "" {
		return "???"
	}
	return symbol
}

// formatUSD renders 1234.5 as $1,234.50.
func formatUSD(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.InexactFloat64())
}

// formatUSDWhole renders 98765.4 as $98,765.
func formatUSDWhole(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.6f", v)
}

func formatChange(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// formatTokenAmount renders large amounts with K/M/B suffixes and small ones with
// up to four decimals, trailing zeros removed. The unit is picked after rounding, so
// 999999 becomes 1M rather than 1000K.
func formatTokenAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return "0"
	}

	thousand := decimal.New(1, 3)
	plain := d.Round(4)
	if plain.Abs().LessThan(thousand) {
		return plain.String()
	}

	units := []struct {
		threshold decimal.Decimal
		suffix    string
	}{
		{decimal.New(1, 3), "K"},
		{decimal.New(1, 6), "M"},
		{decimal.New(1, 9), "B"},
	}
	for i, u := range units {
		q := d.Div(u.threshold).Round(1)
		if q.Abs().LessThan(thousand) || i == len(units)-1 {
			return q.String() + u.suffix
		}
	}
	return plain.String()
}
