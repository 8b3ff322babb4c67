package tg_charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"base-wallet-bot/internal/domain"
	logging "base-wallet-bot/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

const (
	chartWidth  = 1600
	chartHeight = 900

	titleX = 80.0
	titleY = 90.0

	chartAreaLeft   = 120.0
	chartAreaRight  = 1520.0
	chartAreaTop    = 200.0
	chartAreaBottom = 780.0

	barSpacing     = 24.0
	gridLinesCount = 4

	titleFontSize    = 44.0
	barValueFontSize = 22.0
	labelFontSize    = 22.0

	barValueOffsetY = 12.0
	labelOffsetY    = 40.0
)

var (
	backgroundColor = color.RGBA{16, 18, 27, 255}
	gridColor       = color.RGBA{60, 64, 80, 255}
	risingBarColor  = color.RGBA{0, 200, 120, 255}
	fallingBarColor = color.RGBA{220, 70, 70, 255}
)

// ErrNoPairs is returned when there is nothing to draw.
var ErrNoPairs = errors.New("no pairs to chart")

var fontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// findFont returns the first loadable TrueType font, or "" to fall back to gg's built-in face.
func findFont() string {
	for _, path := range fontPaths {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			if _, err := gg.LoadFontFace(path, labelFontSize); err == nil {
				return path
			}
		}
	}
	logging.LogDebug("No TrueType font found, using built-in face", zap.Int("paths_checked", len(fontPaths)))
	return ""
}

// RenderTrendingVolume draws one bar per pair, height proportional to 24h volume, and
// returns the PNG bytes. Bars are green for a positive 24h price change, red otherwise.
func RenderTrendingVolume(pairs []domain.PairInfo, title string) ([]byte, error) {
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(backgroundColor)
	dc.Clear()

	fontPath := findFont()
	setFont := func(size float64) {
		if fontPath != "" {
			dc.LoadFontFace(fontPath, size)
		}
	}

	setFont(titleFontSize)
	dc.SetColor(color.White)
	dc.DrawString(title, titleX, titleY)

	maxVolume := 0.0
	for _, p := range pairs {
		if p.Volume24h > maxVolume {
			maxVolume = p.Volume24h
		}
	}
	if maxVolume <= 0 {
		maxVolume = 1.0
	}

	chartAreaHeight := chartAreaBottom - chartAreaTop

	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for i := 0; i <= gridLinesCount; i++ {
		y := chartAreaBottom - float64(i)/gridLinesCount*chartAreaHeight
		dc.DrawLine(chartAreaLeft, y, chartAreaRight, y)
		dc.Stroke()
	}

	slot := (chartAreaRight - chartAreaLeft) / float64(len(pairs))
	barWidth := slot - barSpacing
	if barWidth < 4 {
		barWidth = 4
	}

	for i, p := range pairs {
		barX := chartAreaLeft + float64(i)*slot + barSpacing/2
		barHeight := (p.Volume24h / maxVolume) * chartAreaHeight
		if barHeight < 0 {
			barHeight = 0
		}
		barY := chartAreaBottom - barHeight

		if p.PriceChange24h > 0 {
			dc.SetColor(risingBarColor)
		} else {
			dc.SetColor(fallingBarColor)
		}
		dc.DrawRectangle(barX, barY, barWidth, barHeight)
		dc.Fill()

		dc.SetColor(color.White)
		setFont(barValueFontSize)
		valueText := "$" + formatCompactUSD(p.Volume24h)
		textWidth, _ := dc.MeasureString(valueText)
		dc.DrawString(valueText, barX+(barWidth-textWidth)/2, barY-barValueOffsetY)

		setFont(labelFontSize)
		label := symbolLabel(p.Symbol)
		labelWidth, _ := dc.MeasureString(label)
		dc.DrawString(label, barX+(barWidth-labelWidth)/2, chartAreaBottom+labelOffsetY)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("chart is empty after rendering")
	}

	logging.LogInfo("Trending chart rendered",
		zap.Int("bars", len(pairs)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// SavePNG writes a rendered chart, creating parent directories as needed.
func SavePNG(path string, png []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

func symbolLabel(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "???"
	}
	if len(symbol) > 8 {
		return symbol[:8]
	}
	return symbol
}

// formatCompactUSD renders 1234567 as 1.2M.
func formatCompactUSD(v float64) string {
	trim := func(s string) string {
		return strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	switch {
	case v >= 1e9:
		return trim(fmt.Sprintf("%.1f", v/1e9)) + "B"
	case v >= 1e6:
		return trim(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trim(fmt.Sprintf("%.1f", v/1e3)) + "K"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
