package notifier

import (
	"fmt"
	"strings"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
	"StockLens/internal/store"
	"StockLens/internal/strategy"
)

// FormatReport formats the current market view into a Telegram message.
func FormatReport(st *store.MarketState, ev *strategy.Evaluation) string {
	var b strings.Builder

	if !st.HasSymbol() {
		b.WriteString("📊 <b>StockLens</b>\n\nNo symbol loaded. Use /load SYMBOL.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("📊 <b>StockLens</b> | %s | %s | %s\n\n", st.Symbol, st.Period, time.Now().Format(model.DateLayout)))

	if st.Loading {
		b.WriteString("⏳ Loading...\n")
	}
	if st.Error != "" {
		b.WriteString(fmt.Sprintf("❌ %s\n", st.Error))
		return b.String()
	}

	latest, ok := st.LatestPrice()
	if !ok {
		b.WriteString("No price data.\n")
		return b.String()
	}
	first := st.Prices[0].Close
	change := 0.0
	if first != 0 {
		change = (latest.Close - first) / first * 100
	}
	b.WriteString(fmt.Sprintf("Close: %.2f (%s)\n", latest.Close, latest.Date))
	b.WriteString(fmt.Sprintf("Period change: %+.2f%% over %d bars\n\n", change, len(st.Prices)))

	// Enabled indicators
	b.WriteString("📈 <b>Indicators:</b>\n")
	for _, key := range st.Settings.EnabledKeys() {
		s, ok := st.Indicators.Series(key)
		v, defined := calculator.LatestValue(s)
		switch {
		case !ok || !defined:
			b.WriteString(fmt.Sprintf("  %s: n/a\n", strings.ToUpper(string(key))))
		case key == model.RSI:
			b.WriteString(fmt.Sprintf("  RSI: %.1f (%s)\n", v, calculator.ClassifyRSI(v)))
		case key == model.MACD:
			b.WriteString(fmt.Sprintf("  MACD: %.3f", v))
			if h, ok := calculator.LatestValue(st.Indicators.MACD.Histogram); ok {
				b.WriteString(fmt.Sprintf(" | hist %+.3f", h))
			}
			b.WriteString("\n")
		default:
			b.WriteString(fmt.Sprintf("  %s: %.2f\n", strings.ToUpper(string(key)), v))
		}
	}

	if ev != nil {
		b.WriteString("\n🧮 <b>Factor scores:</b>\n")
		for _, f := range ev.Factors {
			b.WriteString(fmt.Sprintf("  %s(%s): %+.1f (×%.2f) = %+.3f\n",
				f.Name, f.Commentary, f.RawScore, f.Weight, f.Weighted))
		}
		b.WriteString("  ─────────────────\n")
		b.WriteString(fmt.Sprintf("  Total: %+.3f\n\n", ev.TotalScore))
		b.WriteString(fmt.Sprintf("🧭 <b>Sentiment:</b> %s (%.0f%%)\n", ev.Sentiment.Label, ev.Sentiment.Confidence))
		if ev.Warning != "" {
			b.WriteString(fmt.Sprintf("\n⚠️ %s\n", ev.Warning))
		}
	}

	return b.String()
}

// FormatAlert formats an RSI status change alert.
func FormatAlert(symbol string, status calculator.RSIStatus, rsi, price float64) string {
	icon := "🔔"
	switch status {
	case calculator.StatusOverbought:
		icon = "🔥"
	case calculator.StatusOversold:
		icon = "🧊"
	}
	return fmt.Sprintf("%s <b>RSI alert</b> | %s\n\nRSI(14): %.1f → %s\nPrice: %.2f\n",
		icon, symbol, rsi, status, price)
}

// FormatSettings lists the indicator toggles.
func FormatSettings(settings model.IndicatorSettings) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Indicators</b>\n")
	for _, key := range model.IndicatorKeys {
		mark := "⬜"
		if settings.Enabled(key) {
			mark = "✅"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", mark, key))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	periods := make([]string, len(model.Periods))
	for i, p := range model.Periods {
		periods[i] = string(p)
	}
	keys := make([]string, len(model.IndicatorKeys))
	for i, k := range model.IndicatorKeys {
		keys[i] = string(k)
	}
	return "Commands:\n" +
		"• /load SYMBOL\n" +
		"• /period " + strings.Join(periods, "|") + "\n" +
		"• /toggle " + strings.Join(keys, "|") + "\n" +
		"• /status"
}
