package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TankSentinel/internal/alert"
	"TankSentinel/internal/calculator"
	"TankSentinel/internal/coordinator"
	"TankSentinel/internal/model"
	"TankSentinel/internal/parser"
	"TankSentinel/internal/recorder"
)

// HelpText lists the supported bot commands.
const HelpText = "Available commands:\n• /tanks - current tank levels\n• /refresh - poll the tanks now\n• /price - propane price\n• /status - poller status"

// FormatTankReport formats every tank in the snapshot into a Telegram message.
func FormatTankReport(snap *model.Snapshot) string {
	var b strings.Builder
	b.WriteString("🛢 <b>Propane tanks</b>")
	if snap != nil && !snap.FetchedAt.IsZero() {
		b.WriteString(fmt.Sprintf(" | %s", snap.FetchedAt.Format("2006-01-02 15:04")))
	}
	b.WriteString("\n\n")

	if snap.TankCount() == 0 {
		b.WriteString("No tanks reported.\n")
		return b.String()
	}

	for i := range snap.Tanks {
		t := &snap.Tanks[i]
		name, ok := t.DisplayName()
		if !ok {
			name = fmt.Sprintf("Tank %d", i+1)
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(name)))

		if t.Level == nil {
			b.WriteString("  Level: unknown\n")
		} else {
			b.WriteString(fmt.Sprintf("  Level: %.0f%%\n", *t.Level))
		}
		if gal := calculator.RemainingGallons(t.Level, t.TankCapacity); gal != nil {
			liters := calculator.RemainingLiters(t.Level, t.TankCapacity)
			b.WriteString(fmt.Sprintf("  Remaining: %.1f gal / %.1f L\n", *gal, *liters))
		}
		if psi, _ := calculator.NormalizePressure(t.TankLastPressure, t.PressureUnitOrDefault()); psi != nil {
			b.WriteString(fmt.Sprintf("  Pressure: %.2f psi\n", *psi))
		}
		if ts, ok := parser.ParseVendorDatePtr(t.LastReadingDate); ok {
			b.WriteString(fmt.Sprintf("  Last reading: %s\n", ts.Format("2006-01-02 15:04")))
		}
		b.WriteString("\n")
	}

	if snap.PricingEnabled {
		b.WriteString(priceLine(snap))
	}
	return b.String()
}

// FormatPrice formats the scraped propane price.
func FormatPrice(snap *model.Snapshot) string {
	if snap == nil || !snap.PricingEnabled {
		return "💲 Propane pricing is not configured."
	}
	return "💲 " + priceLine(snap)
}

func priceLine(snap *model.Snapshot) string {
	if snap.Price == nil {
		return "Propane price: unavailable\n"
	}
	return fmt.Sprintf("Propane price: $%s/gal\n", html.EscapeString(*snap.Price))
}

// FormatStatus formats the poller status and the most recent refresh cycles.
func FormatStatus(st coordinator.Status, recent []recorder.RefreshEvent) string {
	var b strings.Builder
	b.WriteString("📡 <b>Poller status</b>\n\n")
	b.WriteString(fmt.Sprintf("State: %s\n", st.State))
	if st.LastResult != "" {
		b.WriteString(fmt.Sprintf("Last result: %s\n", st.LastResult))
	}
	b.WriteString(fmt.Sprintf("Tanks: %d\n", st.TankCount))
	b.WriteString(fmt.Sprintf("Pricing: %v\n", st.PricingEnabled))
	if !st.LastSuccessAt.IsZero() {
		b.WriteString(fmt.Sprintf("Last success: %s\n", st.LastSuccessAt.Format("2006-01-02 15:04")))
	}
	if st.LastError != "" {
		b.WriteString(fmt.Sprintf("Last error: %s\n", html.EscapeString(st.LastError)))
	}

	if len(recent) > 0 {
		b.WriteString("\nRecent refreshes:\n")
		for _, evt := range recent {
			mark := "✅"
			if evt.State != string(model.StateSuccess) {
				mark = "❌"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s (%s)\n", mark,
				evt.Timestamp.Format("01-02 15:04"), strings.ToLower(evt.Trigger), evt.Duration.Round(time.Millisecond)))
		}
	}
	return b.String()
}

// FormatAlert formats a low-level alert.
func FormatAlert(a alert.Alert) string {
	icon := "⚠️"
	if a.Level == model.AlertSecond {
		icon = "🚨"
	}
	return fmt.Sprintf("%s <b>Low propane</b> | %s\n\nLevel: %.0f%% (threshold %.0f%%)\nOrder a refill soon.",
		icon, html.EscapeString(a.TankName), a.Reading, a.Threshold)
}

// FormatRefreshFailed formats a forced refresh failure.
func FormatRefreshFailed(err error) string {
	return fmt.Sprintf("❌ Refresh failed: %s", html.EscapeString(err.Error()))
}
