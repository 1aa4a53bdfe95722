package notify

import (
	"fmt"
	"strings"
	"time"
	"webhook_bot/internal/models"
)

func PositionOpened(p *models.Position) string {
	return fmt.Sprintf("🟢 Opened %s [%s]\nqty=%s @ %s\nnotional=%s USDT",
		p.Instrument, p.Timeframe,
		p.Quantity.String(), p.AvgBuyPrice.String(),
		p.NotionalAtOpen.StringFixed(2))
}

func PositionClosed(p *models.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔴 Closed %s [%s]\nqty=%s buy=%s sell=%s",
		p.Instrument, p.Timeframe, p.Quantity.String(),
		p.AvgBuyPrice.String(), p.AvgSellPrice.Decimal.String())
	if profit, ok := p.Profit(); ok {
		fmt.Fprintf(&b, "\nprofit=%s USDT", profit.StringFixed(2))
	}
	if rate, ok := p.ProfitRate(); ok {
		fmt.Fprintf(&b, " (%s%%)", rate.StringFixed(2))
	}
	if d, ok := p.HoldDuration(); ok {
		fmt.Fprintf(&b, "\nheld %s", d.Truncate(time.Second))
	}
	return b.String()
}

func formatPositions(list []*models.Position, now time.Time) string {
	if len(list) == 0 {
		return "📭 No open positions"
	}
	var b strings.Builder
	b.WriteString("📊 Open positions:\n")
	for _, p := range list {
		fmt.Fprintf(&b, "- %s [%s] qty=%s @ %s (%s USDT), %s\n",
			p.Instrument, p.Timeframe, p.Quantity.String(), p.AvgBuyPrice.String(),
			p.NotionalAtOpen.StringFixed(2), now.Sub(p.CreatedAt).Truncate(time.Minute))
	}
	return b.String()
}

func formatStatus(s models.TradingSettings) string {
	state := "off"
	if s.TradingEnabled {
		state = "on"
	}
	return fmt.Sprintf("⚙️ Trading: %s\nPosition size: %s USDT", state, s.PositionUSDT.String())
}
