// Package alert renders the immediate trigger notification text. Composition
// is a pure function of its inputs; no file or network I/O happens here.
package alert

import (
	"fmt"
	"math"
	"strings"

	"github.com/prismsignal/prism/internal/trigger"
)

// ModeMorning selects the pre-open framing; any other mode value uses the
// post-close framing.
const ModeMorning = "morning"

const (
	arrowUp   = "🔺"
	arrowDown = "🔻"
	arrowFlat = "➖"

	defaultIcon = "🔎"

	footer = "💡 상세 분석 보고서는 약 10-30분 내 제공 예정\n" +
		"⚠️ 본 정보는 투자 참고용이며, 투자 결정과 책임은 투자자에게 있습니다."
)

var kindIcons = map[trigger.CategoryKind]string{
	trigger.KindVolumeSpike:     "📊",
	trigger.KindGapUp:           "📈",
	trigger.KindTradeValue:      "💰",
	trigger.KindPriceSurge:      "🚀",
	trigger.KindClosingStrength: "🔨",
	trigger.KindSideways:        "↔️",
}

// Compose renders the trigger alert for a mode, result, and YYYYMMDD trade
// date. Returns InvalidDateError when the date is not exactly 8 digits.
func Compose(mode string, result *trigger.TriggerResult, tradeDate string) (string, error) {
	formattedDate, err := formatDate(tradeDate)
	if err != nil {
		return "", err
	}

	var title, timeDesc string
	if mode == ModeMorning {
		title = "🔔 오전 프리즘 시그널 얼럿"
		timeDesc = "장 시작 후 10분 시점"
	} else {
		title = "🔔 오후 프리즘 시그널 얼럿"
		timeDesc = "장 마감 후"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "📅 %s %s 포착된 관심종목\n\n", formattedDate, timeDesc)

	for _, cat := range result.Categories {
		fmt.Fprintf(&b, "%s *%s*\n", icon(cat.Kind), cat.Label)
		for _, sig := range cat.Signals {
			writeSignal(&b, cat.Kind, sig)
		}
	}

	b.WriteString(footer)
	return b.String(), nil
}

func writeSignal(b *strings.Builder, kind trigger.CategoryKind, sig trigger.StockSignal) {
	fmt.Fprintf(b, "· *%s* (%s)\n", sig.Name, sig.Code)
	fmt.Fprintf(b, "  %s원 %s %.2f%%\n", groupDigits(sig.CurrentPrice), arrow(sig.ChangeRate), math.Abs(sig.ChangeRate))

	// Extra lines are double-guarded: the optional field must be present and
	// the category must be the one the field belongs to.
	switch {
	case kind == trigger.KindVolumeSpike && sig.VolumeIncrease != nil:
		fmt.Fprintf(b, "  거래량 증가율: %.2f%%\n", *sig.VolumeIncrease)
	case kind == trigger.KindGapUp && sig.GapRate != nil:
		fmt.Fprintf(b, "  갭 상승률: %.2f%%\n", *sig.GapRate)
	case kind == trigger.KindTradeValue && sig.TradeValueRatio != nil:
		fmt.Fprintf(b, "  거래대금/시총 비율: %.2f%%\n", *sig.TradeValueRatio)
		if sig.MarketCap != nil {
			fmt.Fprintf(b, "  시가총액: %.2f억원\n", *sig.MarketCap/1e8)
		}
	case kind == trigger.KindClosingStrength && sig.ClosingStrength != nil:
		fmt.Fprintf(b, "  마감 강도: %.2f%%\n", *sig.ClosingStrength*100)
	}

	b.WriteString("\n")
}

func icon(kind trigger.CategoryKind) string {
	if ic, ok := kindIcons[kind]; ok {
		return ic
	}
	return defaultIcon
}

func arrow(changeRate float64) string {
	switch {
	case changeRate > 0:
		return arrowUp
	case changeRate < 0:
		return arrowDown
	default:
		return arrowFlat
	}
}

// formatDate converts YYYYMMDD into YYYY.MM.DD.
func formatDate(date string) (string, error) {
	if len(date) != 8 {
		return "", &InvalidDateError{Value: date}
	}
	for _, r := range date {
		if r < '0' || r > '9' {
			return "", &InvalidDateError{Value: date}
		}
	}
	return date[:4] + "." + date[4:6] + "." + date[6:8], nil
}

// groupDigits formats a price with thousands separators and no decimals.
func groupDigits(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}
