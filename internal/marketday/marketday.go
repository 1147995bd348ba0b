// Package marketday decides whether the Korean stock market is open on a
// given date. Weekends and fixed KRX closure dates are non-trading days.
package marketday

import "time"

// Fixed-date closures that recur every year (month, day).
var recurringClosures = [][2]int{
	{1, 1},   // New Year's Day
	{3, 1},   // Independence Movement Day
	{5, 5},   // Children's Day
	{6, 6},   // Memorial Day
	{8, 15},  // Liberation Day
	{10, 3},  // National Foundation Day
	{10, 9},  // Hangul Day
	{12, 25}, // Christmas
	{12, 31}, // Year-end market closure
}

// extraClosures lists lunar-calendar and one-off closures per year in
// YYYYMMDD form. Extend when the exchange publishes the next calendar.
var extraClosures = map[string]bool{
	// 2025
	"20250128": true, "20250129": true, "20250130": true, // Seollal
	"20250506": true, // Buddha's Birthday (observed)
	"20251006": true, "20251007": true, "20251008": true, // Chuseok
	// 2026
	"20260216": true, "20260217": true, "20260218": true, // Seollal
	"20260525": true, // Buddha's Birthday (observed)
	"20260924": true, "20260925": true, // Chuseok
}

// IsTradingDay reports whether t falls on a KRX trading day.
func IsTradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	for _, md := range recurringClosures {
		if int(t.Month()) == md[0] && t.Day() == md[1] {
			return false
		}
	}
	return !extraClosures[t.Format("20060102")]
}
