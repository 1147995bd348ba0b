// Package trigger runs the external screening program and parses its result
// file into a normalized model.
package trigger

import "strings"

// CategoryKind is the fixed enumeration of known screening categories. Labels
// in the result file are free-form strings; they are classified by substring
// so that new label variants still land on the right kind.
type CategoryKind int

const (
	KindUnknown CategoryKind = iota
	KindVolumeSpike
	KindGapUp
	KindTradeValue
	KindPriceSurge
	KindClosingStrength
	KindSideways
)

// kindMatchers is the classification priority list. First substring match
// wins, so more specific labels must come before generic ones.
var kindMatchers = []struct {
	substr string
	kind   CategoryKind
}{
	{"거래량", KindVolumeSpike},
	{"갭 상승", KindGapUp},
	{"시총 대비", KindTradeValue},
	{"상승률", KindPriceSurge},
	{"마감 강도", KindClosingStrength},
	{"횡보", KindSideways},
}

// KindFromLabel classifies a category label. Unmatched labels are KindUnknown
// and still render with the default icon and common fields only.
func KindFromLabel(label string) CategoryKind {
	for _, m := range kindMatchers {
		if strings.Contains(label, m.substr) {
			return m.kind
		}
	}
	return KindUnknown
}

// StockSignal is one screening hit. Optional fields are pointers: nil means
// the field does not apply to this signal's category, not zero.
type StockSignal struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	ChangeRate   float64 `json:"change_rate"`

	VolumeIncrease  *float64 `json:"volume_increase,omitempty"`
	GapRate         *float64 `json:"gap_rate,omitempty"`
	TradeValueRatio *float64 `json:"trade_value_ratio,omitempty"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	ClosingStrength *float64 `json:"closing_strength,omitempty"`
}

// Category is one named bucket of signals in result-file key order.
type Category struct {
	Label   string
	Kind    CategoryKind
	Signals []StockSignal
}

// Metadata holds run metadata from the reserved "metadata" key.
type Metadata struct {
	TradeDate string `json:"trade_date"`
}

// TriggerResult is the normalized result file: categories in original key
// order plus run metadata. Metadata is never a category.
type TriggerResult struct {
	Metadata   Metadata
	Categories []Category
}

// TickerSelection identifies one instrument to analyze downstream.
type TickerSelection struct {
	Code string
	Name string
}

// Flatten derives the deduplicated instrument selection: categories in their
// original order, signals in listed order, first occurrence of a code wins.
func (r *TriggerResult) Flatten() []TickerSelection {
	seen := make(map[string]bool)
	var selections []TickerSelection
	for _, cat := range r.Categories {
		for _, sig := range cat.Signals {
			if sig.Code == "" || seen[sig.Code] {
				continue
			}
			seen[sig.Code] = true
			selections = append(selections, TickerSelection{Code: sig.Code, Name: sig.Name})
		}
	}
	return selections
}

// TradeDate returns the metadata trade date, or fallback when absent.
func (r *TriggerResult) TradeDate(fallback string) string {
	if r.Metadata.TradeDate != "" {
		return r.Metadata.TradeDate
	}
	return fallback
}
