package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFromLabel(t *testing.T) {
	cases := []struct {
		label string
		want  CategoryKind
	}{
		{"거래량 급증", KindVolumeSpike},
		{"갭 상승", KindGapUp},
		{"시총 대비 거래대금 상위", KindTradeValue},
		{"상승률 상위", KindPriceSurge},
		{"마감 강도 상위", KindClosingStrength},
		{"횡보 후 상승", KindSideways},
		{"완전히 새로운 카테고리", KindUnknown},
		{"", KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindFromLabel(tc.label), "label %q", tc.label)
	}
}

func TestKindFromLabel_PriorityOrder(t *testing.T) {
	// "거래량" outranks "상승률" when both substrings appear.
	assert.Equal(t, KindVolumeSpike, KindFromLabel("거래량 및 상승률 급증"))
}

func TestFlatten_DedupFirstSeenWins(t *testing.T) {
	result := &TriggerResult{
		Categories: []Category{
			{
				Label: "거래량 급증",
				Kind:  KindVolumeSpike,
				Signals: []StockSignal{
					{Code: "005930", Name: "삼성전자"},
					{Code: "000660", Name: "SK하이닉스"},
				},
			},
			{
				Label: "상승률 상위",
				Kind:  KindPriceSurge,
				Signals: []StockSignal{
					{Code: "005930", Name: "삼성전자 (중복)"},
					{Code: "035720", Name: "카카오"},
				},
			},
		},
	}

	selections := result.Flatten()
	require.Len(t, selections, 3)
	assert.Equal(t, []TickerSelection{
		{Code: "005930", Name: "삼성전자"},
		{Code: "000660", Name: "SK하이닉스"},
		{Code: "035720", Name: "카카오"},
	}, selections)
}

func TestFlatten_SkipsEmptyCodes(t *testing.T) {
	result := &TriggerResult{
		Categories: []Category{
			{Label: "거래량 급증", Signals: []StockSignal{
				{Code: "", Name: "이름만 있음"},
				{Code: "000660", Name: "SK하이닉스"},
			}},
		},
	}

	selections := result.Flatten()
	require.Len(t, selections, 1)
	assert.Equal(t, "000660", selections[0].Code)
}

func TestFlatten_Idempotent(t *testing.T) {
	result := &TriggerResult{
		Categories: []Category{
			{Label: "상승률 상위", Signals: []StockSignal{{Code: "005930", Name: "삼성전자"}}},
		},
	}

	first := result.Flatten()
	second := result.Flatten()
	assert.Equal(t, first, second)
}

func TestFlatten_Empty(t *testing.T) {
	result := &TriggerResult{}
	assert.Empty(t, result.Flatten())
}

func TestTradeDate_Fallback(t *testing.T) {
	withDate := &TriggerResult{Metadata: Metadata{TradeDate: "20260302"}}
	assert.Equal(t, "20260302", withDate.TradeDate("20260101"))

	without := &TriggerResult{}
	assert.Equal(t, "20260101", without.TradeDate("20260101"))
}
