package trigger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResult = `{
	"metadata": {"trade_date": "20260302"},
	"거래량 급증": [
		{"code": "005930", "name": "삼성전자", "current_price": 71500, "change_rate": 2.15, "volume_increase": 312.5}
	],
	"상승률 상위": [
		{"code": "035720", "name": "카카오", "current_price": 48200, "change_rate": 8.73}
	],
	"갭 상승": []
}`

func writeResult(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trigger_results_morning_20260302.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResultsPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("out", "trigger_results_morning_20260302.json"),
		ResultsPath("out", "morning", "20260302"))
}

func TestLoad_Valid(t *testing.T) {
	result, err := Load(writeResult(t, sampleResult))
	require.NoError(t, err)

	assert.Equal(t, "20260302", result.Metadata.TradeDate)
	require.Len(t, result.Categories, 3)

	// Categories keep the file's key order.
	assert.Equal(t, "거래량 급증", result.Categories[0].Label)
	assert.Equal(t, KindVolumeSpike, result.Categories[0].Kind)
	assert.Equal(t, "상승률 상위", result.Categories[1].Label)
	assert.Equal(t, "갭 상승", result.Categories[2].Label)
	assert.Empty(t, result.Categories[2].Signals)

	sig := result.Categories[0].Signals[0]
	assert.Equal(t, "005930", sig.Code)
	assert.Equal(t, 71500.0, sig.CurrentPrice)
	require.NotNil(t, sig.VolumeIncrease)
	assert.Equal(t, 312.5, *sig.VolumeIncrease)
	assert.Nil(t, sig.GapRate)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := Load(path)

	var missing *ResultFileMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, path, missing.Path)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load(writeResult(t, `{"broken":`))

	var malformed *MalformedResultError
	require.ErrorAs(t, err, &malformed)
}

func TestLoad_TopLevelArray(t *testing.T) {
	_, err := Load(writeResult(t, `[{"code": "005930"}]`))

	var malformed *MalformedResultError
	require.ErrorAs(t, err, &malformed)
}

func TestLoad_CategoryWithNonObjectItems(t *testing.T) {
	_, err := Load(writeResult(t, `{"거래량 급증": ["005930", "000660"]}`))

	var malformed *MalformedResultError
	require.ErrorAs(t, err, &malformed)
}

func TestParseOrdered_IgnoresScalarKeys(t *testing.T) {
	result, err := parseOrdered([]byte(`{
		"generated_by": "screener v3",
		"count": 1,
		"상승률 상위": [{"code": "035720", "name": "카카오"}]
	}`))
	require.NoError(t, err)

	require.Len(t, result.Categories, 1)
	assert.Equal(t, "상승률 상위", result.Categories[0].Label)
}

func TestParseOrdered_MetadataIsNotACategory(t *testing.T) {
	result, err := parseOrdered([]byte(`{"metadata": {"trade_date": "20260302"}}`))
	require.NoError(t, err)

	assert.Empty(t, result.Categories)
	assert.Equal(t, "20260302", result.Metadata.TradeDate)
}
