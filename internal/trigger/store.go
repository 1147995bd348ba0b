package trigger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResultsPath builds the per-mode, per-date result file path:
// trigger_results_{mode}_{YYYYMMDD}.json under dir.
func ResultsPath(dir, mode, date string) string {
	return filepath.Join(dir, fmt.Sprintf("trigger_results_%s_%s.json", mode, date))
}

// Load reads and normalizes a trigger result file. Category order follows the
// file's top-level key order; flatten depends on it, so the document is
// decoded with a token stream rather than into a map.
func Load(path string) (*TriggerResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ResultFileMissingError{Path: path}
		}
		return nil, fmt.Errorf("failed to read trigger result %s: %w", path, err)
	}

	if err := validateShape(data); err != nil {
		return nil, &MalformedResultError{Path: path, Message: "structure check failed", Cause: err}
	}

	result, err := parseOrdered(data)
	if err != nil {
		return nil, &MalformedResultError{Path: path, Message: "parse failed", Cause: err}
	}
	return result, nil
}

// parseOrdered walks the top-level object token by token. The reserved
// "metadata" key is decoded as run metadata; every other key whose value is
// an array becomes a category; non-array values are ignored.
func parseOrdered(data []byte) (*TriggerResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("top-level value is not an object")
	}

	result := &TriggerResult{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid value for key %q: %w", key, err)
		}

		if key == "metadata" {
			if err := json.Unmarshal(raw, &result.Metadata); err != nil {
				return nil, fmt.Errorf("invalid metadata: %w", err)
			}
			continue
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}

		var signals []StockSignal
		if err := json.Unmarshal(raw, &signals); err != nil {
			return nil, fmt.Errorf("invalid signal list for category %q: %w", key, err)
		}
		result.Categories = append(result.Categories, Category{
			Label:   key,
			Kind:    KindFromLabel(key),
			Signals: signals,
		})
	}
	return result, nil
}
