package sonar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadRecords reads an offline issue dump: either a JSON array of issues or a
// saved search response. A file holding JSON null yields nil records.
func LoadRecords(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read findings file: %w", err)
	}
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		return nil, nil
	case bytes.HasPrefix(data, []byte("[")):
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode findings file %s: %w", path, err)
		}
		return records, nil
	case bytes.HasPrefix(data, []byte("{")):
		var r searchResponse
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode findings file %s: %w", path, err)
		}
		if r.Issues == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingIssues)
		}
		return r.Issues, nil
	default:
		return nil, fmt.Errorf("findings file %s is neither a JSON array nor a search response", path)
	}
}

// FilterByRule keeps the records reported for rule number, e.g. "S1854".
// Records without a "rule" field, or that fail to decode, are kept so that
// findings.Build reports them. The result is nil only when records is nil.
func FilterByRule(records []json.RawMessage, number string) []json.RawMessage {
	if records == nil {
		return nil
	}
	out := make([]json.RawMessage, 0, len(records))
	for _, raw := range records {
		var r struct {
			Rule *string `json:"rule"`
		}
		if err := json.Unmarshal(raw, &r); err != nil || r.Rule == nil {
			out = append(out, raw)
			continue
		}
		if *r.Rule == number || strings.HasSuffix(*r.Rule, ":"+number) {
			out = append(out, raw)
		}
	}
	return out
}
