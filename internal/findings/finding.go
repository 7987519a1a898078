package findings

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// TextRange is the span of a secondary location as reported by SonarQube.
type TextRange struct {
	StartLine   int `mapstructure:"startLine" json:"start_line"`
	EndLine     int `mapstructure:"endLine" json:"end_line"`
	StartOffset int `mapstructure:"startOffset" json:"start_offset"`
	EndOffset   int `mapstructure:"endOffset" json:"end_offset"`
}

// Location is one secondary location of a finding flow.
type Location struct {
	Component string    `mapstructure:"component" json:"component"`
	Message   string    `mapstructure:"msg" json:"message,omitempty"`
	TextRange TextRange `mapstructure:"textRange" json:"text_range"`
}

// File returns the bare file name of the location's component.
func (l Location) File() string {
	return BareFileName(l.Component)
}

type flow struct {
	Locations []Location `mapstructure:"locations"`
}

// record mirrors the fields of a raw finding this package cares about.
// Pointers distinguish a missing field from its zero value.
type record struct {
	Line      *float64 `mapstructure:"line"`
	Message   *string  `mapstructure:"message"`
	Component *string  `mapstructure:"component"`
	Flows     []flow   `mapstructure:"flows"`
}

// Finding is one reported static-analysis issue. It is immutable once built.
type Finding struct {
	sourceFile string
	line       int
	message    string
	raw        json.RawMessage
	key        string
	order      int
	locations  []Location
}

// NewFinding parses a raw finding record. order is the record's position in its
// input list and is used to break ties between findings at the same location.
func NewFinding(raw json.RawMessage, order int) (*Finding, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &RecordError{Index: order, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}
	if fields == nil {
		return nil, &RecordError{Index: order, Err: fmt.Errorf("%w: record is null", ErrMalformedRecord)}
	}

	var rec record
	if err := mapstructure.Decode(fields, &rec); err != nil {
		return nil, &RecordError{Index: order, Err: fmt.Errorf("%w: %v", ErrInvalidField, err)}
	}

	switch {
	case rec.Line == nil:
		return nil, &RecordError{Index: order, Field: "line", Err: ErrMissingField}
	case rec.Message == nil:
		return nil, &RecordError{Index: order, Field: "message", Err: ErrMissingField}
	case rec.Component == nil:
		return nil, &RecordError{Index: order, Field: "component", Err: ErrMissingField}
	}

	line := *rec.Line
	if line < 0 || line != math.Trunc(line) || line > math.MaxInt32 {
		return nil, &RecordError{Index: order, Field: "line", Err: fmt.Errorf("%w: %v is not a line number", ErrInvalidField, line)}
	}

	canonical, err := json.Marshal(fields)
	if err != nil {
		return nil, &RecordError{Index: order, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}
	sum := sha256.Sum256(canonical)

	f := &Finding{
		sourceFile: BareFileName(*rec.Component),
		line:       int(line),
		message:    *rec.Message,
		raw:        canonical,
		key:        hex.EncodeToString(sum[:]),
		order:      order,
	}
	if len(rec.Flows) > 0 {
		f.locations = rec.Flows[0].Locations
	}
	return f, nil
}

// BareFileName returns the final "/"-delimited segment of path. A path without
// "/" is returned unchanged; a path ending in "/" yields "".
func BareFileName(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// SourceFile is the bare file name the finding was reported on.
func (f *Finding) SourceFile() string { return f.sourceFile }

// Line is the 1-based line the finding was reported on.
func (f *Finding) Line() int { return f.line }

// Message is the human-readable text of the finding.
func (f *Finding) Message() string { return f.message }

// Key is the hex SHA-256 of the canonical serialization.
func (f *Finding) Key() string { return f.key }

// Order is the position of the record in the list the finding was built from.
func (f *Finding) Order() int { return f.order }

// FirstFlowLocations returns the locations of the first flow, or nil when the
// record had no flows.
func (f *Finding) FirstFlowLocations() []Location {
	if f.locations == nil {
		return nil
	}
	out := make([]Location, len(f.locations))
	copy(out, f.locations)
	return out
}

// Equal reports whether both findings come from records that serialize identically.
func (f *Finding) Equal(other *Finding) bool {
	if f == nil || other == nil {
		return f == other
	}
	return bytes.Equal(f.raw, other.raw)
}

func (f *Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.sourceFile, f.line, f.message)
}
