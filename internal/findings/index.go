package findings

import (
	"encoding/json"
	"errors"

	"github.com/hashicorp/go-hclog"

	sharedlog "github.com/pvojtechovsky/sonarqube-repair/pkg/shared/logger"
)

// Index answers "which findings were reported at file F, line L" without
// scanning the whole finding list. It is read-only once built and safe for
// concurrent use.
type Index struct {
	byLine  map[int][]*Finding
	files   map[string]struct{}
	all     []*Finding
	skipped int
}

// Build parses every raw record and indexes the ones that parse. A record that
// fails to parse is logged and skipped. A nil records slice is reported as
// ErrNoRecords; a non-nil empty slice yields an empty index.
func Build(records []json.RawMessage, logger hclog.Logger) (*Index, error) {
	if records == nil {
		return nil, ErrNoRecords
	}
	logger = sharedlog.OrNull(logger)

	idx := &Index{
		byLine: make(map[int][]*Finding),
		files:  make(map[string]struct{}),
	}
	seen := make(map[string]struct{}, len(records))

	for i, raw := range records {
		f, err := NewFinding(raw, i)
		if err != nil {
			var recErr *RecordError
			if errors.As(err, &recErr) && recErr.Field != "" {
				logger.Warn("skipping finding record", "index", i, "field", recErr.Field, "error", recErr.Err)
			} else {
				logger.Warn("skipping finding record", "index", i, "error", err)
			}
			idx.skipped++
			continue
		}
		if _, dup := seen[f.Key()]; dup {
			logger.Trace("duplicate finding record", "index", i, "key", f.Key())
			continue
		}
		seen[f.Key()] = struct{}{}

		idx.all = append(idx.all, f)
		idx.byLine[f.Line()] = append(idx.byLine[f.Line()], f)
		idx.files[f.SourceFile()] = struct{}{}
	}

	logger.Debug("finding index built", "records", len(records), "findings", len(idx.all), "skipped", idx.skipped)
	return idx, nil
}

// HasLine reports whether any finding, in any file, was reported at line.
func (idx *Index) HasLine(line int) bool {
	_, ok := idx.byLine[line]
	return ok
}

// HasFile reports whether any finding was reported in the bare file name file.
func (idx *Index) HasFile(file string) bool {
	_, ok := idx.files[file]
	return ok
}

// FindingsAt returns the findings reported at (file, line) in record order.
func (idx *Index) FindingsAt(file string, line int) []*Finding {
	out := []*Finding{}
	for _, f := range idx.byLine[line] {
		if f.SourceFile() == file {
			out = append(out, f)
		}
	}
	return out
}

// Findings returns every indexed finding in record order.
func (idx *Index) Findings() []*Finding {
	out := make([]*Finding, len(idx.all))
	copy(out, idx.all)
	return out
}

// Len is the number of distinct findings in the index.
func (idx *Index) Len() int {
	return len(idx.all)
}

// Skipped is the number of records rejected while building the index.
func (idx *Index) Skipped() int {
	return idx.skipped
}
