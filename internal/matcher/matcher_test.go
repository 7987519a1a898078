package matcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvojtechovsky/sonarqube-repair/internal/findings"
)

func buildIndex(t *testing.T, records ...string) *findings.Index {
	t.Helper()
	raws := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		raws = append(raws, json.RawMessage(r))
	}
	idx, err := findings.Build(raws, nil)
	require.NoError(t, err)
	return idx
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"The value assigned to ", "x", " is never used"}, Tokens(`The value assigned to "x" is never used`))
	assert.Equal(t, []string{"no quotes"}, Tokens("no quotes"))
	assert.Equal(t, []string{"", "a", "", "b", ""}, Tokens(`"a""b"`))
}

func TestMatch(t *testing.T) {
	idx := buildIndex(t,
		`{"line": 10, "message": "The value assigned to \"x\" is never used", "component": "src/F.java"}`,
	)
	m := New(idx)

	tests := []struct {
		name      string
		candidate string
		file      string
		line      int
		want      bool
	}{
		{name: "quoted identifier", candidate: "x", file: "F.java", line: 10, want: true},
		{name: "other identifier", candidate: "y", file: "F.java", line: 10, want: false},
		{name: "substring is not a token", candidate: "value", file: "F.java", line: 10, want: false},
		{name: "case sensitive", candidate: "X", file: "F.java", line: 10, want: false},
		{name: "other line", candidate: "x", file: "F.java", line: 11, want: false},
		{name: "other file", candidate: "x", file: "G.java", line: 10, want: false},
		{name: "full path is not a bare name", candidate: "x", file: "src/F.java", line: 10, want: false},
		{name: "empty candidate", candidate: "", file: "F.java", line: 10, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := m.Match(tc.candidate, tc.file, tc.line)
			assert.Equal(t, tc.want, ok)
			if tc.want {
				require.NotNil(t, f)
				assert.Equal(t, 10, f.Line())
				assert.Equal(t, "F.java", f.SourceFile())
			} else {
				assert.Nil(t, f)
			}
		})
	}
}

func TestMatchFastRejectSkipsTokenizing(t *testing.T) {
	idx := buildIndex(t,
		`{"line": 10, "message": "Remove this useless assignment to \"x\".", "component": "F.java"}`,
		`{"line": 20, "message": "Remove this useless assignment to \"x\".", "component": "G.java"}`,
	)

	calls := 0
	m := New(idx)
	m.tokenize = func(s string) []string {
		calls++
		return Tokens(s)
	}

	_, ok := m.Match("x", "F.java", 11)
	assert.False(t, ok)
	_, ok = m.Match("x", "H.java", 10)
	assert.False(t, ok)
	assert.Equal(t, 0, calls, "messages must not be inspected when the line or file is not indexed")

	// Line 20 and file F.java are both indexed, but not together.
	_, ok = m.Match("x", "F.java", 20)
	assert.False(t, ok)
	assert.Equal(t, 0, calls)

	_, ok = m.Match("x", "F.java", 10)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestMatchTieBreakIsRecordOrder(t *testing.T) {
	idx := buildIndex(t,
		`{"line": 5, "message": "unrelated \"y\"", "component": "F.java"}`,
		`{"line": 5, "message": "first \"x\"", "component": "a/F.java"}`,
		`{"line": 5, "message": "second \"x\"", "component": "b/F.java"}`,
	)
	m := New(idx)

	for i := 0; i < 20; i++ {
		f, ok := m.Match("x", "F.java", 5)
		require.True(t, ok)
		assert.Equal(t, `first "x"`, f.Message())
	}

	all := m.MatchAll("x", "F.java", 5)
	require.Len(t, all, 2)
	assert.Equal(t, `first "x"`, all[0].Message())
	assert.Equal(t, `second "x"`, all[1].Message())
	assert.Empty(t, m.MatchAll("z", "F.java", 5))
}

func TestMatchFooFieldScenario(t *testing.T) {
	idx := buildIndex(t,
		`{"line": 8, "message": "Remove this useless assignment to \"field2\".", "component": "a/b/FooField.java"}`,
	)

	f, ok := New(idx).Match("field2", "FooField.java", 8)
	require.True(t, ok)
	assert.Equal(t, `Remove this useless assignment to "field2".`, f.Message())
}

func TestMatchNilIndex(t *testing.T) {
	_, ok := New(nil).Match("x", "F.java", 1)
	assert.False(t, ok)
}
