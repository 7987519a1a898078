package repair

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvojtechovsky/sonarqube-repair/internal/findings"
	"github.com/pvojtechovsky/sonarqube-repair/internal/matcher"
)

func newMatcher(t *testing.T, records ...string) *matcher.Matcher {
	t.Helper()
	raws := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		raws = append(raws, json.RawMessage(r))
	}
	idx, err := findings.Build(raws, nil)
	require.NoError(t, err)
	return matcher.New(idx)
}

func TestCandidateName(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want string
	}{
		{name: "declaration", el: Element{Kind: KindDeclaration, Name: "x", Target: "ignored"}, want: "x"},
		{name: "field", el: Element{Kind: KindField, Name: "logger"}, want: "logger"},
		{name: "assignment", el: Element{Kind: KindAssignment, Name: "ignored", Target: "this.field2"}, want: "this.field2"},
		{name: "unknown kind", el: Element{Name: "x"}, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CandidateName(tc.el))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "declaration", KindDeclaration.String())
	assert.Equal(t, "assignment", KindAssignment.String())
	assert.Equal(t, "field", KindField.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestNewRule(t *testing.T) {
	m := newMatcher(t)
	for _, key := range SupportedRules() {
		r, err := NewRule(key, m)
		require.NoError(t, err)
		assert.Equal(t, key, r.Key())
		assert.NotEmpty(t, r.Title())
		assert.Equal(t, Title(key), r.Title())
	}

	_, err := NewRule("S0000", m)
	assert.ErrorIs(t, err, ErrUnknownRule)
	assert.Empty(t, Title("S0000"))
}

func TestDeadStoreRuleDeclaration(t *testing.T) {
	m := newMatcher(t, `{"line": 10, "message": "Remove this useless assignment to local variable \"x\".", "component": "src/F.java"}`)
	rule := NewDeadStoreRule(m)
	tree := newFakeTree("int x = compute();", "return 1;")
	el := tree.element(0, KindDeclaration, "x", "/work/src/F.java", 10)

	res, ok := rule.Match(el)
	require.True(t, ok)
	assert.Equal(t, "x", res.CandidateName)
	require.NoError(t, rule.Apply(tree, el, res))

	texts := tree.texts()
	require.Len(t, texts, 2)
	assert.NotContains(t, texts, "int x = compute();")
	assert.True(t, strings.HasPrefix(texts[0], "//"))
	assert.Contains(t, texts[0], "x")
	assert.NotContains(t, texts[0], "\n")
	assert.Equal(t, "return 1;", texts[1])
}

func TestDeadStoreRuleFooFieldAssignment(t *testing.T) {
	m := newMatcher(t, `{"line": 8, "message": "Remove this useless assignment to \"field2\".", "component": "a/b/FooField.java"}`)
	rule := NewDeadStoreRule(m)
	tree := newFakeTree("int field1 = 1;", "field2 = 2;", "use(field1);")
	el := tree.element(1, KindAssignment, "field2", "FooField.java", 8)

	res, ok := rule.Match(el)
	require.True(t, ok)
	require.NoError(t, rule.Apply(tree, el, res))

	texts := tree.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "int field1 = 1;", texts[0])
	assert.Contains(t, texts[1], "field2")
	assert.True(t, strings.HasPrefix(texts[1], "//"))
	assert.Equal(t, "use(field1);", texts[2])
}

func TestDeadStoreRuleRejectsFields(t *testing.T) {
	m := newMatcher(t, `{"line": 3, "message": "Remove this useless assignment to \"x\".", "component": "F.java"}`)
	rule := NewDeadStoreRule(m)
	tree := newFakeTree("private int x;")

	_, ok := rule.Match(tree.element(0, KindField, "x", "F.java", 3))
	assert.False(t, ok)
}

func TestDeadStoreRuleMutationErrorPropagates(t *testing.T) {
	m := newMatcher(t, `{"line": 3, "message": "Remove this useless assignment to \"x\".", "component": "F.java"}`)
	rule := NewDeadStoreRule(m)
	tree := newFakeTree("x = 1;")
	el := tree.element(0, KindAssignment, "x", "F.java", 3)

	res, ok := rule.Match(el)
	require.True(t, ok)
	require.NoError(t, tree.Remove(el))

	err := rule.Apply(tree, el, res)
	assert.True(t, errors.Is(err, errDetached), "got %v", err)
}

func TestApplyWithoutMatch(t *testing.T) {
	tree := newFakeTree("x = 1;")
	el := tree.element(0, KindAssignment, "x", "F.java", 3)

	assert.ErrorIs(t, NewDeadStoreRule(nil).Apply(tree, el, MatchResult{}), ErrNoMatch)
	assert.ErrorIs(t, NewSerializableFieldRule(nil).Apply(tree, el, MatchResult{}), ErrNoMatch)
	assert.Equal(t, []string{"x = 1;"}, tree.texts())
}

func TestSerializableFieldRule(t *testing.T) {
	m := newMatcher(t, `{"line": 21, "message": "Make \"logger\" transient or serializable.", "component": "pkg/Service.java"}`)
	rule := NewSerializableFieldRule(m)

	tests := []struct {
		name     string
		existing []string
	}{
		{name: "plain field"},
		{name: "already transient", existing: []string{"transient"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := newFakeTree("private Logger logger;")
			el := tree.element(0, KindField, "logger", "Service.java", 21)
			for _, mod := range tc.existing {
				require.NoError(t, tree.AddModifier(el, mod))
			}

			res, ok := rule.Match(el)
			require.True(t, ok)
			require.NoError(t, rule.Apply(tree, el, res))

			id := el.Node.(string)
			count := 0
			for _, mod := range tree.modifiers[id] {
				if mod == "transient" {
					count++
				}
			}
			assert.Equal(t, 1, count)
			assert.Equal(t, []string{"private Logger logger;"}, tree.texts())
			require.Len(t, tree.comments[id], 1)
			assert.True(t, strings.HasPrefix(tree.comments[id][0], "/*"))
			assert.Contains(t, tree.comments[id][0], "S1948")
		})
	}
}

func TestSerializableFieldRuleRejectsLocals(t *testing.T) {
	m := newMatcher(t, `{"line": 21, "message": "Make \"logger\" transient or serializable.", "component": "Service.java"}`)
	tree := newFakeTree("Logger logger = null;")

	_, ok := NewSerializableFieldRule(m).Match(tree.element(0, KindDeclaration, "logger", "Service.java", 21))
	assert.False(t, ok)
}

func TestPredicatesHaveNoSideEffectsWithoutMatch(t *testing.T) {
	m := newMatcher(t,
		`{"line": 10, "message": "Remove this useless assignment to \"x\".", "component": "F.java"}`,
		`{"line": 30, "message": "Make \"logger\" transient or serializable.", "component": "F.java"}`,
	)
	rules := []Rule{NewDeadStoreRule(m), NewSerializableFieldRule(m)}
	tree := newFakeTree("int x = 1;", "x = 2;", "private Logger logger;")

	elements := []Element{
		tree.element(0, KindDeclaration, "x", "F.java", 11),
		tree.element(1, KindAssignment, "x", "G.java", 10),
		tree.element(2, KindField, "logger", "F.java", 31),
		tree.element(2, KindField, "logger", "Other.java", 30),
	}

	before := tree.snapshot()
	for _, r := range rules {
		for _, el := range elements {
			_, ok := r.Match(el)
			assert.False(t, ok)
		}
	}
	assert.Equal(t, before, tree.snapshot())
}
