package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docveil/docveil/internal/logger"
	"github.com/docveil/docveil/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	m, err := NewManager(context.Background(), st, logger.Nop())
	require.NoError(t, err)
	return m, st
}

func ssnDefinition() Definition {
	return Definition{
		Name:            "SSN",
		Regex:           `\d{3}-\d{2}-\d{4}`,
		ReplacementType: ReplacementFixed,
		Replacement:     "[SSN]",
	}
}

func TestManagerStartsEmptyOnMissingKey(t *testing.T) {
	m, st := newTestManager(t)
	assert.Empty(t, m.Rules())
	assert.Zero(t, st.Writes())
}

func TestAddRule(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	rule, err := m.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.False(t, rule.Created.IsZero())
	assert.True(t, rule.Enabled, "rules default to enabled")
	assert.Equal(t, 1, st.Writes(), "one full-collection write per mutation")

	got, ok := m.RuleByID(rule.ID)
	require.True(t, ok)
	assert.Equal(t, rule, got)
}

func TestAddRuleValidationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	_, err := m.AddRule(ctx, Definition{Name: "broken", Regex: "(", ReplacementType: ReplacementFixed, Replacement: "x"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, st.Writes())
	assert.Empty(t, m.Rules())
}

func TestAddRuleDuplicateName(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	_, err := m.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)

	// Same name, entirely different matcher: still rejected.
	dup := ssnDefinition()
	dup.Regex = `\d+`
	_, err = m.AddRule(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateRuleName)
	assert.Equal(t, 1, st.Writes())

	// Name comparison is case-sensitive, so a different casing is a new rule.
	cased := ssnDefinition()
	cased.Name = "ssn"
	_, err = m.AddRule(ctx, cased)
	assert.NoError(t, err)
}

func TestUpdateRule(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	rule, err := m.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)

	enabled := false
	updated, err := m.UpdateRule(ctx, rule.ID, Definition{
		Replacement: "[REDACTED]",
		Enabled:     &enabled,
	})
	require.NoError(t, err)

	assert.Equal(t, rule.ID, updated.ID, "id is preserved")
	assert.Equal(t, rule.Created, updated.Created, "creation timestamp is preserved")
	assert.Equal(t, "[REDACTED]", updated.Replacement)
	assert.False(t, updated.Enabled)
	assert.Equal(t, rule.Regex, updated.Regex, "untouched fields survive the merge")
	assert.Equal(t, 2, st.Writes())
}

func TestUpdateRuleNotFound(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.UpdateRule(context.Background(), "nope", Definition{Name: "x"})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdateRuleRejectsNameCollision(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)

	other := ssnDefinition()
	other.Name = "Email"
	rule, err := m.AddRule(ctx, other)
	require.NoError(t, err)

	_, err = m.UpdateRule(ctx, rule.ID, Definition{Name: "SSN"})
	assert.ErrorIs(t, err, ErrDuplicateRuleName)
}

func TestDeleteRule(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	rule, err := m.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)

	require.NoError(t, m.DeleteRule(ctx, rule.ID))
	assert.Empty(t, m.Rules())
	assert.Equal(t, 2, st.Writes())

	assert.ErrorIs(t, m.DeleteRule(ctx, rule.ID), ErrRuleNotFound)
}

func TestCreateFromTemplate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	rule, err := m.CreateFromTemplate(ctx, TemplateEmail)
	require.NoError(t, err)
	assert.Equal(t, "Email address", rule.Name)
	assert.Equal(t, ReplacementFixed, rule.ReplacementType)

	_, err = m.CreateFromTemplate(ctx, "NO_SUCH_TEMPLATE")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestImportSkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	data := []byte(`[
		{"name": "SSN", "regex": "\\d{3}-\\d{2}-\\d{4}", "replacementType": "fixed", "replacement": "[SSN]"},
		{"name": "Broken", "regex": "a", "replacementType": "shuffle"}
	]`)

	result, err := m.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, st.Writes(), "one write covers the whole batch")

	ruleNames := func() []string {
		var names []string
		for _, r := range m.Rules() {
			names = append(names, r.Name)
		}
		return names
	}
	assert.Equal(t, []string{"SSN"}, ruleNames())
}

func TestImportRejectsDuplicatesWithinBatch(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	data := []byte(`[
		{"name": "SSN", "regex": "\\d+", "replacementType": "fixed", "replacement": "[SSN]"},
		{"name": "SSN", "regex": "\\d+", "replacementType": "fixed", "replacement": "[DUP]"}
	]`)

	result, err := m.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportBadPayloadIsFatal(t *testing.T) {
	m, st := newTestManager(t)
	_, err := m.Import(context.Background(), []byte(`{"not": "an array"}`))
	assert.Error(t, err)
	assert.Zero(t, st.Writes())
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestManager(t)

	_, err := src.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)
	disabled := false
	priority := 7
	_, err = src.AddRule(ctx, Definition{
		Name:            "Codename",
		Pattern:         "Project Aurora",
		ReplacementType: ReplacementCharacter,
		ReplacementChar: "*",
		Priority:        &priority,
		Enabled:         &disabled,
	})
	require.NoError(t, err)

	exported, err := src.Export()
	require.NoError(t, err)

	dst, _ := newTestManager(t)
	result, err := dst.Import(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)

	srcRules, dstRules := src.Rules(), dst.Rules()
	require.Len(t, dstRules, len(srcRules))
	for i := range srcRules {
		assert.Equal(t, srcRules[i].Name, dstRules[i].Name)
		assert.Equal(t, srcRules[i].Pattern, dstRules[i].Pattern)
		assert.Equal(t, srcRules[i].Regex, dstRules[i].Regex)
		assert.Equal(t, srcRules[i].ReplacementType, dstRules[i].ReplacementType)
		assert.Equal(t, srcRules[i].Replacement, dstRules[i].Replacement)
		assert.Equal(t, srcRules[i].ReplacementChar, dstRules[i].ReplacementChar)
		assert.Equal(t, srcRules[i].Priority, dstRules[i].Priority)
		assert.Equal(t, srcRules[i].Enabled, dstRules[i].Enabled)
		assert.NotEqual(t, srcRules[i].ID, dstRules[i].ID, "import assigns fresh ids")
	}
}

func TestManagerReloadsPersistedCollection(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	first, err := NewManager(ctx, st, logger.Nop())
	require.NoError(t, err)
	added, err := first.AddRule(ctx, ssnDefinition())
	require.NoError(t, err)

	second, err := NewManager(ctx, st, logger.Nop())
	require.NoError(t, err)
	got, ok := second.RuleByID(added.ID)
	require.True(t, ok)
	assert.Equal(t, added.Name, got.Name)
}
