package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docveil/docveil/internal/logger"
	"github.com/docveil/docveil/internal/metrics"
	"github.com/docveil/docveil/internal/store"
)

// Manager owns the rule collection. It is the sole writer of the persisted
// blob: the full collection is loaded once at construction and written back in
// full after every successful mutation.
//
// Mutating methods must be invoked from a single control flow; the Manager
// does not arbitrate between concurrent writers.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	key     string
	logger  *logger.Logger
	metrics *metrics.Collector
	rules   []Rule
}

// ImportResult summarizes a bulk import. Skipped entries failed validation or
// collided on name; they never abort the batch.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// NewManager loads the rule collection from the store. An absent key yields
// an empty collection, not an error.
func NewManager(ctx context.Context, st store.Store, log *logger.Logger) (*Manager, error) {
	m := &Manager{
		store:  st,
		key:    store.DefaultKey,
		logger: log.WithComponent("rules"),
	}

	blob, err := st.Get(ctx, m.key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load rule collection: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(blob), &m.rules); err != nil {
			return nil, fmt.Errorf("failed to decode rule collection: %w", err)
		}
	}

	m.logger.Info("Rule manager initialized", zap.Int("rules", len(m.rules)))
	return m, nil
}

// SetMetrics wires an optional metrics collector. Call before first use.
func (m *Manager) SetMetrics(c *metrics.Collector) {
	m.metrics = c
	c.SetActiveRules(len(m.rules))
}

// Rules returns a snapshot of the collection in insertion order.
func (m *Manager) Rules() []Rule {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Rule, len(m.rules))
	copy(snapshot, m.rules)
	return snapshot
}

// RuleByID returns the rule with the given ID, if present.
func (m *Manager) RuleByID(id string) (Rule, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// AddRule validates the definition, assigns a fresh ID and creation
// timestamp, appends the rule, and persists the collection. Validation
// failures and duplicate names leave the store untouched.
func (m *Manager) AddRule(ctx context.Context, def Definition) (Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rule, err := m.buildRule(def)
	if err != nil {
		return Rule{}, err
	}

	m.rules = append(m.rules, rule)
	if err := m.persist(ctx); err != nil {
		m.rules = m.rules[:len(m.rules)-1]
		return Rule{}, err
	}

	m.logger.Info("Rule added", zap.String("rule_id", rule.ID), zap.String("name", rule.Name))
	m.metrics.SetActiveRules(len(m.rules))
	return rule, nil
}

// UpdateRule merges the definition onto the existing rule, re-validates, and
// persists. ID and creation timestamp are preserved.
func (m *Manager) UpdateRule(ctx context.Context, id string, def Definition) (Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}

	merged := mergeDefinition(m.rules[idx], def)
	if err := Validate(merged); err != nil {
		return Rule{}, err
	}
	for i, r := range m.rules {
		if i != idx && r.Name == merged.Name {
			return Rule{}, fmt.Errorf("%w: %s", ErrDuplicateRuleName, merged.Name)
		}
	}

	updated := definitionToRule(merged, m.rules[idx].ID, m.rules[idx].Created)
	previous := m.rules[idx]
	m.rules[idx] = updated
	if err := m.persist(ctx); err != nil {
		m.rules[idx] = previous
		return Rule{}, err
	}

	m.logger.Info("Rule updated", zap.String("rule_id", id), zap.String("name", updated.Name))
	return updated, nil
}

// DeleteRule removes the rule and persists the collection.
func (m *Manager) DeleteRule(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}

	previous := m.rules
	m.rules = append(append([]Rule{}, m.rules[:idx]...), m.rules[idx+1:]...)
	if err := m.persist(ctx); err != nil {
		m.rules = previous
		return err
	}

	m.logger.Info("Rule deleted", zap.String("rule_id", id))
	m.metrics.SetActiveRules(len(m.rules))
	return nil
}

// CreateFromTemplate instantiates a built-in template and adds it like a
// regular rule. Template keys are case-sensitive.
func (m *Manager) CreateFromTemplate(ctx context.Context, key string) (Rule, error) {
	def, ok := Template(key)
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	return m.AddRule(ctx, def)
}

// Import parses a serialized array of rule definitions and adds each entry
// through the same validation and duplicate-name path as AddRule. Entries
// that fail are skipped, never fatal. The whole batch is covered by a single
// persistence write.
func (m *Manager) Import(ctx context.Context, data []byte) (ImportResult, error) {
	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse rule import: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result ImportResult
	staged := m.rules
	for _, def := range defs {
		rule, err := buildRuleAgainst(staged, def)
		if err != nil {
			m.logger.Warn("Import entry skipped",
				zap.String("name", def.Name),
				zap.Error(err),
			)
			result.Skipped++
			continue
		}
		staged = append(staged, rule)
		result.Imported++
	}

	if result.Imported > 0 {
		previous := m.rules
		m.rules = staged
		if err := m.persist(ctx); err != nil {
			m.rules = previous
			return ImportResult{}, err
		}
	}

	m.logger.Info("Rules imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	m.metrics.SetActiveRules(len(m.rules))
	return result, nil
}

// Export serializes the full collection in insertion order, disabled rules
// included.
func (m *Manager) Export() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return json.MarshalIndent(m.rules, "", "  ")
}

func (m *Manager) indexOf(id string) int {
	for i, r := range m.rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// buildRule validates def against the resident collection and materializes a
// rule with a fresh identity. Caller holds the lock.
func (m *Manager) buildRule(def Definition) (Rule, error) {
	return buildRuleAgainst(m.rules, def)
}

func buildRuleAgainst(existing []Rule, def Definition) (Rule, error) {
	if err := Validate(def); err != nil {
		return Rule{}, err
	}
	for _, r := range existing {
		if r.Name == def.Name {
			return Rule{}, fmt.Errorf("%w: %s", ErrDuplicateRuleName, def.Name)
		}
	}
	return definitionToRule(def, uuid.NewString(), time.Now().UTC()), nil
}

func definitionToRule(def Definition, id string, created time.Time) Rule {
	rule := Rule{
		ID:              id,
		Name:            def.Name,
		Pattern:         def.Pattern,
		Regex:           def.Regex,
		ReplacementType: def.ReplacementType,
		Replacement:     def.Replacement,
		ReplacementChar: def.ReplacementChar,
		Enabled:         true,
		Created:         created,
	}
	if def.Priority != nil {
		rule.Priority = *def.Priority
	}
	if def.Enabled != nil {
		rule.Enabled = *def.Enabled
	}
	return rule
}

// mergeDefinition lays def over the current rule. A supplied matcher replaces
// both matcher fields so a literal update cannot leave a stale regex behind.
func mergeDefinition(current Rule, def Definition) Definition {
	merged := current.Definition()

	if def.Name != "" {
		merged.Name = def.Name
	}
	if def.Pattern != "" || def.Regex != "" {
		merged.Pattern = def.Pattern
		merged.Regex = def.Regex
	}
	if def.ReplacementType != "" {
		merged.ReplacementType = def.ReplacementType
	}
	if def.Replacement != "" {
		merged.Replacement = def.Replacement
	}
	if def.ReplacementChar != "" {
		merged.ReplacementChar = def.ReplacementChar
	}
	if def.Priority != nil {
		merged.Priority = def.Priority
	}
	if def.Enabled != nil {
		merged.Enabled = def.Enabled
	}
	return merged
}

func (m *Manager) persist(ctx context.Context) error {
	blob, err := json.Marshal(m.rules)
	if err != nil {
		return fmt.Errorf("failed to encode rule collection: %w", err)
	}
	if err := m.store.Set(ctx, m.key, string(blob)); err != nil {
		return fmt.Errorf("failed to persist rule collection: %w", err)
	}
	return nil
}
