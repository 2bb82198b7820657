package matcher

import (
	"time"
)

type RuleType string

const (
	RuleTypeAge    RuleType = "age"
	RuleTypeStatus RuleType = "status"
	RuleTypeCustom RuleType = "custom"
)

// Rule selects archive candidates from a table's records.
type Rule struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    RuleType   `json:"type"`
	Enabled bool       `json:"enabled"`
	Config  RuleConfig `json:"config"`
}

// RuleConfig is the union of the per-type configs; which fields matter
// depends on Rule.Type.
type RuleConfig struct {
	Field         string `json:"field"`
	OlderThanDays int    `json:"olderThanDays,omitempty"`
	StatusValue   string `json:"statusValue,omitempty"`
	FilterFormula string `json:"filterFormula,omitempty"`
}

// Record is a platform record flattened to its id and cell values. Cell
// values keep the platform's JSON shapes: strings, numbers, booleans,
// single-select objects with a "name" key, arrays of attachments or
// collaborators.
type Record struct {
	ID         string         `json:"id"`
	CellValues map[string]any `json:"cellValues"`
}

// Match returns the records a rule selects, in input order. Disabled
// rules select nothing. Custom formula rules always select nothing:
// formulas can only be evaluated by the platform itself.
func Match(records []Record, rule Rule, now time.Time) []Record {
	if !rule.Enabled {
		return nil
	}
	var out []Record
	for _, rec := range records {
		if matches(rec, rule, now) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec Record, rule Rule, now time.Time) bool {
	switch rule.Type {
	case RuleTypeAge:
		return matchesAge(rec, rule.Config, now)
	case RuleTypeStatus:
		return matchesStatus(rec, rule.Config)
	default:
		return false
	}
}

func matchesAge(rec Record, cfg RuleConfig, now time.Time) bool {
	value, ok := rec.CellValues[cfg.Field]
	if !ok || value == nil {
		return false
	}
	t, ok := parseCellTime(value)
	if !ok {
		return false
	}
	ageDays := now.Sub(t).Hours() / 24
	return ageDays > float64(cfg.OlderThanDays)
}

func matchesStatus(rec Record, cfg RuleConfig) bool {
	value, ok := rec.CellValues[cfg.Field]
	if !ok || value == nil {
		return false
	}
	switch v := value.(type) {
	case string:
		return v == cfg.StatusValue
	case map[string]any:
		// single select cells arrive as {"name": ..., ...}
		name, _ := v["name"].(string)
		return name != "" && name == cfg.StatusValue
	}
	return false
}

func parseCellTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
