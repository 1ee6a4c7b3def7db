package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Condition is one predicate over an event payload. Field is a gjson path
// ("data.account.status"), Op one of the operators below, Value the operand.
type Condition struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

const (
	OpEquals    = "eq"
	OpNotEquals = "ne"
	OpContains  = "contains"
	OpExists    = "exists"
)

// RuleAction names the routing a matched rule selects.
type RuleAction struct {
	Channel string `json:"channel"`
	Locale  string `json:"locale"`
}

// ParseConditions decodes and validates a rule's conditions document.
func ParseConditions(raw []byte) ([]Condition, error) {
	var conditions []Condition
	if err := json.Unmarshal(raw, &conditions); err != nil {
		return nil, fmt.Errorf("conditions must be a JSON array: %w", err)
	}
	for i, c := range conditions {
		if strings.TrimSpace(c.Field) == "" {
			return nil, fmt.Errorf("condition %d: field is required", i)
		}
		switch c.Op {
		case OpEquals, OpNotEquals, OpContains:
			if c.Value == "" {
				return nil, fmt.Errorf("condition %d: value is required for op %q", i, c.Op)
			}
		case OpExists:
		default:
			return nil, fmt.Errorf("condition %d: unknown op %q", i, c.Op)
		}
	}
	return conditions, nil
}

// ParseAction decodes and validates a rule's action document.
func ParseAction(raw []byte) (*RuleAction, error) {
	var action RuleAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, fmt.Errorf("action must be a JSON object: %w", err)
	}
	if strings.TrimSpace(action.Channel) == "" {
		return nil, fmt.Errorf("action: channel is required")
	}
	if strings.TrimSpace(action.Locale) == "" {
		return nil, fmt.Errorf("action: locale is required")
	}
	return &action, nil
}

// Matches reports whether every condition of the rule holds against the
// payload. A rule with zero conditions matches everything, which is how a
// catch-all default rule is expressed.
func Matches(conditions []Condition, payload []byte) bool {
	for _, c := range conditions {
		if !matchCondition(c, payload) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, payload []byte) bool {
	result := gjson.GetBytes(payload, c.Field)

	switch c.Op {
	case OpExists:
		return result.Exists()
	case OpEquals:
		return result.Exists() && result.String() == c.Value
	case OpNotEquals:
		// an absent field is "not equal" to any value
		return !result.Exists() || result.String() != c.Value
	case OpContains:
		return result.Exists() && strings.Contains(result.String(), c.Value)
	default:
		return false
	}
}
