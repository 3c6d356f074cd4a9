package screener

import (
	"fmt"
	"math"
)

// equalityEpsilon is the tolerance for == and !=
const equalityEpsilon = 0.0001

// Compile compiles a rule into a CompiledRule function
func Compile(rule Rule) (CompiledRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule: %w", err)
	}

	// Copy so later edits to the rule do not leak into the closure
	conditions := make([]Condition, len(rule.Conditions))
	for i, c := range rule.Conditions {
		if c.Value != nil {
			c.Value = value(*c.Value)
		}
		conditions[i] = c
	}

	compiled := func(metrics map[string]float64) bool {
		// AND logic - all must be true
		for i := range conditions {
			if !evaluateCondition(&conditions[i], metrics) {
				return false
			}
		}
		return true
	}

	return compiled, nil
}

// evaluateCondition evaluates a condition against metrics.
// A missing metric or ref never matches.
func evaluateCondition(cond *Condition, metrics map[string]float64) bool {
	metricValue, ok := metrics[cond.Metric]
	if !ok {
		return false
	}

	var comparisonValue float64
	if cond.Ref != "" {
		comparisonValue, ok = metrics[cond.Ref]
		if !ok {
			return false
		}
	} else {
		comparisonValue = *cond.Value
	}

	switch cond.Operator {
	case ">":
		return metricValue > comparisonValue
	case "<":
		return metricValue < comparisonValue
	case ">=":
		return metricValue >= comparisonValue
	case "<=":
		return metricValue <= comparisonValue
	case "==":
		return math.Abs(metricValue-comparisonValue) < equalityEpsilon
	case "!=":
		return math.Abs(metricValue-comparisonValue) >= equalityEpsilon
	default:
		return false
	}
}
