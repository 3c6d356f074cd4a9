package screener

import (
	"fmt"
	"math"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

var validOperators = map[string]bool{
	">":  true,
	"<":  true,
	">=": true,
	"<=": true,
	"==": true,
	"!=": true,
}

// Validate validates a rule
func (r *Rule) Validate() error {
	if len(r.Conditions) == 0 {
		return models.ErrNoConditions
	}
	if r.TopN < 1 || r.TopN > MaxTopN {
		return fmt.Errorf("top_n must be between 1 and %d, got %d", MaxTopN, r.TopN)
	}

	for i := range r.Conditions {
		if err := r.Conditions[i].Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}

	return nil
}

// Validate validates a condition
func (c *Condition) Validate() error {
	if !knownMetrics[c.Metric] {
		return fmt.Errorf("%q: %w", c.Metric, models.ErrInvalidMetric)
	}
	if !validOperators[c.Operator] {
		return fmt.Errorf("%q: %w", c.Operator, models.ErrInvalidOperator)
	}

	switch {
	case c.Value == nil && c.Ref == "":
		return fmt.Errorf("condition on %s needs a value or a ref", c.Metric)
	case c.Value != nil && c.Ref != "":
		return fmt.Errorf("condition on %s cannot have both a value and a ref", c.Metric)
	case c.Value != nil && (math.IsNaN(*c.Value) || math.IsInf(*c.Value, 0)):
		return fmt.Errorf("condition on %s has a non-finite value", c.Metric)
	case c.Ref != "" && !knownMetrics[c.Ref]:
		return fmt.Errorf("ref %q: %w", c.Ref, models.ErrInvalidMetric)
	}

	return nil
}
