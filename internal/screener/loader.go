package screener

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseRule decodes a YAML rule. Missing top_n defaults to 4.
func ParseRule(data []byte) (Rule, error) {
	var rule Rule
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rule); err != nil {
		return Rule{}, fmt.Errorf("failed to parse rule: %w", err)
	}

	if rule.TopN == 0 {
		rule.TopN = DefaultRule().TopN
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, fmt.Errorf("invalid rule: %w", err)
	}

	return rule, nil
}

// LoadRuleFile reads a YAML rule from path
func LoadRuleFile(path string) (Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to read rule file: %w", err)
	}
	return ParseRule(data)
}
