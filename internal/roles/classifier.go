package roles

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps subnet identifiers matching Pattern to Role.
type Rule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Role    Role   `yaml:"role" json:"role"`
}

type compiledRule struct {
	re   *regexp.Regexp
	role Role
}

// Classifier assigns roles to subnet identifiers using ordered rules.
// It is safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles rules in order. The first matching rule wins at
// classification time.
func NewClassifier(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d: pattern cannot be empty", i)
		}
		if !r.Role.IsKnown() {
			return nil, fmt.Errorf("rule %d: invalid role %q", i, r.Role)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, r.Pattern, err)
		}
		c.rules = append(c.rules, compiledRule{re: re, role: r.Role})
	}
	return c, nil
}

// Classify returns the role of the first rule matching subnetID, or
// RoleUnknown. A blank identifier is never matched.
func (c *Classifier) Classify(subnetID string) Role {
	if strings.TrimSpace(subnetID) == "" {
		return RoleUnknown
	}
	for _, r := range c.rules {
		if r.re.MatchString(subnetID) {
			return r.role
		}
	}
	return RoleUnknown
}
