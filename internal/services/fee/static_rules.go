package fee

import (
	"fmt"

	"centime/internal/models"
)

// StaticRules is an in-memory RuleSource for tests and fixed deployments.
type StaticRules struct {
	rules map[string]models.FeeRule
}

func NewStaticRules(rules []models.FeeRule) *StaticRules {
	indexed := make(map[string]models.FeeRule, len(rules))
	for _, rule := range rules {
		indexed[scopeKey(rule.TransactionType, rule.Currency)] = rule
	}
	return &StaticRules{rules: indexed}
}

func (s *StaticRules) ActiveRule(transactionType, currency string) (*models.FeeRule, error) {
	rule, ok := s.rules[scopeKey(transactionType, currency)]
	if !ok || !rule.Active {
		return nil, nil
	}
	return &rule, nil
}

func scopeKey(transactionType, currency string) string {
	return fmt.Sprintf("%s:%s", transactionType, currency)
}
