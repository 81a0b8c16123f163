package repositories

import (
	"errors"
	"fmt"

	"centime/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeeRuleRepository reads and writes fee rule configuration. It satisfies
// the fee engine's RuleSource.
type FeeRuleRepository struct {
	db *gorm.DB
}

func NewFeeRuleRepository(db *gorm.DB) *FeeRuleRepository {
	return &FeeRuleRepository{db: db}
}

// ActiveRule returns the active rule for the scope, or (nil, nil) when none
// is configured.
func (r *FeeRuleRepository) ActiveRule(transactionType, currency string) (*models.FeeRule, error) {
	var rule models.FeeRule
	err := r.db.
		Where("transaction_type = ? AND currency = ? AND active = ?", transactionType, currency, true).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fee rule: %w", err)
	}
	return &rule, nil
}

// Upsert inserts the rule or replaces the existing one for the same scope.
func (r *FeeRuleRepository) Upsert(rule *models.FeeRule) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "transaction_type"}, {Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "fixed_amount", "percent", "min_fee", "max_fee", "active", "updated_at",
		}),
	}).Create(rule).Error
	if err != nil {
		return fmt.Errorf("failed to upsert fee rule: %w", err)
	}
	return nil
}

// List returns every configured rule.
func (r *FeeRuleRepository) List() ([]models.FeeRule, error) {
	var rules []models.FeeRule
	if err := r.db.Order("transaction_type, currency").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list fee rules: %w", err)
	}
	return rules, nil
}
