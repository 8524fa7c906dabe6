package rbac

import (
	"context"

	"go-leave/internal/domain"

	"gorm.io/gorm"
)

const (
	PTypePolicy   = "p"
	PTypeGrouping = "g"
)

// Rule is one casbin line: p(role, resource, action) or g(role, parent).
type Rule struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	PType string `gorm:"type:varchar(2);not null;uniqueIndex:uq_casbin_rule"`
	V0    string `gorm:"type:varchar(40);not null;uniqueIndex:uq_casbin_rule"`
	V1    string `gorm:"type:varchar(40);not null;uniqueIndex:uq_casbin_rule"`
	V2    string `gorm:"type:varchar(40);not null;default:'';uniqueIndex:uq_casbin_rule"`
}

func (Rule) TableName() string { return "casbin_rules" }

// DefaultRules apply when the rules table is empty.
var DefaultRules = []Rule{
	{PType: PTypePolicy, V0: domain.RoleAdmin, V1: "*", V2: "*"},

	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "employee", V2: "read"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "leave_type", V2: "read"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "manager", V2: "read"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "leave_request", V2: "read"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "leave_request", V2: "create"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "leave_request", V2: "update"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "leave_request", V2: "delete"},
	{PType: PTypePolicy, V0: domain.RoleEmployee, V1: "approval", V2: "read"},

	{PType: PTypeGrouping, V0: domain.RoleManager, V1: domain.RoleEmployee},
	{PType: PTypePolicy, V0: domain.RoleManager, V1: "approval", V2: "create"},
	{PType: PTypePolicy, V0: domain.RoleManager, V1: "report", V2: "read"},
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListRules(ctx context.Context) ([]Rule, error)
	ReplaceRules(ctx context.Context, rules []Rule) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRules(ctx context.Context) ([]Rule, error) {
	var rules []Rule
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *repository) ReplaceRules(ctx context.Context, rules []Rule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Rule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		rows := make([]Rule, len(rules))
		for i, rule := range rules {
			rule.ID = 0
			rows[i] = rule
		}
		return tx.Create(&rows).Error
	})
}
