// Package seed loads reference data (leave types, managers, employees and
// authorization rules) from a YAML file through the regular services, so
// every row passes the same validation as an API write.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"go-leave/internal/employee"
	"go-leave/internal/leavetype"
	"go-leave/internal/manager"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type LeaveType struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	MaxDays int    `yaml:"maxDays"`
}

type Manager struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Employee struct {
	EmpID        string `yaml:"empId"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	LeaveBalance *int   `yaml:"leaveBalance"`
	ManagerEmail string `yaml:"managerEmail"`
}

type Rule struct {
	Type    string `yaml:"type"`
	Subject string `yaml:"subject"`
	Object  string `yaml:"object"`
	Action  string `yaml:"action"`
}

type Data struct {
	LeaveTypes []LeaveType `yaml:"leaveTypes"`
	Managers   []Manager   `yaml:"managers"`
	Employees  []Employee  `yaml:"employees"`
	Rules      []Rule      `yaml:"rules"`
}

// Parse decodes seed data from YAML bytes.
func Parse(data []byte) (Data, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Data{}, fmt.Errorf("seed: payload is empty")
	}
	var d Data
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Data{}, fmt.Errorf("seed: decode: %w", err)
	}
	return d, nil
}

// LoadFile reads and decodes a seed file.
func LoadFile(path string) (Data, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	d, err := Parse(content)
	if err != nil {
		return Data{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return d, nil
}

type Deps struct {
	LeaveTypes leavetype.Service
	Managers   manager.Service
	ManagerDir manager.Repository
	Employees  employee.Service
	Rules      rbac.Repository
}

// Report counts what a run did. Rows that already exist are skipped.
type Report struct {
	Created int
	Skipped int
}

type Seeder struct {
	deps   Deps
	logger *zap.Logger
}

func NewSeeder(deps Deps, logger ...*zap.Logger) *Seeder {
	l := zap.L().Named("seed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("seed")
	}
	return &Seeder{deps: deps, logger: l}
}

// Apply writes leave types, then managers, then employees, then rules.
// Running it twice is harmless.
func (s *Seeder) Apply(ctx context.Context, d Data) (Report, error) {
	var rep Report

	for _, lt := range d.LeaveTypes {
		_, err := s.deps.LeaveTypes.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Code: lt.Code, Name: lt.Name, MaxDays: lt.MaxDays,
		})
		if err := s.count(&rep, "leave type", lt.Code, err); err != nil {
			return rep, err
		}
	}

	for _, m := range d.Managers {
		_, err := s.deps.Managers.Create(ctx, manager.CreateManagerRequest{Name: m.Name, Email: m.Email})
		if err := s.count(&rep, "manager", m.Email, err); err != nil {
			return rep, err
		}
	}

	for _, e := range d.Employees {
		req := employee.CreateEmployeeRequest{
			EmpID:        e.EmpID,
			Name:         e.Name,
			Email:        e.Email,
			LeaveBalance: e.LeaveBalance,
		}
		if e.ManagerEmail != "" {
			m, err := s.deps.ManagerDir.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(e.ManagerEmail)))
			if err != nil {
				return rep, fmt.Errorf("seed: employee %s: manager %s: %w", e.Email, e.ManagerEmail, err)
			}
			req.ManagerID = m.ID.String()
		}
		_, err := s.deps.Employees.Create(ctx, req)
		if err := s.count(&rep, "employee", e.Email, err); err != nil {
			return rep, err
		}
	}

	if len(d.Rules) > 0 && s.deps.Rules != nil {
		rules := make([]rbac.Rule, len(d.Rules))
		for i, r := range d.Rules {
			ptype := rbac.PTypePolicy
			if strings.EqualFold(r.Type, rbac.PTypeGrouping) {
				ptype = rbac.PTypeGrouping
			}
			rules[i] = rbac.Rule{PType: ptype, V0: r.Subject, V1: r.Object, V2: r.Action}
		}
		if err := s.deps.Rules.ReplaceRules(ctx, rules); err != nil {
			return rep, fmt.Errorf("seed: rules: %w", err)
		}
		rep.Created += len(rules)
		s.logger.Info("seed rules replaced", zap.Int("rules", len(rules)))
	}

	return rep, nil
}

func (s *Seeder) count(rep *Report, kind, key string, err error) error {
	switch {
	case err == nil:
		rep.Created++
		s.logger.Info("seed row created", zap.String("kind", kind), zap.String("key", key))
		return nil
	case apperror.HasCode(err, apperror.CodeDuplicate):
		rep.Skipped++
		s.logger.Debug("seed row exists", zap.String("kind", kind), zap.String("key", key))
		return nil
	default:
		return fmt.Errorf("seed: %s %s: %w", kind, key, err)
	}
}
