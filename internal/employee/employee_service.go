package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/fieldcheck"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOptionsKey = "employees:options"

	maxEmpIDLen = 10
	maxNameLen  = 100
	maxEmailLen = 100
	maxEmpSeq   = 999999
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, empID string) (EmployeeResponse, error)
	Update(ctx context.Context, empID string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	UpdateBalance(ctx context.Context, empID string, req UpdateBalanceRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, empID string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("emp_id", req.EmpID),
		zap.String("manager_id", req.ManagerID),
	)

	emp, err := validateCreate(req)
	if err != nil {
		s.logger.Warn("create employee validation failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if emp.EmpID == "" {
		nextVal, err := s.counter.WithTx(tx).NextValue(ctx, counter.TypeEmployeeNumber)
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if nextVal > maxEmpSeq {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNumberExhausted
		}
		emp.EmpID = fmt.Sprintf("EMP-%06d", nextVal)
	} else if _, err := qtx.FindByEmpID(ctx, emp.EmpID); err == nil {
		s.logger.Warn("create employee duplicate", zap.String("emp_id", emp.EmpID))
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create employee lookup failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := s.ensureManager(ctx, qtx, emp.ManagerID); err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, emp); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.invalidateOptions(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("emp_id", emp.EmpID),
	)
	return mapToResponse(*emp), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("q", filter.Q), zap.String("manager_id", filter.ManagerID))

	if filter.ManagerID != "" {
		if _, err := uuid.Parse(filter.ManagerID); err != nil {
			return nil, employeeerrors.ErrInvalidManagerID
		}
	}

	emps, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(emps), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, len(emps))
		for i, e := range emps {
			resp[i] = EmployeeOptionResponse{EmpID: e.EmpID, Name: e.Name}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, EmployeeOptionsKey, jsonData, time.Hour).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, empID string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("emp_id", empID))

	emp, err := s.repo.FindByEmpID(ctx, strings.TrimSpace(empID))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("get employee by id failed", zap.Error(err))
		}
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*emp), nil
}

func (s *service) Update(ctx context.Context, empID string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("emp_id", empID),
		zap.String("manager_id", req.ManagerID),
	)

	name, email, managerID, err := validateFields(req.Name, req.Email, req.ManagerID)
	if err != nil {
		s.logger.Warn("update employee validation failed", zap.String("emp_id", empID), zap.Error(err))
		return EmployeeResponse{}, err
	}
	if req.LeaveBalance != nil {
		if _, err := fieldcheck.NonNegative("leaveBalance", *req.LeaveBalance); err != nil {
			return EmployeeResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByEmpID(ctx, strings.TrimSpace(empID))
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.ensureManager(ctx, qtx, managerID); err != nil {
		return EmployeeResponse{}, err
	}

	emp.Name = name
	emp.Email = email
	emp.ManagerID = managerID

	if err := qtx.UpdateProfile(ctx, emp); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if req.LeaveBalance != nil {
		if err := qtx.UpdateBalance(ctx, emp.EmpID, *req.LeaveBalance); err != nil {
			s.logger.Error("update employee balance failed", zap.Error(err))
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}

	emp, err = qtx.FindByEmpID(ctx, emp.EmpID)
	if err != nil {
		s.logger.Error("update employee reload failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.invalidateOptions(ctx)

	s.logger.Info("update employee success", zap.String("emp_id", emp.EmpID))
	return mapToResponse(*emp), nil
}

// UpdateBalance sets an absolute balance, used for manual HR corrections.
func (s *service) UpdateBalance(ctx context.Context, empID string, req UpdateBalanceRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if req.LeaveBalance == nil {
		return EmployeeResponse{}, apperror.RequiredField("leaveBalance")
	}
	balance, err := fieldcheck.NonNegative("leaveBalance", *req.LeaveBalance)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update balance begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empID = strings.TrimSpace(empID)
	if err := qtx.UpdateBalance(ctx, empID, balance); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	emp, err := qtx.FindByEmpID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update balance commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update balance success",
		zap.String("request_id", rid),
		zap.String("emp_id", empID),
		zap.String("actor_id", contextutil.GetUserID(ctx)),
		zap.Int("leave_balance", balance),
	)
	return mapToResponse(*emp), nil
}

func (s *service) Delete(ctx context.Context, empID string) error {
	empID = strings.TrimSpace(empID)
	s.logger.Debug("delete employee requested", zap.String("emp_id", empID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pending, err := qtx.CountPendingRequests(ctx, empID)
	if err != nil {
		s.logger.Error("delete employee pending check failed", zap.Error(err))
		return err
	}
	if pending > 0 {
		s.logger.Warn("delete employee blocked by pending requests",
			zap.String("emp_id", empID),
			zap.Int64("pending", pending),
		)
		return employeeerrors.ErrEmployeeHasPendingRequests
	}

	if err := qtx.Delete(ctx, empID); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}
	s.invalidateOptions(ctx)

	s.logger.Info("delete employee success", zap.String("emp_id", empID))
	return nil
}

func (s *service) ensureManager(ctx context.Context, repo Repository, managerID *uuid.UUID) error {
	if managerID == nil {
		return nil
	}
	ok, err := repo.ManagerExists(ctx, *managerID)
	if err != nil {
		s.logger.Error("manager lookup failed", zap.Error(err))
		return err
	}
	if !ok {
		return employeeerrors.ManagerNotFound(managerID.String())
	}
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func validateCreate(req CreateEmployeeRequest) (*Employee, error) {
	empID, err := fieldcheck.OptionalText("empId", req.EmpID, maxEmpIDLen)
	if err != nil {
		return nil, err
	}
	name, email, managerID, err := validateFields(req.Name, req.Email, req.ManagerID)
	if err != nil {
		return nil, err
	}

	balance := DefaultLeaveBalance
	if req.LeaveBalance != nil {
		if balance, err = fieldcheck.NonNegative("leaveBalance", *req.LeaveBalance); err != nil {
			return nil, err
		}
	}

	return &Employee{
		EmpID:        empID,
		Name:         name,
		Email:        email,
		LeaveBalance: balance,
		ManagerID:    managerID,
	}, nil
}

func validateFields(name, email, managerID string) (string, string, *uuid.UUID, error) {
	name, err := fieldcheck.Text("name", name, maxNameLen)
	if err != nil {
		return "", "", nil, err
	}
	email, err = fieldcheck.Email("email", email, maxEmailLen)
	if err != nil {
		return "", "", nil, err
	}

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return name, email, nil, nil
	}
	id, err := uuid.Parse(managerID)
	if err != nil {
		return "", "", nil, employeeerrors.ErrInvalidManagerID
	}
	return name, email, &id, nil
}

func mapToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		EmpID:        emp.EmpID,
		Name:         emp.Name,
		Email:        emp.Email,
		LeaveBalance: emp.LeaveBalance,
	}
	if emp.ManagerID != nil {
		resp.ManagerID = emp.ManagerID.String()
	}
	if !emp.CreatedAt.IsZero() {
		resp.CreatedAt = emp.CreatedAt.Format(time.RFC3339)
	}
	if !emp.UpdatedAt.IsZero() {
		resp.UpdatedAt = emp.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}
