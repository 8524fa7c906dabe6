package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/fieldcheck"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxEmpIDLen    = 10
	maxTypeCodeLen = 15
	maxReasonLen   = 1000
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	GetByEmployee(ctx context.Context, empID string, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

// draft is a request that passed field validation but not yet the lookups
// against employee and leave type.
type draft struct {
	employeeID    string
	leaveTypeCode string
	start         time.Time
	end           time.Time
	reason        string
}

func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveTypeCode),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	d, err := validateDraft(req.EmployeeID, req.LeaveTypeCode, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	days, err := s.checkPolicy(ctx, qtx, d)
	if err != nil {
		s.logger.Warn("create leave rejected", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	lr := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    d.employeeID,
		LeaveTypeCode: d.leaveTypeCode,
		StartDate:     d.start,
		EndDate:       d.end,
		Days:          days,
		Reason:        d.reason,
		Status:        StatusPending,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		event, err := kafka.NewEvent(rid, "leave_request", lr.ID.String(), events.LeaveRequestCreated, events.LeaveLifecycleTopic,
			events.LeaveRequestCreatedEvent{
				EventType:      events.LeaveRequestCreated,
				RequestID:      rid,
				LeaveRequestID: lr.ID.String(),
				EmployeeID:     lr.EmployeeID,
				LeaveTypeCode:  lr.LeaveTypeCode,
				Days:           lr.Days,
				OccurredAt:     time.Now().UTC(),
			})
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("create leave outbox persist failed",
				zap.String("leave_id", lr.ID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", lr.ID.String()),
		zap.String("employee_id", lr.EmployeeID),
		zap.Int("days", lr.Days),
	)
	return mapToResponse(*lr), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByEmployee(ctx context.Context, empID string, filter ListFilter) ([]LeaveResponse, error) {
	if _, err := s.repo.FindEmployee(ctx, empID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.EmployeeNotFound(empID)
		}
		return nil, err
	}

	filter.EmployeeID = empID
	return s.GetAll(ctx, filter)
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveRequestID
	}

	lr, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveTypeCode),
	)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveRequestID
	}

	d, err := validateDraft(req.EmployeeID, req.LeaveTypeCode, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		s.logger.Warn("update leave validation failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.AlreadyDecided(lr.Status)
	}

	days, err := s.checkPolicy(ctx, qtx, d)
	if err != nil {
		s.logger.Warn("update leave rejected", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	lr.EmployeeID = d.employeeID
	lr.LeaveTypeCode = d.leaveTypeCode
	lr.StartDate = d.start
	lr.EndDate = d.end
	lr.Days = days
	lr.Reason = d.reason
	lr.Employee = nil
	lr.LeaveType = nil

	n, err := qtx.UpdateIfPending(ctx, lr)
	if err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if n == 0 {
		s.logger.Warn("update leave lost race with decision", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.AlreadyDecided("decided")
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave success", zap.String("leave_id", id), zap.Int("days", days))
	return mapToResponse(*lr), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return leaveerrors.ErrInvalidLeaveRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveRequestNotFound
		}
		return err
	}
	if lr.Status != StatusPending {
		return leaveerrors.AlreadyDecided(lr.Status)
	}

	n, err := qtx.DeleteIfPending(ctx, leaveID)
	if err != nil {
		s.logger.Error("delete leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return leaveerrors.AlreadyDecided("decided")
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

// checkPolicy resolves the employee and leave type of d and enforces the
// per-type maximum and the employee's remaining balance. It returns the
// inclusive day count.
func (s *service) checkPolicy(ctx context.Context, repo Repository, d draft) (int, error) {
	emp, err := repo.FindEmployee(ctx, d.employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, leaveerrors.EmployeeNotFound(d.employeeID)
		}
		return 0, err
	}

	lt, err := repo.FindLeaveType(ctx, d.leaveTypeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, leaveerrors.LeaveTypeNotFound(d.leaveTypeCode)
		}
		return 0, err
	}

	days := InclusiveDays(d.start, d.end)
	if days > lt.MaxDays {
		return 0, leaveerrors.PolicyExceeded(lt.MaxDays, lt.Name)
	}
	if days > emp.LeaveBalance {
		return 0, leaveerrors.ErrInsufficientBalance
	}
	return days, nil
}

func validateDraft(employeeID, leaveTypeCode, startDate, endDate, reason string) (draft, error) {
	var d draft
	var err error

	if d.employeeID, err = fieldcheck.Text("employeeId", employeeID, maxEmpIDLen); err != nil {
		return draft{}, err
	}
	if d.leaveTypeCode, err = fieldcheck.Code("leaveTypeCode", leaveTypeCode, maxTypeCodeLen); err != nil {
		return draft{}, err
	}
	if d.start, err = parseDate("startDate", startDate); err != nil {
		return draft{}, err
	}
	if d.end, err = parseDate("endDate", endDate); err != nil {
		return draft{}, err
	}
	if d.start.After(d.end) {
		return draft{}, leaveerrors.ErrInvalidDateRange
	}
	if d.reason, err = fieldcheck.OptionalText("reason", reason, maxReasonLen); err != nil {
		return draft{}, err
	}
	return d, nil
}

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.InvalidDate(field)
	}
	return t, nil
}

func normalizeFilter(filter ListFilter) (ListFilter, error) {
	if filter.Status != "" {
		status, ok := NormalizeStatus(filter.Status)
		if !ok {
			return filter, leaveerrors.ErrInvalidStatusFilter
		}
		filter.Status = status
	}
	if filter.LeaveTypeCode != "" {
		filter.LeaveTypeCode = normalizeCode(filter.LeaveTypeCode)
	}
	return filter, nil
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            lr.ID.String(),
		EmployeeID:    lr.EmployeeID,
		LeaveTypeCode: lr.LeaveTypeCode,
		StartDate:     lr.StartDate.Format(dateLayout),
		EndDate:       lr.EndDate.Format(dateLayout),
		Days:          lr.Days,
		Reason:        lr.Reason,
		Status:        lr.Status,
	}
	if !lr.CreatedAt.IsZero() {
		resp.CreatedAt = lr.CreatedAt.Format(time.RFC3339)
	}
	if !lr.UpdatedAt.IsZero() {
		resp.UpdatedAt = lr.UpdatedAt.Format(time.RFC3339)
	}
	if lr.Employee != nil {
		resp.Employee = &EmployeeSummary{
			EmpID:        lr.Employee.EmpID,
			Name:         lr.Employee.Name,
			Email:        lr.Employee.Email,
			LeaveBalance: lr.Employee.LeaveBalance,
		}
	}
	if lr.LeaveType != nil {
		resp.LeaveType = &LeaveTypeSummary{
			Code:    lr.LeaveType.Code,
			Name:    lr.LeaveType.Name,
			MaxDays: lr.LeaveType.MaxDays,
		}
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
