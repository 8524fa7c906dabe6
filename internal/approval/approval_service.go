package approval

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	approvalerrors "go-leave/internal/approval/errors"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/manager"
	managererrors "go-leave/internal/manager/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const timeLayout = time.RFC3339

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateApprovalRequest) (ApprovalResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]ApprovalResponse, error)
	GetByID(ctx context.Context, id string) (ApprovalResponse, error)
}

type Deps struct {
	Requests  leave.Repository
	Managers  manager.Repository
	Employees employee.Repository
	Engine    *workflow.Engine
	Outbox    kafka.OutboxRepository
}

type service struct {
	db        *sql.DB
	repo      Repository
	requests  leave.Repository
	managers  manager.Repository
	employees employee.Repository
	engine    *workflow.Engine
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	engine := deps.Engine
	if engine == nil {
		engine = workflow.NewEngine(l)
	}
	return &service{
		db:        db,
		repo:      repo,
		requests:  deps.Requests,
		managers:  deps.Managers,
		employees: deps.Employees,
		engine:    engine,
		outbox:    deps.Outbox,
		logger:    l,
	}
}

type decisionInput struct {
	requestID   string
	decision    string
	managerName string
	comments    string
}

// Create records the decision and applies it to the leave request in the same
// transaction. Either both happen or neither does.
func (s *service) Create(ctx context.Context, req CreateApprovalRequest) (ApprovalResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create approval requested",
		zap.String("request_id", rid),
		zap.String("leave_id", req.RequestID),
		zap.String("decision", req.Decision),
		zap.String("manager_name", req.ManagerName),
	)

	in, err := validateInput(req)
	if err != nil {
		s.logger.Warn("create approval validation failed", zap.String("request_id", rid), zap.Error(err))
		return ApprovalResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create approval begin tx failed", zap.Error(err))
		return ApprovalResponse{}, err
	}
	defer tx.Rollback()

	m, err := s.managers.WithTx(tx).FindByName(ctx, in.managerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResponse{}, managererrors.NotFoundByName(in.managerName)
		}
		return ApprovalResponse{}, err
	}

	leaveID, err := uuid.Parse(in.requestID)
	if err != nil {
		return ApprovalResponse{}, leaveerrors.ErrLeaveRequestNotFound
	}

	requests := s.requests.WithTx(tx)
	lr, err := requests.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return ApprovalResponse{}, err
	}
	if lr.Status != leave.StatusPending {
		s.logger.Warn("create approval on decided request",
			zap.String("request_id", rid),
			zap.String("leave_id", lr.ID.String()),
			zap.String("status", lr.Status),
		)
		return ApprovalResponse{}, leaveerrors.AlreadyDecided(lr.Status)
	}
	if in.decision == leave.StatusRejected && in.comments == "" {
		return ApprovalResponse{}, approvalerrors.ErrCommentsRequired
	}

	managerID := m.ID
	a := &Approval{
		ID:          uuid.New(),
		RequestID:   lr.ID,
		EmployeeID:  lr.EmployeeID,
		ManagerName: m.Name,
		ManagerID:   &managerID,
		Decision:    in.decision,
		Comments:    in.comments,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
		s.logger.Error("create approval persist failed", zap.Error(err))
		return ApprovalResponse{}, err
	}

	result, err := s.engine.Apply(ctx, workflow.Stores{
		Requests: requests,
		Balances: s.employees.WithTx(tx),
	}, workflow.Input{ApprovalID: a.ID, RequestID: a.RequestID, Decision: a.Decision})
	if err != nil {
		s.logger.Warn("apply decision failed",
			zap.String("request_id", rid),
			zap.String("approval_id", a.ID.String()),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	if err := s.recordOutcome(ctx, tx, rid, a, result); err != nil {
		return ApprovalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create approval commit failed", zap.Error(err))
		return ApprovalResponse{}, err
	}

	s.logger.Info("create approval success",
		zap.String("request_id", rid),
		zap.String("approval_id", a.ID.String()),
		zap.String("leave_id", a.RequestID.String()),
		zap.String("decision", a.Decision),
		zap.Int("days", result.Days),
	)

	resp := mapToResponse(*a)
	resp.RequestStatus = result.Status
	if result.Status == leave.StatusApproved {
		resp.DaysDeducted = result.Days
	}
	return resp, nil
}

// recordOutcome queues the decided event, or the anomaly event when the
// engine could not apply the decision.
func (s *service) recordOutcome(ctx context.Context, tx *sql.Tx, rid string, a *Approval, result workflow.Result) error {
	if s.outbox == nil {
		return nil
	}

	var (
		event kafka.OutboxEvent
		err   error
	)
	now := time.Now().UTC()
	if result.Anomaly != "" {
		event, err = kafka.NewEvent(rid, "approval", a.ID.String(), events.WorkflowAnomaly, events.WorkflowAnomalyTopic,
			events.WorkflowAnomalyEvent{
				EventType:      events.WorkflowAnomaly,
				RequestID:      rid,
				ApprovalID:     a.ID.String(),
				LeaveRequestID: a.RequestID.String(),
				Decision:       a.Decision,
				Reason:         result.Anomaly,
				OccurredAt:     now,
			})
	} else {
		event, err = kafka.NewEvent(rid, "leave_request", a.RequestID.String(), events.LeaveRequestDecided, events.LeaveLifecycleTopic,
			events.LeaveRequestDecidedEvent{
				EventType:      events.LeaveRequestDecided,
				RequestID:      rid,
				LeaveRequestID: a.RequestID.String(),
				ApprovalID:     a.ID.String(),
				EmployeeID:     result.EmployeeID,
				Decision:       a.Decision,
				Days:           result.Days,
				ManagerName:    a.ManagerName,
				OccurredAt:     now,
			})
	}
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("create approval outbox persist failed",
			zap.String("approval_id", a.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]ApprovalResponse, error) {
	if filter.Decision != "" {
		decision, ok := NormalizeDecision(filter.Decision)
		if !ok {
			return nil, approvalerrors.ErrInvalidDecision
		}
		filter.Decision = decision
	}
	if filter.RequestID != "" {
		id, err := uuid.Parse(strings.TrimSpace(filter.RequestID))
		if err != nil {
			return nil, leaveerrors.ErrInvalidLeaveRequestID
		}
		filter.RequestID = id.String()
	}
	filter.ManagerName = strings.TrimSpace(filter.ManagerName)

	approvals, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all approvals failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(approvals), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ApprovalResponse, error) {
	approvalID, err := uuid.Parse(id)
	if err != nil {
		return ApprovalResponse{}, approvalerrors.ErrInvalidApprovalID
	}

	a, err := s.repo.FindByID(ctx, approvalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResponse{}, approvalerrors.ErrApprovalNotFound
		}
		return ApprovalResponse{}, err
	}
	return mapToResponse(*a), nil
}

func validateInput(req CreateApprovalRequest) (decisionInput, error) {
	in := decisionInput{
		requestID:   strings.TrimSpace(req.RequestID),
		managerName: strings.TrimSpace(req.ManagerName),
		comments:    strings.TrimSpace(req.Comments),
	}
	if in.requestID == "" {
		return decisionInput{}, approvalerrors.ErrRequestIDRequired
	}
	decision, ok := NormalizeDecision(req.Decision)
	if !ok {
		return decisionInput{}, approvalerrors.ErrInvalidDecision
	}
	in.decision = decision
	if in.managerName == "" {
		return decisionInput{}, approvalerrors.ErrManagerNameRequired
	}
	return in, nil
}

func mapToResponse(a Approval) ApprovalResponse {
	resp := ApprovalResponse{
		ID:          a.ID.String(),
		RequestID:   a.RequestID.String(),
		EmployeeID:  a.EmployeeID,
		ManagerName: a.ManagerName,
		Decision:    a.Decision,
		Comments:    a.Comments,
	}
	if a.ManagerID != nil {
		resp.ManagerID = a.ManagerID.String()
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.Format(timeLayout)
	}
	if lr := a.LeaveRequest; lr != nil {
		resp.Request = &RequestSummary{
			ID:            lr.ID.String(),
			LeaveTypeCode: lr.LeaveTypeCode,
			StartDate:     lr.StartDate.Format("2006-01-02"),
			EndDate:       lr.EndDate.Format("2006-01-02"),
			Days:          lr.Days,
			Status:        lr.Status,
		}
	}
	return resp
}

func mapToListResponse(approvals []Approval) []ApprovalResponse {
	resp := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		resp[i] = mapToResponse(a)
	}
	return resp
}
