// Package workflow applies a manager's decision to the leave request it
// targets. It runs inside the transaction that records the approval, so a
// failure here rolls the approval back with it.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=workflow.go -destination=mock/workflow_mock.go -package=mock
type RequestStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (int64, error)
}

type BalanceStore interface {
	DecrementBalance(ctx context.Context, empID string, days int) error
}

// Stores are the transaction-bound stores the engine writes through.
type Stores struct {
	Requests RequestStore
	Balances BalanceStore
}

type Input struct {
	ApprovalID uuid.UUID
	RequestID  uuid.UUID
	Decision   string
}

// Result describes what the engine did. Anomaly is set when the decision
// could not be applied for a reason that must not fail the approval.
type Result struct {
	Status     string
	EmployeeID string
	Days       int
	Anomaly    string
}

const AnomalyRequestMissing = "leave request disappeared before the decision was applied"

type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger ...*zap.Logger) *Engine {
	l := zap.L().Named("workflow.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.engine")
	}
	return &Engine{logger: l}
}

// Apply moves the request out of Pending and, on approval, deducts the
// request's inclusive day count from the employee's balance. The status
// change is conditional on the row still being Pending, so two concurrent
// decisions cannot both succeed.
func (e *Engine) Apply(ctx context.Context, stores Stores, in Input) (Result, error) {
	rid := contextutil.GetRequestID(ctx)

	var status string
	switch in.Decision {
	case leave.StatusApproved, leave.StatusRejected:
		status = in.Decision
	default:
		return Result{}, fmt.Errorf("workflow: unsupported decision %q", in.Decision)
	}

	lr, err := stores.Requests.FindByID(ctx, in.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Warn("leave request missing after approval insert",
				zap.String("request_id", rid),
				zap.String("approval_id", in.ApprovalID.String()),
				zap.String("leave_id", in.RequestID.String()),
			)
			return Result{Anomaly: AnomalyRequestMissing}, nil
		}
		return Result{}, err
	}

	days := leave.InclusiveDays(lr.StartDate, lr.EndDate)

	n, err := stores.Requests.UpdateStatusIfPending(ctx, lr.ID, status)
	if err != nil {
		return Result{}, err
	}
	if n == 0 {
		e.logger.Warn("leave request decided concurrently",
			zap.String("request_id", rid),
			zap.String("leave_id", lr.ID.String()),
			zap.String("status", lr.Status),
		)
		current := lr.Status
		if current == leave.StatusPending {
			current = "decided"
		}
		return Result{}, leaveerrors.AlreadyDecided(current)
	}

	if status == leave.StatusApproved {
		if err := stores.Balances.DecrementBalance(ctx, lr.EmployeeID, days); err != nil {
			e.logger.Error("balance decrement failed",
				zap.String("request_id", rid),
				zap.String("employee_id", lr.EmployeeID),
				zap.Int("days", days),
				zap.Error(err),
			)
			return Result{}, err
		}
	}

	e.logger.Info("decision applied",
		zap.String("request_id", rid),
		zap.String("leave_id", lr.ID.String()),
		zap.String("status", status),
		zap.String("employee_id", lr.EmployeeID),
		zap.Int("days", days),
	)
	return Result{Status: status, EmployeeID: lr.EmployeeID, Days: days}, nil
}
