package approval_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/approval"
	approvalerrors "go-leave/internal/approval/errors"
	approvalMock "go-leave/internal/approval/mock"
	employeeMock "go-leave/internal/employee/mock"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	leaveMock "go-leave/internal/leave/mock"
	"go-leave/internal/manager"
	managerMock "go-leave/internal/manager/mock"
	"go-leave/internal/messaging/kafka"
	outboxMock "go-leave/internal/messaging/kafka/mock"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   approval.Service
	repo      *approvalMock.MockRepository
	requests  *leaveMock.MockRepository
	managers  *managerMock.MockRepository
	employees *employeeMock.MockRepository
	outbox    *outboxMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      approvalMock.NewMockRepository(ctrl),
		requests:  leaveMock.NewMockRepository(ctrl),
		managers:  managerMock.NewMockRepository(ctrl),
		employees: employeeMock.NewMockRepository(ctrl),
		outbox:    outboxMock.NewMockOutboxRepository(ctrl),
	}
	deps.service = approval.NewService(db, deps.repo, approval.Deps{
		Requests:  deps.requests,
		Managers:  deps.managers,
		Employees: deps.employees,
		Outbox:    deps.outbox,
	})
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var mia = &manager.Manager{ID: uuid.New(), Name: "Mia", Email: "mia@corp.io"}

func pending(id uuid.UUID) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:            id,
		EmployeeID:    "E",
		LeaveTypeCode: "ANNUAL",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Days:          5,
		Status:        leave.StatusPending,
	}
}

// expectLookups wires the manager and request lookups that precede every
// insert.
func (d *serviceDeps) expectLookups(ctx context.Context, lr *leave.LeaveRequest) {
	d.managers.EXPECT().WithTx(gomock.Any()).Return(d.managers)
	d.managers.EXPECT().FindByName(ctx, "Mia").Return(mia, nil)
	d.requests.EXPECT().WithTx(gomock.Any()).Return(d.requests)
	d.requests.EXPECT().FindByID(ctx, lr.ID).Return(lr, nil)
}

func TestApprovalService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	defer deps.db.Close()

	cases := []struct {
		name string
		req  approval.CreateApprovalRequest
		want error
	}{
		{"missing request", approval.CreateApprovalRequest{Decision: "Approved", ManagerName: "Mia"}, approvalerrors.ErrRequestIDRequired},
		{"bad decision", approval.CreateApprovalRequest{RequestID: "x", Decision: "Maybe", ManagerName: "Mia"}, approvalerrors.ErrInvalidDecision},
		{"blank manager", approval.CreateApprovalRequest{RequestID: "x", Decision: "approved", ManagerName: "  "}, approvalerrors.ErrManagerNameRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := deps.service.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
		})
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestApprovalService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("approved decrements balance and queues decided event", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		lr := pending(uuid.New())

		expectTx(t, deps.sqlMock, true)
		deps.expectLookups(ctx, lr)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, a *approval.Approval) error {
			assert.Equal(t, "E", a.EmployeeID)
			assert.Equal(t, leave.StatusApproved, a.Decision)
			assert.Equal(t, mia.ID, *a.ManagerID)
			return nil
		})
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.requests.EXPECT().FindByID(ctx, lr.ID).Return(lr, nil)
		deps.requests.EXPECT().UpdateStatusIfPending(ctx, lr.ID, leave.StatusApproved).Return(int64(1), nil)
		deps.employees.EXPECT().DecrementBalance(ctx, "E", 5).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
			assert.Equal(t, events.LeaveRequestDecided, ev.EventType)
			var payload events.LeaveRequestDecidedEvent
			assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
			assert.Equal(t, 5, payload.Days)
			assert.Equal(t, "Mia", payload.ManagerName)
			return nil
		})

		resp, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
			RequestID:   lr.ID.String(),
			Decision:    "APPROVED",
			ManagerName: " Mia ",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Approved", resp.Decision)
		assert.Equal(t, "Approved", resp.RequestStatus)
		assert.Equal(t, 5, resp.DaysDeducted)
		assert.Equal(t, lr.ID.String(), resp.RequestID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.managers.EXPECT().WithTx(gomock.Any()).Return(deps.managers)
		deps.managers.EXPECT().FindByName(ctx, "Ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
			RequestID: uuid.NewString(), Decision: "Approved", ManagerName: "Ghost",
		})

		assert.EqualError(t, err, "Manager Ghost not found")
		assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
	})

	t.Run("unknown request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		id := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.managers.EXPECT().WithTx(gomock.Any()).Return(deps.managers)
		deps.managers.EXPECT().FindByName(ctx, "Mia").Return(mia, nil)
		deps.requests.EXPECT().WithTx(gomock.Any()).Return(deps.requests)
		deps.requests.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
			RequestID: id.String(), Decision: "Approved", ManagerName: "Mia",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveRequestNotFound)
	})

	t.Run("decided request conflicts regardless of decision", func(t *testing.T) {
		for _, decision := range []string{"Approved", "Rejected"} {
			deps := setupServiceTest(t)
			lr := pending(uuid.New())
			lr.Status = leave.StatusRejected

			expectTx(t, deps.sqlMock, false)
			deps.expectLookups(ctx, lr)

			_, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
				RequestID: lr.ID.String(), Decision: decision, ManagerName: "Mia", Comments: "late",
			})

			assert.EqualError(t, err, "This request has already been rejected")
			assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
			deps.db.Close()
		}
	})

	t.Run("rejection needs comments", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		lr := pending(uuid.New())

		expectTx(t, deps.sqlMock, false)
		deps.expectLookups(ctx, lr)

		_, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
			RequestID: lr.ID.String(), Decision: "Rejected", ManagerName: "Mia", Comments: "   ",
		})

		assert.ErrorIs(t, err, approvalerrors.ErrCommentsRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("request vanishing mid-flight is recorded as anomaly", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		lr := pending(uuid.New())

		expectTx(t, deps.sqlMock, true)
		deps.expectLookups(ctx, lr)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.requests.EXPECT().FindByID(ctx, lr.ID).Return(nil, gorm.ErrRecordNotFound)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
			assert.Equal(t, events.WorkflowAnomalyTopic, ev.Topic)
			assert.Equal(t, events.WorkflowAnomaly, ev.EventType)
			return nil
		})

		resp, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
			RequestID: lr.ID.String(), Decision: "Approved", ManagerName: "Mia",
		})

		assert.NoError(t, err)
		assert.Empty(t, resp.RequestStatus)
		assert.Zero(t, resp.DaysDeducted)
	})

	t.Run("workflow failure rolls everything back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		lr := pending(uuid.New())

		expectTx(t, deps.sqlMock, false)
		deps.expectLookups(ctx, lr)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.requests.EXPECT().FindByID(ctx, lr.ID).Return(lr, nil)
		deps.requests.EXPECT().UpdateStatusIfPending(ctx, lr.ID, leave.StatusApproved).Return(int64(1), nil)
		deps.employees.EXPECT().DecrementBalance(ctx, "E", 5).Return(errors.New("timeout"))

		_, err := deps.service.Create(ctx, approval.CreateApprovalRequest{
			RequestID: lr.ID.String(), Decision: "Approved", ManagerName: "Mia",
		})

		assert.EqualError(t, err, "timeout")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestApprovalService_GetAll(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	defer deps.db.Close()
	reqID := uuid.New()

	deps.repo.EXPECT().FindAll(ctx, approval.ListFilter{RequestID: reqID.String(), Decision: "Rejected", ManagerName: "mia"}).
		Return([]approval.Approval{{ID: uuid.New(), RequestID: reqID, Decision: "Rejected"}}, nil)

	resp, err := deps.service.GetAll(ctx, approval.ListFilter{RequestID: reqID.String(), Decision: "rejected", ManagerName: " mia "})
	assert.NoError(t, err)
	assert.Len(t, resp, 1)

	_, err = deps.service.GetAll(ctx, approval.ListFilter{Decision: "pending"})
	assert.ErrorIs(t, err, approvalerrors.ErrInvalidDecision)

	_, err = deps.service.GetAll(ctx, approval.ListFilter{RequestID: "nope"})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveRequestID)
}

func TestApprovalService_GetByID(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	defer deps.db.Close()
	id := uuid.New()

	deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := deps.service.GetByID(ctx, id.String())
	assert.ErrorIs(t, err, approvalerrors.ErrApprovalNotFound)

	_, err = deps.service.GetByID(ctx, "bad")
	assert.ErrorIs(t, err, approvalerrors.ErrInvalidApprovalID)
}
