package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	v, _ := time.Parse("2006-01-02", s)
	return v
}

func TestLeaveRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := dbtest.Open(t, &employee.Employee{}, &leavetype.LeaveType{}, &leave.LeaveRequest{})
	repo := leave.NewRepository(db)

	assert.NoError(t, db.Create(&employee.Employee{EmpID: "E1", Name: "Ana", Email: "ana@corp.io", LeaveBalance: 10}).Error)
	assert.NoError(t, db.Create(&leavetype.LeaveType{Code: "ANNUAL", Name: "Annual", MaxDays: 15}).Error)

	first := &leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: "E1", LeaveTypeCode: "ANNUAL",
		StartDate: date("2024-01-01"), EndDate: date("2024-01-05"), Days: 5, Status: leave.StatusPending,
	}
	second := &leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: "E1", LeaveTypeCode: "ANNUAL",
		StartDate: date("2024-02-01"), EndDate: date("2024-02-01"), Days: 1, Status: leave.StatusPending,
	}
	assert.NoError(t, repo.Create(ctx, first))
	assert.NoError(t, repo.Create(ctx, second))

	t.Run("find expands associations", func(t *testing.T) {
		lr, err := repo.FindByID(ctx, first.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Ana", lr.Employee.Name)
		assert.Equal(t, 15, lr.LeaveType.MaxDays)
		assert.Equal(t, "2024-01-05", lr.EndDate.Format("2006-01-02"))
	})

	t.Run("status moves out of pending once", func(t *testing.T) {
		n, err := repo.UpdateStatusIfPending(ctx, first.ID, leave.StatusApproved)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.UpdateStatusIfPending(ctx, first.ID, leave.StatusRejected)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), n)

		lr, err := repo.FindByID(ctx, first.ID)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, lr.Status)
	})

	t.Run("decided rows are neither edited nor deleted", func(t *testing.T) {
		edit := *first
		edit.Days = 2
		n, err := repo.UpdateIfPending(ctx, &edit)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), n)

		n, err = repo.DeleteIfPending(ctx, first.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("filters", func(t *testing.T) {
		pending, err := repo.FindAll(ctx, leave.ListFilter{Status: leave.StatusPending, ExpandEmployee: true})
		assert.NoError(t, err)
		assert.Len(t, pending, 1)
		assert.Equal(t, second.ID, pending[0].ID)
		assert.NotNil(t, pending[0].Employee)
		assert.Nil(t, pending[0].LeaveType)

		all, err := repo.FindAll(ctx, leave.ListFilter{EmployeeID: "E1", LeaveTypeCode: "ANNUAL"})
		assert.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID, "newest start date first")
	})

	t.Run("pending row deleted", func(t *testing.T) {
		n, err := repo.DeleteIfPending(ctx, second.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
