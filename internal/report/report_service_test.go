package report_test

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/report"
	reportMock "go-leave/internal/report/mock"
	"go-leave/internal/shared/apperror"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const ttl = 5 * time.Minute

type serviceDeps struct {
	redisMock redismock.ClientMock
	repo      *reportMock.MockRepository
	service   report.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	rdb, redisMock := redismock.NewClientMock()
	repo := reportMock.NewMockRepository(ctrl)
	return &serviceDeps{
		redisMock: redisMock,
		repo:      repo,
		service:   report.NewService(repo, rdb, ttl),
	}
}

// expectSnapshot feeds a small fixed data set: 4 requests (2 approved, 1
// pending, 1 rejected) across two leave types.
func (d *serviceDeps) expectSnapshot() (submitted, decided time.Time) {
	submitted = time.Now().UTC().Add(-2 * time.Hour)
	decided = submitted.Add(time.Hour)

	ana := &employee.Employee{EmpID: "E1", Name: "Ana"}
	annual := &leavetype.LeaveType{Code: "ANNUAL", Name: "Annual Leave"}
	lr := leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: "E1", LeaveTypeCode: "ANNUAL", Days: 3,
		Status: leave.StatusApproved, CreatedAt: submitted, Employee: ana, LeaveType: annual,
	}

	d.repo.EXPECT().Totals(gomock.Any()).Return(report.Totals{Employees: 3, Managers: 1}, nil)
	d.repo.EXPECT().StatusCounts(gomock.Any()).Return([]report.StatusCount{
		{Status: leave.StatusApproved, Count: 2, Days: 8},
		{Status: leave.StatusPending, Count: 1, Days: 2},
		{Status: leave.StatusRejected, Count: 1, Days: 1},
	}, nil)
	d.repo.EXPECT().TypeUsage(gomock.Any()).Return([]report.TypeUsage{
		{Code: "ANNUAL", Name: "Annual Leave", RequestCount: 3, TotalDays: 10},
		{Code: "SICK", Name: "Sick Leave", RequestCount: 1, TotalDays: 1},
	}, nil)
	d.repo.EXPECT().EmployeeBalances(gomock.Any()).Return([]report.BalanceRow{
		{EmpID: "E1", Name: "Ana", LeaveBalance: 2, RequestCount: 3},
		{EmpID: "E2", Name: "Bo", LeaveBalance: 7, RequestCount: 1},
		{EmpID: "E3", Name: "", LeaveBalance: 20},
	}, nil)
	d.repo.EXPECT().ManagerActivity(gomock.Any()).Return([]report.ManagerActivity{
		{ManagerName: "Mia", TotalProcessed: 3, Approved: 2, Rejected: 1, Pending: 1},
	}, nil)
	d.repo.EXPECT().ApprovedSince(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	d.repo.EXPECT().RequestStamps(gomock.Any(), gomock.Any()).Return([]report.RequestStamp{
		{Status: leave.StatusApproved, CreatedAt: submitted},
		{Status: leave.StatusPending, CreatedAt: submitted},
	}, nil)
	d.repo.EXPECT().RecentRequests(gomock.Any(), 50).Return([]leave.LeaveRequest{lr}, nil)
	d.repo.EXPECT().RecentApprovals(gomock.Any(), 50).Return([]approval.Approval{{
		ID: uuid.New(), RequestID: lr.ID, ManagerName: "Mia", Decision: leave.StatusApproved,
		CreatedAt: decided, LeaveRequest: &lr,
	}}, nil)
	return submitted, decided
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(0), report.Percent(3, 0))
	assert.Equal(t, int64(33), report.Percent(1, 3))
	assert.Equal(t, int64(67), report.Percent(2, 3))
	assert.Equal(t, int64(50), report.Percent(1, 2))
	assert.Equal(t, int64(13), report.Percent(1, 8))
}

func TestBalanceState(t *testing.T) {
	assert.Equal(t, "Error", report.BalanceState(4))
	assert.Equal(t, "Warning", report.BalanceState(5))
	assert.Equal(t, "Warning", report.BalanceState(9))
	assert.Equal(t, "Success", report.BalanceState(10))
}

func TestReportService_Overview(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss builds and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		submitted, _ := deps.expectSnapshot()

		deps.redisMock.ExpectGet(report.OverviewKey).RedisNil()
		deps.redisMock.Regexp().ExpectSet(report.OverviewKey, ".*", ttl).SetVal("OK")

		ov, err := deps.service.Overview(ctx)
		require.NoError(t, err)

		m := ov.Dashboard.Metrics
		assert.Equal(t, int64(3), m.TotalEmployees)
		assert.Equal(t, int64(4), m.TotalRequests)
		assert.Equal(t, int64(1), m.PendingRequests)
		assert.Equal(t, int64(1), m.ApprovedToday)
		assert.Equal(t, int64(50), m.ApprovalRate)
		assert.Len(t, ov.Dashboard.RecentRequests, 1)

		assert.Equal(t, []report.StatusSummaryItem{
			{Status: "Approved", Count: 2, Percentage: 50, State: "Success"},
			{Status: "Pending", Count: 1, Percentage: 25, State: "Warning"},
			{Status: "Rejected", Count: 1, Percentage: 25, State: "Error"},
		}, ov.StatusSummary)

		assert.Equal(t, int64(75), ov.LeaveTypeUtilization[0].Percentage)
		assert.Equal(t, "Error", ov.EmployeeBalances[0].BalanceState)
		assert.Equal(t, "Warning", ov.EmployeeBalances[1].BalanceState)
		assert.Equal(t, "Unknown", ov.EmployeeBalances[2].Name)
		assert.Equal(t, int64(67), ov.ManagerSummary[0].ApprovalRate)

		require.Len(t, ov.MonthlyTrend, 6)
		var bucket report.MonthlyTrend
		for _, m := range ov.MonthlyTrend {
			if m.Month == submitted.Format("2006-01") {
				bucket = m
			}
		}
		assert.Equal(t, int64(2), bucket.TotalRequests)
		assert.Equal(t, int64(1), bucket.Pending)
		assert.Equal(t, int64(50), bucket.ApprovalRate)

		require.Len(t, ov.AuditTrail, 2)
		assert.Equal(t, "Request Approved", ov.AuditTrail[0].Action)
		assert.Equal(t, "Mia", ov.AuditTrail[0].ProcessedBy)
		assert.Equal(t, "Request Submitted", ov.AuditTrail[1].Action)
		assert.Equal(t, "Ana", ov.AuditTrail[1].EmployeeName)

		assert.Equal(t, report.Summary{
			TotalDaysTaken:    8,
			AvgLeaveBalance:   10,
			LowBalanceCount:   1,
			MostUsedLeaveType: "Annual Leave",
		}, ov.Summary)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redisMock.ExpectGet(report.OverviewKey).SetVal(`{"summary":{"mostUsedLeaveType":"Sick Leave"}}`)

		ov, err := deps.service.Overview(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "Sick Leave", ov.Summary.MostUsedLeaveType)
	})

	t.Run("repository failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redisMock.ExpectGet(report.OverviewKey).RedisNil()

		boom := errors.New("db down")
		deps.repo.EXPECT().Totals(gomock.Any()).Return(report.Totals{}, boom).AnyTimes()
		deps.repo.EXPECT().StatusCounts(gomock.Any()).Return(nil, nil).AnyTimes()
		deps.repo.EXPECT().TypeUsage(gomock.Any()).Return(nil, nil).AnyTimes()
		deps.repo.EXPECT().EmployeeBalances(gomock.Any()).Return(nil, nil).AnyTimes()
		deps.repo.EXPECT().ManagerActivity(gomock.Any()).Return(nil, nil).AnyTimes()
		deps.repo.EXPECT().ApprovedSince(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
		deps.repo.EXPECT().RequestStamps(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		deps.repo.EXPECT().RecentRequests(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		deps.repo.EXPECT().RecentApprovals(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := deps.service.Overview(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestReportService_Invalidate(t *testing.T) {
	deps := setupServiceTest(t)
	deps.redisMock.ExpectDel(report.OverviewKey).SetVal(1)

	assert.NoError(t, deps.service.Invalidate(context.Background()))
	assert.NoError(t, deps.redisMock.ExpectationsWereMet())
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown report", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Export(ctx, "timesheet")
		assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
	})

	t.Run("manager summary csv", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redisMock.ExpectGet(report.OverviewKey).SetVal(
			`{"managerSummary":[{"managerName":"Mia, Jr.","totalProcessed":3,"approved":2,"rejected":1,"pending":0,"approvalRate":67}]}`)

		exp, err := deps.service.Export(ctx, report.ExportManagers)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(exp.Filename, "Manager_Approval_Summary_Report_"))
		assert.True(t, strings.HasSuffix(exp.Filename, ".csv"))

		records, err := csv.NewReader(strings.NewReader(string(exp.Data))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"Manager Name", "Total Processed", "Approved", "Rejected", "Pending", "Approval Rate"},
			{"Mia, Jr.", "3", "2", "1", "0", "67%"},
		}, records)
	})
}
