package report

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	OverviewKey = "reports:overview"

	recentLimit     = 5
	auditLimit      = 50
	trendMonths     = 6
	lowBalanceLimit = 5
	warnBalance     = 10
	unknown         = "Unknown"
	dateLayout      = "2006-01-02"
	monthLayout     = "2006-01"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Overview(ctx context.Context) (Overview, error)
	Export(ctx context.Context, name string) (Export, error)
	Invalidate(ctx context.Context) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, rdb: rdb, ttl: ttl, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Overview(ctx context.Context) (Overview, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OverviewKey).Result(); err == nil {
			var ov Overview
			if json.Unmarshal([]byte(cached), &ov) == nil {
				return ov, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OverviewKey, func() (interface{}, error) {
		ov, err := s.build(ctx, time.Now().UTC())
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(ov); err == nil {
				if err := s.rdb.Set(ctx, OverviewKey, jsonData, s.ttl).Err(); err != nil {
					s.logger.Warn("cache report overview failed", zap.Error(err))
				}
			}
		}
		return ov, nil
	})
	if err != nil {
		s.logger.Error("build report overview failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return Overview{}, err
	}
	return v.(Overview), nil
}

func (s *service) Invalidate(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, OverviewKey).Err()
}

// build reads every aggregate concurrently and assembles the reports.
func (s *service) build(ctx context.Context, now time.Time) (Overview, error) {
	var (
		totals     Totals
		statuses   []StatusCount
		usage      []TypeUsage
		balances   []BalanceRow
		activity   []ManagerActivity
		approvedTd int64
		recent     []leave.LeaveRequest
		stamps     []RequestStamp
		trail      []AuditEntry
	)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	trendStart := time.Date(now.Year(), now.Month()-trendMonths+1, 1, 0, 0, 0, 0, time.UTC)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { totals, err = s.repo.Totals(gctx); return })
	g.Go(func() (err error) { statuses, err = s.repo.StatusCounts(gctx); return })
	g.Go(func() (err error) { usage, err = s.repo.TypeUsage(gctx); return })
	g.Go(func() (err error) { balances, err = s.repo.EmployeeBalances(gctx); return })
	g.Go(func() (err error) { activity, err = s.repo.ManagerActivity(gctx); return })
	g.Go(func() (err error) { approvedTd, err = s.repo.ApprovedSince(gctx, today); return })
	g.Go(func() (err error) { stamps, err = s.repo.RequestStamps(gctx, trendStart); return })
	g.Go(func() error {
		requests, err := s.repo.RecentRequests(gctx, auditLimit)
		if err != nil {
			return err
		}
		approvals, err := s.repo.RecentApprovals(gctx, auditLimit)
		if err != nil {
			return err
		}
		if len(requests) > recentLimit {
			recent = requests[:recentLimit]
		} else {
			recent = requests
		}
		trail = buildAuditTrail(requests, approvals)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	byStatus := map[string]StatusCount{}
	var total int64
	for _, sc := range statuses {
		byStatus[sc.Status] = sc
		total += sc.Count
	}

	ov := Overview{
		Dashboard: Dashboard{
			Metrics: Metrics{
				TotalEmployees:  totals.Employees,
				TotalManagers:   totals.Managers,
				TotalRequests:   total,
				PendingRequests: byStatus[leave.StatusPending].Count,
				ApprovedToday:   approvedTd,
				ApprovalRate:    Percent(byStatus[leave.StatusApproved].Count, total),
			},
			RecentRequests: mapRecent(recent),
		},
		StatusSummary:        buildStatusSummary(byStatus, total),
		LeaveTypeUtilization: buildUtilization(usage, total),
		EmployeeBalances:     buildBalances(balances),
		ManagerSummary:       buildManagerSummary(activity),
		MonthlyTrend:         buildTrend(stamps, trendStart),
		AuditTrail:           trail,
		GeneratedAt:          now.Format(time.RFC3339),
	}
	ov.Summary = buildSummary(byStatus[leave.StatusApproved].Days, balances, usage)
	return ov, nil
}

// Percent is part/total*100 rounded half away from zero. A zero total
// yields 0.
func Percent(part, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart()
}

// BalanceState grades a remaining balance the way the balance report colours
// it.
func BalanceState(balance int) string {
	switch {
	case balance < lowBalanceLimit:
		return "Error"
	case balance < warnBalance:
		return "Warning"
	default:
		return "Success"
	}
}

func statusState(status string) string {
	switch status {
	case leave.StatusApproved:
		return "Success"
	case leave.StatusRejected:
		return "Error"
	default:
		return "Warning"
	}
}

func buildStatusSummary(byStatus map[string]StatusCount, total int64) []StatusSummaryItem {
	order := []string{leave.StatusApproved, leave.StatusPending, leave.StatusRejected}
	out := make([]StatusSummaryItem, len(order))
	for i, status := range order {
		n := byStatus[status].Count
		out[i] = StatusSummaryItem{
			Status:     status,
			Count:      n,
			Percentage: Percent(n, total),
			State:      statusState(status),
		}
	}
	return out
}

func buildUtilization(usage []TypeUsage, total int64) []TypeUtilization {
	out := make([]TypeUtilization, len(usage))
	for i, u := range usage {
		out[i] = TypeUtilization{
			LeaveTypeCode: u.Code,
			LeaveTypeName: u.Name,
			RequestCount:  u.RequestCount,
			TotalDays:     u.TotalDays,
			Percentage:    Percent(u.RequestCount, total),
		}
	}
	return out
}

func buildBalances(rows []BalanceRow) []EmployeeBalance {
	out := make([]EmployeeBalance, len(rows))
	for i, r := range rows {
		name := r.Name
		if name == "" {
			name = unknown
		}
		out[i] = EmployeeBalance{
			EmpID:        r.EmpID,
			Name:         name,
			LeaveBalance: r.LeaveBalance,
			RequestCount: r.RequestCount,
			BalanceState: BalanceState(r.LeaveBalance),
		}
	}
	return out
}

func buildManagerSummary(rows []ManagerActivity) []ManagerSummary {
	out := make([]ManagerSummary, len(rows))
	for i, r := range rows {
		out[i] = ManagerSummary{
			ManagerName:    r.ManagerName,
			TotalProcessed: r.TotalProcessed,
			Approved:       r.Approved,
			Rejected:       r.Rejected,
			Pending:        r.Pending,
			ApprovalRate:   Percent(r.Approved, r.TotalProcessed),
		}
	}
	return out
}

// buildTrend buckets requests by creation month, oldest first, always
// returning trendMonths buckets.
func buildTrend(stamps []RequestStamp, start time.Time) []MonthlyTrend {
	out := make([]MonthlyTrend, trendMonths)
	index := make(map[string]int, trendMonths)
	for i := range out {
		month := start.AddDate(0, i, 0).Format(monthLayout)
		out[i].Month = month
		index[month] = i
	}

	for _, st := range stamps {
		i, ok := index[st.CreatedAt.UTC().Format(monthLayout)]
		if !ok {
			continue
		}
		out[i].TotalRequests++
		switch st.Status {
		case leave.StatusApproved:
			out[i].Approved++
		case leave.StatusRejected:
			out[i].Rejected++
		case leave.StatusPending:
			out[i].Pending++
		}
	}
	for i := range out {
		out[i].ApprovalRate = Percent(out[i].Approved, out[i].TotalRequests)
	}
	return out
}

type auditRow struct {
	at    time.Time
	entry AuditEntry
}

// buildAuditTrail merges submissions and decisions, newest first.
func buildAuditTrail(requests []leave.LeaveRequest, approvals []approval.Approval) []AuditEntry {
	rows := make([]auditRow, 0, len(requests)+len(approvals))
	for _, lr := range requests {
		rows = append(rows, auditRow{at: lr.CreatedAt, entry: AuditEntry{
			Timestamp:    lr.CreatedAt.UTC().Format(time.RFC3339),
			EmployeeName: employeeName(lr.Employee),
			LeaveType:    leaveTypeName(lr.LeaveType),
			Days:         lr.Days,
			Action:       "Request Submitted",
			ProcessedBy:  "Employee",
			Status:       lr.Status,
			StatusState:  statusState(lr.Status),
		}})
	}
	for _, a := range approvals {
		entry := AuditEntry{
			Timestamp:    a.CreatedAt.UTC().Format(time.RFC3339),
			EmployeeName: unknown,
			LeaveType:    unknown,
			Action:       "Request Rejected",
			ProcessedBy:  a.ManagerName,
			Status:       a.Decision,
			StatusState:  statusState(a.Decision),
		}
		if a.Decision == leave.StatusApproved {
			entry.Action = "Request Approved"
		}
		if lr := a.LeaveRequest; lr != nil {
			entry.EmployeeName = employeeName(lr.Employee)
			entry.LeaveType = leaveTypeName(lr.LeaveType)
			entry.Days = lr.Days
		}
		rows = append(rows, auditRow{at: a.CreatedAt, entry: entry})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.After(rows[j].at) })
	if len(rows) > auditLimit {
		rows = rows[:auditLimit]
	}

	out := make([]AuditEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry
	}
	return out
}

func buildSummary(approvedDays int64, balances []BalanceRow, usage []TypeUsage) Summary {
	sum := Summary{TotalDaysTaken: approvedDays, MostUsedLeaveType: "N/A"}

	var totalBalance int64
	for _, b := range balances {
		totalBalance += int64(b.LeaveBalance)
		if b.LeaveBalance < lowBalanceLimit {
			sum.LowBalanceCount++
		}
	}
	if len(balances) > 0 {
		sum.AvgLeaveBalance = decimal.NewFromInt(totalBalance).
			Div(decimal.NewFromInt(int64(len(balances)))).
			Round(0).
			IntPart()
	}

	// usage is ordered by request count, highest first.
	if len(usage) > 0 {
		sum.MostUsedLeaveType = usage[0].Name
		if sum.MostUsedLeaveType == unknown {
			sum.MostUsedLeaveType = usage[0].Code
		}
	}
	return sum
}

func mapRecent(requests []leave.LeaveRequest) []RecentRequest {
	out := make([]RecentRequest, len(requests))
	for i, lr := range requests {
		out[i] = RecentRequest{
			ID:            lr.ID.String(),
			EmployeeID:    lr.EmployeeID,
			EmployeeName:  employeeName(lr.Employee),
			LeaveTypeName: leaveTypeName(lr.LeaveType),
			StartDate:     lr.StartDate.Format(dateLayout),
			EndDate:       lr.EndDate.Format(dateLayout),
			Days:          lr.Days,
			Status:        lr.Status,
		}
	}
	return out
}

func employeeName(emp *employee.Employee) string {
	if emp == nil || emp.Name == "" {
		return unknown
	}
	return emp.Name
}

func leaveTypeName(lt *leavetype.LeaveType) string {
	if lt == nil || lt.Name == "" {
		return unknown
	}
	return lt.Name
}
