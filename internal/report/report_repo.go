package report

import (
	"context"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/manager"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	Totals(ctx context.Context) (Totals, error)
	StatusCounts(ctx context.Context) ([]StatusCount, error)
	TypeUsage(ctx context.Context) ([]TypeUsage, error)
	EmployeeBalances(ctx context.Context) ([]BalanceRow, error)
	ManagerActivity(ctx context.Context) ([]ManagerActivity, error)
	ApprovedSince(ctx context.Context, since time.Time) (int64, error)
	RecentRequests(ctx context.Context, limit int) ([]leave.LeaveRequest, error)
	RecentApprovals(ctx context.Context, limit int) ([]approval.Approval, error)
	RequestStamps(ctx context.Context, since time.Time) ([]RequestStamp, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	db := r.db.WithContext(ctx)
	if err := db.Model(&employee.Employee{}).Count(&t.Employees).Error; err != nil {
		return Totals{}, err
	}
	if err := db.Model(&manager.Manager{}).Count(&t.Managers).Error; err != nil {
		return Totals{}, err
	}
	return t, nil
}

func (r *repository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(days), 0) AS days").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TypeUsage(ctx context.Context) ([]TypeUsage, error) {
	var rows []TypeUsage
	query := `
SELECT
	leave_requests.leave_type_code AS code,
	COALESCE(leave_types.name, 'Unknown') AS name,
	COUNT(*) AS request_count,
	COALESCE(SUM(leave_requests.days), 0) AS total_days
FROM leave_requests
LEFT JOIN leave_types ON leave_types.code = leave_requests.leave_type_code
GROUP BY leave_requests.leave_type_code, leave_types.name
ORDER BY request_count DESC, code ASC
`
	err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error
	return rows, err
}

func (r *repository) EmployeeBalances(ctx context.Context) ([]BalanceRow, error) {
	var rows []BalanceRow
	query := `
SELECT
	employees.emp_id,
	employees.name,
	employees.leave_balance,
	COUNT(leave_requests.id) AS request_count
FROM employees
LEFT JOIN leave_requests ON leave_requests.employee_id = employees.emp_id
GROUP BY employees.emp_id, employees.name, employees.leave_balance
ORDER BY employees.leave_balance ASC, employees.emp_id ASC
`
	err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error
	return rows, err
}

// ManagerActivity counts decisions by manager key and the Pending requests
// of each manager's team.
func (r *repository) ManagerActivity(ctx context.Context) ([]ManagerActivity, error) {
	var rows []ManagerActivity
	query := `
SELECT
	managers.name AS manager_name,
	(SELECT COUNT(*) FROM approvals WHERE approvals.manager_id = managers.id) AS total_processed,
	(SELECT COUNT(*) FROM approvals WHERE approvals.manager_id = managers.id AND approvals.decision = ?) AS approved,
	(SELECT COUNT(*) FROM approvals WHERE approvals.manager_id = managers.id AND approvals.decision = ?) AS rejected,
	(SELECT COUNT(*) FROM leave_requests
		JOIN employees ON employees.emp_id = leave_requests.employee_id
		WHERE employees.manager_id = managers.id AND leave_requests.status = ?) AS pending
FROM managers
ORDER BY total_processed DESC, managers.name ASC
`
	err := r.db.WithContext(ctx).
		Raw(query, leave.StatusApproved, leave.StatusRejected, leave.StatusPending).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ApprovedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&approval.Approval{}).
		Where("decision = ? AND created_at >= ?", leave.StatusApproved, since).
		Count(&n).Error
	return n, err
}

func (r *repository) RecentRequests(ctx context.Context, limit int) ([]leave.LeaveRequest, error) {
	var requests []leave.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("LeaveType").
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *repository) RecentApprovals(ctx context.Context, limit int) ([]approval.Approval, error) {
	var approvals []approval.Approval
	err := r.db.WithContext(ctx).
		Preload("LeaveRequest.Employee").
		Preload("LeaveRequest.LeaveType").
		Order("created_at DESC").
		Limit(limit).
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) RequestStamps(ctx context.Context, since time.Time) ([]RequestStamp, error) {
	var rows []RequestStamp
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Select("status, created_at").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	return rows, err
}
