package leave

import (
	"context"
	"database/sql"

	"go-leave/internal/employee"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	UpdateIfPending(ctx context.Context, lr *LeaveRequest) (int64, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (int64, error)
	DeleteIfPending(ctx context.Context, id uuid.UUID) (int64, error)
	FindEmployee(ctx context.Context, empID string) (*employee.Employee, error)
	FindLeaveType(ctx context.Context, code string) (*leavetype.LeaveType, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.conn(ctx).Omit(clause.Associations).Create(lr).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	db := r.conn(ctx).Model(&LeaveRequest{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.LeaveTypeCode != "" {
		db = db.Where("leave_type_code = ?", filter.LeaveTypeCode)
	}
	if filter.ExpandEmployee {
		db = db.Preload("Employee")
	}
	if filter.ExpandLeaveType {
		db = db.Preload("LeaveType")
	}

	var requests []LeaveRequest
	err := db.Order("start_date DESC").Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.conn(ctx).
		Preload("Employee").
		Preload("LeaveType").
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

// UpdateIfPending rewrites the editable columns only while the row is still
// Pending. Zero rows affected means it was decided concurrently.
func (r *repository) UpdateIfPending(ctx context.Context, lr *LeaveRequest) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", lr.ID, StatusPending).
		Updates(map[string]any{
			"employee_id":     lr.EmployeeID,
			"leave_type_code": lr.LeaveTypeCode,
			"start_date":      lr.StartDate,
			"end_date":        lr.EndDate,
			"days":            lr.Days,
			"reason":          lr.Reason,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatusIfPending is the compare-and-set that lets a request leave
// Pending at most once.
func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.conn(ctx).
		Where("status = ?", StatusPending).
		Delete(&LeaveRequest{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) FindEmployee(ctx context.Context, empID string) (*employee.Employee, error) {
	var emp employee.Employee
	if err := r.conn(ctx).First(&emp, "emp_id = ?", empID).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindLeaveType(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	var lt leavetype.LeaveType
	if err := r.conn(ctx).First(&lt, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}
