package employee

import (
	"context"
	"database/sql"
	"strings"

	"go-leave/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const statusPending = "Pending"

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAll(ctx context.Context, filter ListFilter) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	FindByEmpID(ctx context.Context, empID string) (*Employee, error)
	UpdateProfile(ctx context.Context, emp *Employee) error
	UpdateBalance(ctx context.Context, empID string, balance int) error
	DecrementBalance(ctx context.Context, empID string, days int) error
	Delete(ctx context.Context, empID string) error
	ManagerExists(ctx context.Context, managerID uuid.UUID) (bool, error)
	CountPendingRequests(ctx context.Context, empID string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.conn(ctx).Create(emp).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Employee, error) {
	db := r.conn(ctx).Model(&Employee{})
	if q := strings.TrimSpace(filter.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(emp_id) LIKE ?", like, like, like)
	}
	if filter.ManagerID != "" {
		db = db.Where("manager_id = ?", filter.ManagerID)
	}

	var emps []Employee
	err := db.Order("emp_id ASC").Find(&emps).Error
	return emps, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	err := r.conn(ctx).
		Select("emp_id", "name").
		Order("name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByEmpID(ctx context.Context, empID string) (*Employee, error) {
	var emp Employee
	if err := r.conn(ctx).First(&emp, "emp_id = ?", empID).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// UpdateProfile writes the profile columns only. leave_balance belongs to
// UpdateBalance and DecrementBalance so a concurrent approval is never undone.
func (r *repository) UpdateProfile(ctx context.Context, emp *Employee) error {
	var managerID any
	if emp.ManagerID != nil {
		managerID = *emp.ManagerID
	}

	res := r.conn(ctx).
		Model(&Employee{}).
		Where("emp_id = ?", emp.EmpID).
		Updates(map[string]any{
			"name":       emp.Name,
			"email":      emp.Email,
			"manager_id": managerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateBalance(ctx context.Context, empID string, balance int) error {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("emp_id = ?", empID).
		Update("leave_balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementBalance subtracts days relative to the stored value so concurrent
// approvals for the same employee both land.
func (r *repository) DecrementBalance(ctx context.Context, empID string, days int) error {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("emp_id = ?", empID).
		Update("leave_balance", gorm.Expr("leave_balance - ?", days))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, empID string) error {
	res := r.conn(ctx).Delete(&Employee{}, "emp_id = ?", empID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ManagerExists(ctx context.Context, managerID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("managers").
		Where("id = ?", managerID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountPendingRequests(ctx context.Context, empID string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("leave_requests").
		Where("employee_id = ? AND status = ?", empID, statusPending).
		Count(&count).Error
	return count, err
}
