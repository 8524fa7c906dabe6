package approval

import (
	"context"
	"database/sql"
	"strings"

	"go-leave/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Approval) error
	FindAll(ctx context.Context, filter ListFilter) ([]Approval, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Approval, error)
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

func (r *repository) Create(ctx context.Context, a *Approval) error {
	return r.conn(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Approval, error) {
	db := r.conn(ctx).Model(&Approval{})
	if filter.RequestID != "" {
		db = db.Where("request_id = ?", filter.RequestID)
	}
	if filter.Decision != "" {
		db = db.Where("decision = ?", filter.Decision)
	}
	if filter.ManagerName != "" {
		db = db.Where("LOWER(manager_name) LIKE ?", "%"+strings.ToLower(filter.ManagerName)+"%")
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ExpandRequest {
		db = db.Preload("LeaveRequest")
	}

	var approvals []Approval
	err := db.Order("created_at DESC").Find(&approvals).Error
	return approvals, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Approval, error) {
	var a Approval
	if err := r.conn(ctx).Preload("LeaveRequest").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
