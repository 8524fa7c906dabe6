package manager

import (
	"context"
	"database/sql"
	"strings"

	"go-leave/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=manager_repo.go -destination=mock/manager_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *Manager) error
	FindAll(ctx context.Context, q string) ([]Manager, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Manager, error)
	FindByName(ctx context.Context, name string) (*Manager, error)
	FindByEmail(ctx context.Context, email string) (*Manager, error)
	Update(ctx context.Context, m *Manager) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountEmployees(ctx context.Context, id uuid.UUID) (int64, error)
	FindTeam(ctx context.Context, id uuid.UUID) ([]TeamMember, error)
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

func (r *repository) Create(ctx context.Context, m *Manager) error {
	return r.conn(ctx).Create(m).Error
}

// FindAll matches q case-insensitively against name and email.
func (r *repository) FindAll(ctx context.Context, q string) ([]Manager, error) {
	db := r.conn(ctx).Model(&Manager{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var managers []Manager
	err := db.Order("name ASC").Find(&managers).Error
	return managers, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Manager, error) {
	var m Manager
	if err := r.conn(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByName is an exact match; approvals reference managers by name.
func (r *repository) FindByName(ctx context.Context, name string) (*Manager, error) {
	var m Manager
	if err := r.conn(ctx).Where("name = ?", name).Order("created_at ASC").First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Manager, error) {
	var m Manager
	if err := r.conn(ctx).First(&m, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Update(ctx context.Context, m *Manager) error {
	return r.conn(ctx).Save(m).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Delete(&Manager{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountEmployees(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("manager_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *repository) FindTeam(ctx context.Context, id uuid.UUID) ([]TeamMember, error) {
	var members []TeamMember
	err := r.conn(ctx).
		Table("employees").
		Select("emp_id, name, email, leave_balance").
		Where("manager_id = ?", id).
		Order("name ASC").
		Scan(&members).Error
	return members, err
}
