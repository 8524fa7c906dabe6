package counter

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/database"

	"gorm.io/gorm"
)

const TypeEmployeeNumber = "employee_number"

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	NextValue(ctx context.Context, counterType string) (int64, error)
}

type Counter struct {
	CounterType string `gorm:"primaryKey;type:varchar(40)"`
	LastValue   int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string { return "counters" }

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

// NextValue atomically increments and returns the counter, creating it on
// first use. The upsert keeps concurrent callers from handing out the same
// value.
func (r *repository) NextValue(ctx context.Context, counterType string) (int64, error) {
	var nextValue int64

	err := database.Conn(ctx, r.db, r.tx).Raw(`
		INSERT INTO counters (counter_type, last_value)
		VALUES (?, 1)
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = counters.last_value + 1
		RETURNING last_value
	`, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
