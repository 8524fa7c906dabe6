package leavetype_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/leavetype"
	"go-leave/internal/shared/database/dbtest"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestLeaveTypeRepository(t *testing.T) {
	ctx := context.Background()
	db, sqlDB := dbtest.Open(t, &leavetype.LeaveType{})
	assert.NoError(t, db.Exec(`CREATE TABLE leave_requests (id TEXT PRIMARY KEY, leave_type_code TEXT)`).Error)
	repo := leavetype.NewRepository(db)

	assert.NoError(t, repo.Create(ctx, &leavetype.LeaveType{Code: "SICK", Name: "Sick", MaxDays: 10}))
	assert.NoError(t, repo.Create(ctx, &leavetype.LeaveType{Code: "ANNUAL", Name: "Annual", MaxDays: 15}))

	err := repo.Create(ctx, &leavetype.LeaveType{Code: "SICK", Name: "Dup", MaxDays: 1})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	all, err := repo.FindAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ANNUAL", "SICK"}, []string{all[0].Code, all[1].Code})

	tx, err := sqlDB.BeginTx(ctx, nil)
	assert.NoError(t, err)
	qtx := repo.WithTx(tx)
	lt, err := qtx.FindByCode(ctx, "ANNUAL")
	assert.NoError(t, err)
	lt.MaxDays = 20
	assert.NoError(t, qtx.Update(ctx, lt))
	assert.NoError(t, tx.Rollback())

	lt, err = repo.FindByCode(ctx, "ANNUAL")
	assert.NoError(t, err)
	assert.Equal(t, 15, lt.MaxDays, "rolled back update is not visible")

	assert.NoError(t, db.Exec(`INSERT INTO leave_requests (id, leave_type_code) VALUES ('r1', 'SICK')`).Error)
	n, err := repo.CountRequests(ctx, "SICK")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.NoError(t, repo.Delete(ctx, "ANNUAL"))
	assert.ErrorIs(t, repo.Delete(ctx, "ANNUAL"), gorm.ErrRecordNotFound)
	_, err = repo.FindByCode(ctx, "ANNUAL")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
