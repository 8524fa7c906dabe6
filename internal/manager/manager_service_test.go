package manager_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leave/internal/manager"
	managererrors "go-leave/internal/manager/errors"
	managerMock "go-leave/internal/manager/mock"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service manager.Service
	repo    *managerMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	repo := managerMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: manager.NewService(db, repo),
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestManagerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success lower-cases email", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmail(ctx, "ana@corp.io").Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, m *manager.Manager) error {
			assert.NotEqual(t, uuid.Nil, m.ID)
			assert.Equal(t, "Ana Lima", m.Name)
			assert.Equal(t, "ana@corp.io", m.Email)
			return nil
		})

		resp, err := deps.service.Create(ctx, manager.CreateManagerRequest{Name: " Ana Lima ", Email: "Ana@Corp.IO"})

		assert.NoError(t, err)
		assert.Equal(t, "ana@corp.io", resp.Email)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid email never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, manager.CreateManagerRequest{Name: "Ana", Email: "not-an-email"})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmail(ctx, "ana@corp.io").Return(&manager.Manager{ID: uuid.New()}, nil)

		_, err := deps.service.Create(ctx, manager.CreateManagerRequest{Name: "Ana", Email: "ana@corp.io"})

		assert.ErrorIs(t, err, managererrors.ErrManagerEmailExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestManagerService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("keeping own email is allowed", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		existing := &manager.Manager{ID: id, Name: "Ana", Email: "ana@corp.io"}
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(existing, nil)
		deps.repo.EXPECT().FindByEmail(ctx, "ana@corp.io").Return(existing, nil)
		deps.repo.EXPECT().Update(ctx, existing).Return(nil)

		resp, err := deps.service.Update(ctx, id.String(), manager.UpdateManagerRequest{Name: "Ana Maria", Email: "ana@corp.io"})

		assert.NoError(t, err)
		assert.Equal(t, "Ana Maria", resp.Name)
	})

	t.Run("email owned by someone else", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(&manager.Manager{ID: id}, nil)
		deps.repo.EXPECT().FindByEmail(ctx, "bo@corp.io").Return(&manager.Manager{ID: uuid.New()}, nil)

		_, err := deps.service.Update(ctx, id.String(), manager.UpdateManagerRequest{Name: "Ana", Email: "bo@corp.io"})

		assert.ErrorIs(t, err, managererrors.ErrManagerEmailExists)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id.String(), manager.UpdateManagerRequest{Name: "Ana", Email: "ana@corp.io"})

		assert.ErrorIs(t, err, managererrors.ErrManagerNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, "abc", manager.UpdateManagerRequest{Name: "Ana", Email: "ana@corp.io"})

		assert.ErrorIs(t, err, managererrors.ErrInvalidManagerID)
	})
}

func TestManagerService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("blocked while employees are assigned", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountEmployees(ctx, id).Return(int64(3), nil)

		err := deps.service.Delete(ctx, id.String())

		assert.ErrorIs(t, err, managererrors.ErrManagerHasEmployees)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountEmployees(ctx, id).Return(int64(0), nil)
		deps.repo.EXPECT().Delete(ctx, id).Return(nil)

		assert.NoError(t, deps.service.Delete(ctx, id.String()))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestManagerService_GetTeam(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	id := uuid.New()

	deps.repo.EXPECT().FindByID(ctx, id).Return(&manager.Manager{ID: id, Name: "Ana"}, nil)
	deps.repo.EXPECT().FindTeam(ctx, id).Return([]manager.TeamMember{
		{EmpID: "EMP-000001", Name: "Bo", LeaveBalance: 12},
	}, nil)

	resp, err := deps.service.GetTeam(ctx, id.String())

	assert.NoError(t, err)
	assert.Equal(t, "Ana", resp.Manager.Name)
	assert.Len(t, resp.Members, 1)
	assert.Equal(t, 12, resp.Members[0].LeaveBalance)
}
