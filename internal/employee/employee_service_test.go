package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	employeeMock "go-leave/internal/employee/mock"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/counter"
	counterMock "go-leave/internal/shared/counter/mock"
	"go-leave/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	service   employee.Service
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	rdb, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		service:   employee.NewService(db, repo, counterRepo, rdb),
		repo:      repo,
		counter:   counterRepo,
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

func intPtr(v int) *int { return &v }

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with default balance and generated empId", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter)
		deps.counter.EXPECT().NextValue(ctx, counter.TypeEmployeeNumber).Return(int64(42), nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, "EMP-000042", e.EmpID)
			assert.Equal(t, "bo@corp.io", e.Email)
			assert.Equal(t, employee.DefaultLeaveBalance, e.LeaveBalance)
			assert.Nil(t, e.ManagerID)
			return nil
		})
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{Name: "Bo", Email: " BO@corp.io "})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000042", resp.EmpID)
		assert.Equal(t, 20, resp.LeaveBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit empId and manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		managerID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().ManagerExists(ctx, managerID).Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, managerID, *e.ManagerID)
			assert.Equal(t, 0, e.LeaveBalance)
			return nil
		})
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			EmpID:        "E1",
			Name:         "Ana",
			Email:        "ana@corp.io",
			LeaveBalance: intPtr(0),
			ManagerID:    managerID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, managerID.String(), resp.ManagerID)
	})

	t.Run("duplicate empId", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(&employee.Employee{EmpID: "E1"}, nil)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{EmpID: "E1", Name: "Ana", Email: "ana@corp.io"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})

	t.Run("unknown manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		managerID := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().ManagerExists(ctx, managerID).Return(false, nil)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			EmpID: "E1", Name: "Ana", Email: "ana@corp.io", ManagerID: managerID.String(),
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
		assert.Equal(t, "Manager "+managerID.String()+" not found", appErr.Message)
	})

	t.Run("validation rejects before any store call", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cases := []employee.CreateEmployeeRequest{
			{EmpID: "TOO-LONG-ID-1", Name: "Ana", Email: "ana@corp.io"},
			{Name: "", Email: "ana@corp.io"},
			{Name: "Ana", Email: "nope"},
			{Name: "Ana", Email: "ana@corp.io", LeaveBalance: intPtr(-1)},
			{Name: "Ana", Email: "ana@corp.io", ManagerID: "not-a-uuid"},
		}
		for _, req := range cases {
			_, err := deps.service.Create(ctx, req)
			var appErr *apperror.AppError
			assert.True(t, errors.As(err, &appErr), "%+v", req)
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached, _ := json.Marshal([]employee.EmployeeOptionResponse{{EmpID: "E1", Name: "Ana"}})
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(cached))

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "Ana", resp[0].Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		payload, _ := json.Marshal([]employee.EmployeeOptionResponse{{EmpID: "E1", Name: "Ana"}})
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.EXPECT().FindOptions(ctx).Return([]employee.Employee{{EmpID: "E1", Name: "Ana"}}, nil)
		deps.redisMock.ExpectSet(employee.EmployeeOptionsKey, payload, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("omitted balance is not written", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(&employee.Employee{EmpID: "E1", LeaveBalance: 9}, nil)
		deps.repo.EXPECT().UpdateProfile(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, "Ana B", e.Name)
			assert.Equal(t, "ana@corp.io", e.Email)
			return nil
		})
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(&employee.Employee{EmpID: "E1", Name: "Ana B", LeaveBalance: 4}, nil)
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Update(ctx, "E1", employee.UpdateEmployeeRequest{Name: "Ana B", Email: "ana@corp.io"})

		assert.NoError(t, err)
		assert.Equal(t, 4, resp.LeaveBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit balance goes through UpdateBalance", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(&employee.Employee{EmpID: "E1", LeaveBalance: 9}, nil)
		deps.repo.EXPECT().UpdateProfile(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().UpdateBalance(ctx, "E1", 12).Return(nil)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(&employee.Employee{EmpID: "E1", LeaveBalance: 12}, nil)
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Update(ctx, "E1", employee.UpdateEmployeeRequest{
			Name:         "Ana",
			Email:        "ana@corp.io",
			LeaveBalance: intPtr(12),
		})

		assert.NoError(t, err)
		assert.Equal(t, 12, resp.LeaveBalance)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmpID(ctx, "E9").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, "E9", employee.UpdateEmployeeRequest{Name: "Ana", Email: "ana@corp.io"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_UpdateBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UpdateBalance(ctx, "E1", 25).Return(nil)
		deps.repo.EXPECT().FindByEmpID(ctx, "E1").Return(&employee.Employee{EmpID: "E1", LeaveBalance: 25}, nil)

		resp, err := deps.service.UpdateBalance(ctx, "E1", employee.UpdateBalanceRequest{LeaveBalance: intPtr(25)})

		assert.NoError(t, err)
		assert.Equal(t, 25, resp.LeaveBalance)
	})

	t.Run("negative rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.UpdateBalance(ctx, "E1", employee.UpdateBalanceRequest{LeaveBalance: intPtr(-2)})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, "leaveBalance must be a non-negative integer", appErr.Message)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked by pending requests", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountPendingRequests(ctx, "E1").Return(int64(1), nil)

		err := deps.service.Delete(ctx, "E1")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeHasPendingRequests)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountPendingRequests(ctx, "E1").Return(int64(0), nil)
		deps.repo.EXPECT().Delete(ctx, "E1").Return(nil)
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		assert.NoError(t, deps.service.Delete(ctx, "E1"))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

// decrementAfterRead applies an approval's relative decrement right after the
// service has read the employee, inside the same transaction.
type decrementAfterRead struct {
	employee.Repository
	days  int
	fired *bool
}

func (r decrementAfterRead) WithTx(tx *sql.Tx) employee.Repository {
	return decrementAfterRead{Repository: r.Repository.WithTx(tx), days: r.days, fired: r.fired}
}

func (r decrementAfterRead) FindByEmpID(ctx context.Context, empID string) (*employee.Employee, error) {
	emp, err := r.Repository.FindByEmpID(ctx, empID)
	if err == nil && !*r.fired {
		*r.fired = true
		err = r.Repository.DecrementBalance(ctx, empID, r.days)
	}
	return emp, err
}

func TestEmployeeService_UpdateKeepsInterleavedDecrement(t *testing.T) {
	ctx := context.Background()
	db, sqlDB := dbtest.Open(t, &employee.Employee{})
	repo := employee.NewRepository(db)
	assert.NoError(t, repo.Create(ctx, &employee.Employee{EmpID: "E1", Name: "Ana", Email: "ana@corp.io", LeaveBalance: 10}))

	fired := false
	svc := employee.NewService(sqlDB, decrementAfterRead{Repository: repo, days: 5, fired: &fired}, nil, nil)

	resp, err := svc.Update(ctx, "E1", employee.UpdateEmployeeRequest{Name: "Ana B", Email: "ana.b@corp.io"})

	assert.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, 5, resp.LeaveBalance)
	assert.Equal(t, "Ana B", resp.Name)

	stored, err := repo.FindByEmpID(ctx, "E1")
	assert.NoError(t, err)
	assert.Equal(t, 5, stored.LeaveBalance)
	assert.Equal(t, "ana.b@corp.io", stored.Email)
}
