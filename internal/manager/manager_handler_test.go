package manager_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/manager"
	managererrors "go-leave/internal/manager/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeManagerService struct {
	CreateFn  func(ctx context.Context, req manager.CreateManagerRequest) (manager.ManagerResponse, error)
	GetAllFn  func(ctx context.Context, q string) ([]manager.ManagerResponse, error)
	GetByIDFn func(ctx context.Context, id string) (manager.ManagerResponse, error)
	GetTeamFn func(ctx context.Context, id string) (manager.TeamResponse, error)
	UpdateFn  func(ctx context.Context, id string, req manager.UpdateManagerRequest) (manager.ManagerResponse, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (f *fakeManagerService) Create(ctx context.Context, req manager.CreateManagerRequest) (manager.ManagerResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeManagerService) GetAll(ctx context.Context, q string) ([]manager.ManagerResponse, error) {
	return f.GetAllFn(ctx, q)
}
func (f *fakeManagerService) GetByID(ctx context.Context, id string) (manager.ManagerResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeManagerService) GetTeam(ctx context.Context, id string) (manager.TeamResponse, error) {
	return f.GetTeamFn(ctx, id)
}
func (f *fakeManagerService) Update(ctx context.Context, id string, req manager.UpdateManagerRequest) (manager.ManagerResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeManagerService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter(h *manager.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/managers", h.Create)
	r.GET("/managers", h.GetAll)
	r.GET("/managers/:id", h.GetByID)
	r.GET("/managers/:id/team", h.GetTeam)
	r.PUT("/managers/:id", h.Update)
	r.DELETE("/managers/:id", h.Delete)
	return r
}

func TestManagerHandler_Create(t *testing.T) {
	svc := &fakeManagerService{
		CreateFn: func(ctx context.Context, req manager.CreateManagerRequest) (manager.ManagerResponse, error) {
			return manager.ManagerResponse{ID: "m-1", Name: req.Name, Email: req.Email}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/managers", strings.NewReader(`{"name":"Ana","email":"ana@corp.io"}`))
	req.Header.Set("Content-Type", "application/json")

	setupRouter(manager.NewHandler(svc)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ana@corp.io"`)
}

func TestManagerHandler_GetAllPassesSearch(t *testing.T) {
	svc := &fakeManagerService{
		GetAllFn: func(ctx context.Context, q string) ([]manager.ManagerResponse, error) {
			assert.Equal(t, "ana", q)
			return []manager.ManagerResponse{{ID: "m-1", Name: "Ana"}}, nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(manager.NewHandler(svc)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/managers?q=ana", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestManagerHandler_Team(t *testing.T) {
	svc := &fakeManagerService{
		GetTeamFn: func(ctx context.Context, id string) (manager.TeamResponse, error) {
			return manager.TeamResponse{
				Manager: manager.ManagerResponse{ID: id},
				Members: []manager.TeamMemberResponse{{EmpID: "EMP-000001", LeaveBalance: 7}},
			}, nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(manager.NewHandler(svc)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/managers/m-1/team", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"leaveBalance":7`)
}

func TestManagerHandler_DeleteConflict(t *testing.T) {
	svc := &fakeManagerService{
		DeleteFn: func(ctx context.Context, id string) error {
			return managererrors.ErrManagerHasEmployees
		},
	}
	w := httptest.NewRecorder()
	setupRouter(manager.NewHandler(svc)).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/managers/m-1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}
