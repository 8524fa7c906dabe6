package manager

import (
	"context"
	"database/sql"
	"errors"
	"time"

	managererrors "go-leave/internal/manager/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/fieldcheck"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxNameLen  = 100
	maxEmailLen = 100
)

//go:generate mockgen -source=manager_service.go -destination=mock/manager_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateManagerRequest) (ManagerResponse, error)
	GetAll(ctx context.Context, q string) ([]ManagerResponse, error)
	GetByID(ctx context.Context, id string) (ManagerResponse, error)
	GetTeam(ctx context.Context, id string) (TeamResponse, error)
	Update(ctx context.Context, id string, req UpdateManagerRequest) (ManagerResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("manager.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("manager.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateManagerRequest) (ManagerResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create manager requested", zap.String("request_id", rid))

	name, email, err := validateFields(req.Name, req.Email)
	if err != nil {
		s.logger.Warn("create manager validation failed", zap.String("request_id", rid), zap.Error(err))
		return ManagerResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create manager begin tx failed", zap.Error(err))
		return ManagerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := ensureEmailFree(ctx, qtx, email, uuid.Nil); err != nil {
		return ManagerResponse{}, err
	}

	m := &Manager{ID: uuid.New(), Name: name, Email: email}
	if err := qtx.Create(ctx, m); err != nil {
		s.logger.Error("create manager persist failed", zap.Error(err))
		return ManagerResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create manager commit failed", zap.Error(err))
		return ManagerResponse{}, err
	}

	s.logger.Info("create manager success", zap.String("request_id", rid), zap.String("manager_id", m.ID.String()))
	return mapToResponse(*m), nil
}

func (s *service) GetAll(ctx context.Context, q string) ([]ManagerResponse, error) {
	managers, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("get all managers failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(managers), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ManagerResponse, error) {
	managerID, err := uuid.Parse(id)
	if err != nil {
		return ManagerResponse{}, managererrors.ErrInvalidManagerID
	}

	m, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		return ManagerResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*m), nil
}

func (s *service) GetTeam(ctx context.Context, id string) (TeamResponse, error) {
	managerID, err := uuid.Parse(id)
	if err != nil {
		return TeamResponse{}, managererrors.ErrInvalidManagerID
	}

	m, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		return TeamResponse{}, mapRepositoryError(err)
	}

	members, err := s.repo.FindTeam(ctx, managerID)
	if err != nil {
		s.logger.Error("get manager team failed", zap.String("manager_id", id), zap.Error(err))
		return TeamResponse{}, err
	}

	resp := TeamResponse{
		Manager: mapToResponse(*m),
		Members: make([]TeamMemberResponse, len(members)),
	}
	for i, member := range members {
		resp.Members[i] = TeamMemberResponse{
			EmpID:        member.EmpID,
			Name:         member.Name,
			Email:        member.Email,
			LeaveBalance: member.LeaveBalance,
		}
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateManagerRequest) (ManagerResponse, error) {
	managerID, err := uuid.Parse(id)
	if err != nil {
		return ManagerResponse{}, managererrors.ErrInvalidManagerID
	}
	s.logger.Debug("update manager requested", zap.String("manager_id", id))

	name, email, err := validateFields(req.Name, req.Email)
	if err != nil {
		s.logger.Warn("update manager validation failed", zap.String("manager_id", id), zap.Error(err))
		return ManagerResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update manager begin tx failed", zap.Error(err))
		return ManagerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	m, err := qtx.FindByID(ctx, managerID)
	if err != nil {
		return ManagerResponse{}, mapRepositoryError(err)
	}

	if err := ensureEmailFree(ctx, qtx, email, managerID); err != nil {
		return ManagerResponse{}, err
	}

	m.Name = name
	m.Email = email

	if err := qtx.Update(ctx, m); err != nil {
		s.logger.Error("update manager persist failed", zap.String("manager_id", id), zap.Error(err))
		return ManagerResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update manager commit failed", zap.String("manager_id", id), zap.Error(err))
		return ManagerResponse{}, err
	}

	s.logger.Info("update manager success", zap.String("manager_id", id))
	return mapToResponse(*m), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	managerID, err := uuid.Parse(id)
	if err != nil {
		return managererrors.ErrInvalidManagerID
	}
	s.logger.Debug("delete manager requested", zap.String("manager_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete manager begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	refs, err := qtx.CountEmployees(ctx, managerID)
	if err != nil {
		s.logger.Error("delete manager reference check failed", zap.Error(err))
		return err
	}
	if refs > 0 {
		s.logger.Warn("delete manager still referenced", zap.String("manager_id", id), zap.Int64("employees", refs))
		return managererrors.ErrManagerHasEmployees
	}

	if err := qtx.Delete(ctx, managerID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete manager commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete manager success", zap.String("manager_id", id))
	return nil
}

// ensureEmailFree rejects an email held by any manager other than self.
func ensureEmailFree(ctx context.Context, repo Repository, email string, self uuid.UUID) error {
	existing, err := repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return managererrors.ErrManagerEmailExists
	}
	return nil
}

func validateFields(name, email string) (string, string, error) {
	name, err := fieldcheck.Text("name", name, maxNameLen)
	if err != nil {
		return "", "", err
	}
	email, err = fieldcheck.Email("email", email, maxEmailLen)
	if err != nil {
		return "", "", err
	}
	return name, email, nil
}

func mapToResponse(m Manager) ManagerResponse {
	resp := ManagerResponse{
		ID:    m.ID.String(),
		Name:  m.Name,
		Email: m.Email,
	}
	if !m.CreatedAt.IsZero() {
		resp.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	}
	if !m.UpdatedAt.IsZero() {
		resp.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(managers []Manager) []ManagerResponse {
	resp := make([]ManagerResponse, len(managers))
	for i, m := range managers {
		resp[i] = mapToResponse(m)
	}
	return resp
}
