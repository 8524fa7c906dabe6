package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/fieldcheck"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	LeaveTypeAllKey = "leave_types:all"

	maxCodeLen = 15
	maxNameLen = 40
	cacheTTL   = 30 * time.Minute
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByCode(ctx context.Context, code string) (LeaveTypeResponse, error)
	Update(ctx context.Context, code string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, code string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave type requested",
		zap.String("request_id", rid),
		zap.String("code", req.Code),
	)

	lt, err := validateCreate(req)
	if err != nil {
		s.logger.Warn("create leave type validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByCode(ctx, lt.Code); err == nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create leave type lookup failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	if err := qtx.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	s.invalidateCache(ctx)

	s.logger.Info("create leave type success", zap.String("request_id", rid), zap.String("code", lt.Code))
	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, LeaveTypeAllKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(LeaveTypeAllKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, LeaveTypeAllKey, jsonData, cacheTTL).Err(); err != nil {
					s.logger.Warn("cache leave types failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get all leave types failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, code string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	code = normalizeCode(code)
	s.logger.Debug("update leave type requested", zap.String("code", code))

	name, maxDays, err := validateFields(req.Name, req.MaxDays)
	if err != nil {
		s.logger.Warn("update leave type validation failed", zap.String("code", code), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByCode(ctx, code)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	lt.Name = name
	lt.MaxDays = maxDays

	if err := qtx.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type persist failed", zap.String("code", code), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave type commit failed", zap.String("code", code), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	s.invalidateCache(ctx)

	s.logger.Info("update leave type success", zap.String("code", code))
	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	code = normalizeCode(code)
	s.logger.Debug("delete leave type requested", zap.String("code", code))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave type begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	refs, err := qtx.CountRequests(ctx, code)
	if err != nil {
		s.logger.Error("delete leave type reference check failed", zap.Error(err))
		return err
	}
	if refs > 0 {
		s.logger.Warn("delete leave type still referenced", zap.String("code", code), zap.Int64("requests", refs))
		return leavetypeerrors.ErrLeaveTypeInUse
	}

	if err := qtx.Delete(ctx, code); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave type commit failed", zap.Error(err))
		return err
	}
	s.invalidateCache(ctx)

	s.logger.Info("delete leave type success", zap.String("code", code))
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, LeaveTypeAllKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type cache",
			zap.Error(err),
			zap.String("key", LeaveTypeAllKey),
		)
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCreate(req CreateLeaveTypeRequest) (*LeaveType, error) {
	code, err := fieldcheck.Code("code", req.Code, maxCodeLen)
	if err != nil {
		return nil, err
	}
	name, maxDays, err := validateFields(req.Name, req.MaxDays)
	if err != nil {
		return nil, err
	}
	return &LeaveType{Code: code, Name: name, MaxDays: maxDays}, nil
}

func validateFields(name string, maxDays int) (string, int, error) {
	name, err := fieldcheck.Text("name", name, maxNameLen)
	if err != nil {
		return "", 0, err
	}
	maxDays, err = fieldcheck.Positive("maxDays", maxDays)
	if err != nil {
		return "", 0, err
	}
	return name, maxDays, nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		Code:    lt.Code,
		Name:    lt.Name,
		MaxDays: lt.MaxDays,
	}
	if !lt.CreatedAt.IsZero() {
		resp.CreatedAt = lt.CreatedAt.Format(time.RFC3339)
	}
	if !lt.UpdatedAt.IsZero() {
		resp.UpdatedAt = lt.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
