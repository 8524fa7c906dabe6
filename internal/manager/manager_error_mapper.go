package manager

import (
	"errors"

	managererrors "go-leave/internal/manager/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return managererrors.ErrManagerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_manager_email" {
		return managererrors.ErrManagerEmailExists
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return managererrors.ErrManagerEmailExists
	}

	return err
}
