package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// translateError classifies store errors. Already classified errors pass
// through untouched.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.KindNotFound, entity+" not found", err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.KindConflict, conflictMessage(entity), err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.Wrap(apperrors.KindConflict, conflictMessage(entity), err)
	}
	return apperrors.Internal(err)
}

func conflictMessage(entity string) string {
	if entity == entityProfile {
		return "User already exists with this email"
	}
	return entity + " already exists"
}

const (
	entityProfile = "Profile"
	entityProject = "Project"
)
