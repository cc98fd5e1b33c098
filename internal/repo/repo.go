package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate normalizes constraint violations into gorm's sentinel errors for
// drivers that do not implement gorm.ErrorTranslator.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return errors.Join(gorm.ErrDuplicatedKey, err)
	case strings.Contains(msg, "foreign key"):
		return errors.Join(gorm.ErrForeignKeyViolated, err)
	}
	return err
}
