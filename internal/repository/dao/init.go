package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Location{},
		&Event{},
		&Ticket{},
		&Setting{},
	)
}

// isUniqueViolation reports whether err is a Postgres duplicate-key
// error on the named constraint. Uniqueness races are resolved by the
// database; this is how the losing writer finds out.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == constraint
}
