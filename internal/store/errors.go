package store

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReserved = errors.New("stand is already reserved")
	ErrNotReserved     = errors.New("stand is not reserved")
	ErrDuplicate       = errors.New("already exists")
	ErrAlreadyResolved = errors.New("request was already resolved")
)

// translate maps driver errors onto the store sentinels, keeping the
// original error as the cause.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Mark(errors.Wrap(err, msg), ErrNotFound)
	case isUniqueViolation(err):
		return errors.Mark(errors.Wrap(err, msg), ErrDuplicate)
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	// sqlite reports constraint failures only through the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
