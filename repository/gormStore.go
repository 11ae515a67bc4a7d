package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/nordverk/factora_backend/models"
	"gorm.io/gorm"
)

// GormStore is the MySQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Repos() Repos {
	return reposFor(s.db)
}

// Transact opens one DB transaction, serialized per company with a MySQL
// advisory lock. GET_LOCK is connection-scoped and independent of the
// transaction, so the whole sequence is pinned to a single connection and
// the lock is held until after commit; the next holder always sees the
// previous holder's writes.
func (s *GormStore) Transact(ctx context.Context, companyId string, fn func(r Repos) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := acquireCompanyPostingLock(conn, companyId); err != nil {
			return translateStorageError(err)
		}
		defer releaseCompanyPostingLock(conn, companyId)

		tx := conn.Begin()
		if tx.Error != nil {
			return translateStorageError(tx.Error)
		}
		if err := fn(reposFor(tx)); err != nil {
			tx.Rollback()
			return translateStorageError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return translateStorageError(err)
		}
		return nil
	})
}

func reposFor(db *gorm.DB) Repos {
	return Repos{
		Items:     &gormItemRepository{db: db},
		Ledger:    &gormLedgerRepository{db: db},
		Orders:    &gormOrderRepository{db: db},
		Boms:      &gormBOMRepository{db: db},
		Customers: &gormCustomerRepository{db: db},
	}
}

// acquireCompanyPostingLock serializes stock posting per company across
// instances using MySQL advisory locks.
func acquireCompanyPostingLock(conn *gorm.DB, companyId string) error {
	lockName := fmt.Sprintf("posting:%s", companyId)
	var ok int
	if err := conn.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return &models.ConcurrencyConflictError{Err: fmt.Errorf("could not acquire posting lock for company_id=%s", companyId)}
	}
	return nil
}

func releaseCompanyPostingLock(conn *gorm.DB, companyId string) {
	lockName := fmt.Sprintf("posting:%s", companyId)
	var _ok int
	_ = conn.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDuplicateEntry  = 1062
)

// IsDuplicateKey reports whether err is a unique index violation, used to
// retry order numbering when the redis sequence lags a concurrent writer.
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// translateStorageError surfaces serialization failures as
// ConcurrencyConflictError so callers can decide to retry; everything else
// passes through untouched.
func translateStorageError(err error) error {
	if err == nil {
		return nil
	}
	var conflict *models.ConcurrencyConflictError
	if errors.As(err, &conflict) {
		return err
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDeadlock, mysqlErrLockWaitTimeout:
			return &models.ConcurrencyConflictError{Err: err}
		}
	}
	return err
}
