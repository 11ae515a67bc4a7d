package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/nordverk/factora_backend/config"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// ValidateInput runs struct-tag validation on an input struct.
// Returns a field->tag map on failure, nil otherwise.
func ValidateInput(input interface{}) map[string]string {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	return ProcessValidationErrors(err)
}

func ProcessValidationErrors(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errorResponse := make(map[string]string)
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

func DereferencePtr[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func DecimalMax(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// CompanyLock obtains a short-lived distributed lock for the company and
// releases it when fn returns. The redis lock is a best-effort optimization
// to avoid long in-transaction blocking across instances; correctness must
// not depend on it, the MySQL advisory lock in the storage layer is the
// authority. Redis being down or the lock being contended just runs fn
// without it.
func CompanyLock(ctx context.Context, companyId string, lockType string, moduleName string, functionName string, fn func() error) error {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		return fn()
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, companyId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		logger.Warn("could not obtain redis lock " + lockKey + "; proceeding without it")
		return fn()
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for companyId", companyId, err)
		return fn()
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	return fn()
}
