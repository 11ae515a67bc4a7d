package utils

import (
	"context"

	"gorm.io/gorm"
)

func ResourceCountWhere[T any](ctx context.Context, db *gorm.DB, companyId string, cond string, values ...interface{}) (int64, error) {
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).
		Where("company_id = ?", companyId).
		Where(cond, values...).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// check if id exists, scoped to companyId, returns RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, db *gorm.DB, companyId string, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, db, companyId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

func UniqueSlice[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
