package utils

import (
	"context"

	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db
// (companyId is used in query's WHERE, may return RecordNotFound)
func FetchModel[T any](ctx context.Context, db *gorm.DB, companyId string, id int, associations ...string) (*T, error) {
	dbCtx := db.WithContext(ctx).Where("company_id = ?", companyId)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}
