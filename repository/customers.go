package repository

import (
	"context"

	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/utils"
	"gorm.io/gorm"
)

type gormCustomerRepository struct {
	db *gorm.DB
}

func (r *gormCustomerRepository) Exists(ctx context.Context, companyId string, customerId int) error {
	return utils.ValidateResourceId[models.Customer](ctx, r.db, companyId, customerId)
}
