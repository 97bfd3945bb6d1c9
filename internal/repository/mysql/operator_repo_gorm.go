package mysql

import (
	"context"
	"errors"
	"fmt"

	"order-admin/internal/domain"
	"order-admin/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type operatorRepo struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) repository.OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) Save(ctx context.Context, op *domain.Operator) error {
	result := r.db.WithContext(ctx).Create(op)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateUsername, op.Username)
		}
		log.WithError(result.Error).Error("Operator save failed")
		return result.Error
	}

	if op.ID == 0 {
		return errors.New("failed to assign operator ID")
	}

	log.WithFields(log.Fields{"operator_id": op.ID, "username": op.Username}).Info("Operator saved")
	return nil
}

// FindByUsername returns nil, nil when no operator has that username.
func (r *operatorRepo) FindByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	var op domain.Operator
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.WithError(err).Error("FindByUsername failed")
		return nil, err
	}
	return &op, nil
}
