package repository

import (
	"context"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/xcontext"
)

type ChallengeRepository interface {
	Create(ctx context.Context, data *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetList(ctx context.Context) ([]entity.Challenge, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, data *entity.Challenge) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var record entity.Challenge
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *challengeRepository) GetList(ctx context.Context) ([]entity.Challenge, error) {
	var records []entity.Challenge
	if err := xcontext.DB(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
