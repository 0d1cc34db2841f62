package repository

import (
	"context"
	"database/sql"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetList(ctx context.Context) ([]entity.User, error)
	UpdateAvatarByID(ctx context.Context, id, avatarURL string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetList(ctx context.Context) ([]entity.User, error) {
	var records []entity.User
	if err := xcontext.DB(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) UpdateAvatarByID(ctx context.Context, id, avatarURL string) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("avatar_url", sql.NullString{Valid: avatarURL != "", String: avatarURL}).
		Error
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
