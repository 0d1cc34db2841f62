package repository

import (
	"context"
	"errors"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserChallengeRepository interface {
	Create(ctx context.Context, data *entity.UserChallenge) error
	GetByID(ctx context.Context, id string) (*entity.UserChallenge, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserChallenge, error)
	GetListByUserIDs(ctx context.Context, userIDs []string) ([]entity.UserChallenge, error)
	UpdateProgressByID(ctx context.Context, id string, update ProgressUpdate) error
}

// ProgressUpdate carries the mutable progress fields of an enrollment.
type ProgressUpdate struct {
	CurrentDay     int
	CompletedTasks int
	Status         entity.UserChallengeStatus
}

type userChallengeRepository struct{}

func NewUserChallengeRepository() *userChallengeRepository {
	return &userChallengeRepository{}
}

func (r *userChallengeRepository) Create(ctx context.Context, data *entity.UserChallenge) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userChallengeRepository) GetByID(ctx context.Context, id string) (*entity.UserChallenge, error) {
	var record entity.UserChallenge
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userChallengeRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.UserChallenge, error) {
	var records []entity.UserChallenge
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userChallengeRepository) GetListByUserIDs(
	ctx context.Context, userIDs []string,
) ([]entity.UserChallenge, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var records []entity.UserChallenge
	if err := xcontext.DB(ctx).Where("user_id IN (?)", userIDs).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userChallengeRepository) UpdateProgressByID(
	ctx context.Context, id string, update ProgressUpdate,
) error {
	updateMap := map[string]any{
		"current_day":     update.CurrentDay,
		"completed_tasks": update.CompletedTasks,
	}

	if update.Status != "" {
		updateMap["status"] = update.Status
	}

	tx := xcontext.DB(ctx).
		Model(&entity.UserChallenge{}).
		Where("id=?", id).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
