package repository

import (
	"context"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/xcontext"
)

type FriendshipRepository interface {
	Create(ctx context.Context, data *entity.Friendship) error
	GetListByUser(ctx context.Context, userID string) ([]entity.Friendship, error)
	GetListByUserAndStatus(
		ctx context.Context, userID string, status entity.FriendshipStatus,
	) ([]entity.Friendship, error)
	UpdateStatusByID(ctx context.Context, id string, status entity.FriendshipStatus) error
}

type friendshipRepository struct{}

func NewFriendshipRepository() *friendshipRepository {
	return &friendshipRepository{}
}

func (r *friendshipRepository) Create(ctx context.Context, data *entity.Friendship) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *friendshipRepository) GetListByUser(
	ctx context.Context, userID string,
) ([]entity.Friendship, error) {
	var records []entity.Friendship
	err := xcontext.DB(ctx).
		Where("user_id1=? OR user_id2=?", userID, userID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendshipRepository) GetListByUserAndStatus(
	ctx context.Context, userID string, status entity.FriendshipStatus,
) ([]entity.Friendship, error) {
	var records []entity.Friendship
	err := xcontext.DB(ctx).
		Where("(user_id1=? OR user_id2=?) AND status=?", userID, userID, status).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendshipRepository) UpdateStatusByID(
	ctx context.Context, id string, status entity.FriendshipStatus,
) error {
	return xcontext.DB(ctx).
		Model(&entity.Friendship{}).
		Where("id=?", id).
		Update("status", status).
		Error
}
