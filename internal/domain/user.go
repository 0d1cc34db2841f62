package domain

import (
	"context"

	"github.com/strivelab/backend/internal/common"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/storage"
	"github.com/strivelab/backend/pkg/xcontext"
)

type UserDomain interface {
	GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error)
	GetUsers(ctx context.Context, req *model.GetUsersRequest) (*model.GetUsersResponse, error)
	UploadAvatar(ctx context.Context, req *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type userDomain struct {
	gateway     gateway.Gateway
	userRepo    repository.UserRepository
	fileStorage storage.Storage
}

func NewUserDomain(
	gw gateway.Gateway,
	userRepo repository.UserRepository,
	fileStorage storage.Storage,
) *userDomain {
	return &userDomain{gateway: gw, userRepo: userRepo, fileStorage: fileStorage}
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	id, err := resolveUserID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	user, err := d.gateway.GetUser(ctx, id)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", id, err)
		return nil, errorx.Unknown
	}

	if user == nil {
		return nil, errorx.New(errorx.NotFound, "Not found user")
	}

	resp := model.GetUserResponse(model.ConvertUser(user))
	return &resp, nil
}

func (d *userDomain) GetUsers(
	ctx context.Context, req *model.GetUsersRequest,
) (*model.GetUsersResponse, error) {
	users, skipped, err := d.gateway.GetUsers(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetUsersResponse{SkippedRecords: skipped}
	for _, user := range users {
		user := user
		resp.Users = append(resp.Users, model.ConvertUser(&user))
	}

	return resp, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require a user id")
	}

	uresps, err := common.ProcessAvatar(ctx, d.fileStorage, "image")
	if err != nil {
		return nil, err
	}

	avatarURL := uresps[0].Url
	if err := d.userRepo.UpdateAvatarByID(ctx, userID, avatarURL); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update avatar of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{AvatarURL: avatarURL}, nil
}
