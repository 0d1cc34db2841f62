package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/pubsub"
	"github.com/strivelab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeDomain interface {
	GetChallenges(ctx context.Context, req *model.GetChallengesRequest) (*model.GetChallengesResponse, error)
	JoinChallenge(ctx context.Context, req *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	UpdateProgress(ctx context.Context, req *model.UpdateProgressRequest) (*model.UpdateProgressResponse, error)
}

type challengeDomain struct {
	gateway           gateway.Gateway
	userChallengeRepo repository.UserChallengeRepository
	publisher         pubsub.Publisher
}

func NewChallengeDomain(
	gw gateway.Gateway,
	userChallengeRepo repository.UserChallengeRepository,
	publisher pubsub.Publisher,
) *challengeDomain {
	return &challengeDomain{
		gateway:           gw,
		userChallengeRepo: userChallengeRepo,
		publisher:         publisher,
	}
}

func (d *challengeDomain) GetChallenges(
	ctx context.Context, req *model.GetChallengesRequest,
) (*model.GetChallengesResponse, error) {
	challenges, skipped, err := d.gateway.GetChallenges(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetChallengesResponse{SkippedRecords: skipped}
	for _, challenge := range challenges {
		challenge := challenge
		resp.Challenges = append(resp.Challenges, model.ConvertChallenge(&challenge))
	}

	return resp, nil
}

func (d *challengeDomain) JoinChallenge(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require a user id")
	}

	challenge, err := d.gateway.GetChallenge(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenge %s: %v", req.ChallengeID, err)
		return nil, errorx.Unknown
	}

	if challenge == nil {
		return nil, errorx.New(errorx.NotFound, "Not found challenge")
	}

	if !challenge.IsActive {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not open for joining")
	}

	uc := &entity.UserChallenge{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		ChallengeID: challenge.ID,
		CurrentDay:  1,
		Status:      entity.UserChallengeActive,
		TotalTasks:  challenge.Duration * challenge.TasksPerDay,
		StartDate:   time.Now(),
	}

	if err := d.userChallengeRepo.Create(ctx, uc); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user challenge: %v", err)
		return nil, errorx.Unknown
	}

	d.publishChange(ctx, uc)

	resp := model.JoinChallengeResponse(model.ConvertUserChallenge(uc))
	return &resp, nil
}

func (d *challengeDomain) UpdateProgress(
	ctx context.Context, req *model.UpdateProgressRequest,
) (*model.UpdateProgressResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require a user id")
	}

	uc, err := d.userChallengeRepo.GetByID(ctx, req.UserChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user challenge %s: %v", req.UserChallengeID, err)
		return nil, errorx.Unknown
	}

	if uc.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if uc.Status != entity.UserChallengeActive {
		return nil, errorx.New(errorx.Unavailable, "Challenge progress is frozen")
	}

	update := repository.ProgressUpdate{
		CurrentDay:     req.CurrentDay,
		CompletedTasks: req.CompletedTasks,
	}

	if req.CompletedTasks >= uc.TotalTasks {
		update.CompletedTasks = uc.TotalTasks
		update.Status = entity.UserChallengeCompleted
	}

	if err := d.userChallengeRepo.UpdateProgressByID(ctx, uc.ID, update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update progress of %s: %v", uc.ID, err)
		return nil, errorx.Unknown
	}

	uc.CurrentDay = update.CurrentDay
	uc.CompletedTasks = update.CompletedTasks
	if update.Status != "" {
		uc.Status = update.Status
	}

	d.publishChange(ctx, uc)

	resp := model.UpdateProgressResponse(model.ConvertUserChallenge(uc))
	return &resp, nil
}

// publishChange notifies live subscriptions about a changed enrollment. The
// change is already persisted, so a publish failure is only logged.
func (d *challengeDomain) publishChange(ctx context.Context, uc *entity.UserChallenge) {
	if d.publisher == nil {
		return
	}

	msg, err := json.Marshal(model.ConvertUserChallenge(uc))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal user challenge %s: %v", uc.ID, err)
		return
	}

	pack := &pubsub.Pack{Key: []byte(uc.UserID), Msg: msg}
	topic := xcontext.Configs(ctx).PubSub.Topic
	if err := d.publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish change of %s: %v", uc.ID, err)
	}
}
