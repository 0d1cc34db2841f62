package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/enum"
	"github.com/strivelab/backend/pkg/pubsub"
	"github.com/strivelab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// SubscriberFactory binds a handler to the configured pubsub transport. It
// keeps the gateway independent of the concrete driver (redis, kafka, or an
// in-memory bus in tests).
type SubscriberFactory func(handler pubsub.SubscribeHandler) pubsub.Subscriber

// Gateway is the datastore boundary of the friend aggregation pipeline.
//
// Point lookups return (nil, nil) when the record is absent or unreadable.
// Scans drop malformed records instead of failing; the int result counts
// the dropped records.
type Gateway interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUsers(ctx context.Context) ([]entity.User, int, error)
	GetChallenge(ctx context.Context, id string) (*entity.Challenge, error)
	GetChallenges(ctx context.Context) ([]entity.Challenge, int, error)
	GetUserChallenges(ctx context.Context, userID string) ([]entity.UserChallenge, int, error)
	GetFriendIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	SubscribeUserChallenges(ctx context.Context, userIDs map[string]struct{}) (*ChallengeWatch, error)
}

type datastoreGateway struct {
	userRepo          repository.UserRepository
	challengeRepo     repository.ChallengeRepository
	userChallengeRepo repository.UserChallengeRepository
	friendshipRepo    repository.FriendshipRepository
	subscriberFactory SubscriberFactory
}

func NewDatastoreGateway(
	userRepo repository.UserRepository,
	challengeRepo repository.ChallengeRepository,
	userChallengeRepo repository.UserChallengeRepository,
	friendshipRepo repository.FriendshipRepository,
	subscriberFactory SubscriberFactory,
) *datastoreGateway {
	return &datastoreGateway{
		userRepo:          userRepo,
		challengeRepo:     challengeRepo,
		userChallengeRepo: userChallengeRepo,
		friendshipRepo:    friendshipRepo,
		subscriberFactory: subscriberFactory,
	}
}

func (g *datastoreGateway) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := g.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if !validUser(user) {
		return nil, nil
	}

	return user, nil
}

func (g *datastoreGateway) GetUsers(ctx context.Context) ([]entity.User, int, error) {
	records, err := g.userRepo.GetList(ctx)
	if err != nil {
		return nil, 0, err
	}

	users := make([]entity.User, 0, len(records))
	skipped := 0
	for _, user := range records {
		u := user
		if !validUser(&u) {
			skipped++
			xcontext.Logger(ctx).Warnf("Skipped malformed user record %s", user.ID)
			continue
		}

		users = append(users, u)
	}

	return users, skipped, nil
}

func (g *datastoreGateway) GetChallenge(ctx context.Context, id string) (*entity.Challenge, error) {
	challenge, err := g.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if !validChallenge(challenge) {
		return nil, nil
	}

	return challenge, nil
}

func (g *datastoreGateway) GetChallenges(ctx context.Context) ([]entity.Challenge, int, error) {
	records, err := g.challengeRepo.GetList(ctx)
	if err != nil {
		return nil, 0, err
	}

	challenges := make([]entity.Challenge, 0, len(records))
	skipped := 0
	for _, challenge := range records {
		c := challenge
		if !validChallenge(&c) {
			skipped++
			xcontext.Logger(ctx).Warnf("Skipped malformed challenge record %s", challenge.ID)
			continue
		}

		challenges = append(challenges, c)
	}

	return challenges, skipped, nil
}

func (g *datastoreGateway) GetUserChallenges(
	ctx context.Context, userID string,
) ([]entity.UserChallenge, int, error) {
	records, err := g.userChallengeRepo.GetListByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return filterUserChallenges(ctx, records)
}

// GetFriendIDs resolves the accepted friends of userID from both endpoints
// of the undirected friendship edge. The requesting user is never included.
func (g *datastoreGateway) GetFriendIDs(
	ctx context.Context, userID string,
) (map[string]struct{}, error) {
	friendships, err := g.friendshipRepo.GetListByUserAndStatus(
		ctx, userID, entity.FriendshipAccepted)
	if err != nil {
		return nil, err
	}

	ids := map[string]struct{}{}
	for _, f := range friendships {
		other := f.UserID2
		if f.UserID2 == userID {
			other = f.UserID1
		}

		if other == "" || other == userID {
			continue
		}

		ids[other] = struct{}{}
	}

	return ids, nil
}

// SubscribeUserChallenges opens a change stream over the enrollments of the
// given owners. An empty owner set yields a watch that delivers one empty
// batch and completes without opening a subscriber.
func (g *datastoreGateway) SubscribeUserChallenges(
	ctx context.Context, userIDs map[string]struct{},
) (*ChallengeWatch, error) {
	watch := newChallengeWatch()
	if len(userIDs) == 0 {
		watch.emit(nil)
		watch.Stop()
		return watch, nil
	}

	ids := make([]string, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}

	watch.subscriber = g.subscriberFactory(
		func(ctx context.Context, pack *pubsub.Pack, t time.Time) {
			if _, ok := userIDs[string(pack.Key)]; !ok {
				return
			}

			records, err := g.userChallengeRepo.GetListByUserIDs(ctx, ids)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot refetch user challenges: %v", err)
				watch.fail(err)
				return
			}

			valid, _, err := filterUserChallenges(ctx, records)
			if err != nil {
				watch.fail(err)
				return
			}

			watch.emit(valid)
		})

	watch.subscriber.Subscribe(ctx)
	return watch, nil
}

func filterUserChallenges(
	ctx context.Context, records []entity.UserChallenge,
) ([]entity.UserChallenge, int, error) {
	result := make([]entity.UserChallenge, 0, len(records))
	skipped := 0
	for _, record := range records {
		r := record
		if !validUserChallenge(&r) {
			skipped++
			xcontext.Logger(ctx).Warnf("Skipped malformed user challenge record %s", record.ID)
			continue
		}

		result = append(result, r)
	}

	return result, skipped, nil
}

func validUser(user *entity.User) bool {
	return user != nil && user.ID != "" && user.Name != ""
}

func validChallenge(challenge *entity.Challenge) bool {
	return challenge != nil && challenge.ID != "" && challenge.Title != ""
}

func validUserChallenge(uc *entity.UserChallenge) bool {
	if uc == nil || uc.ID == "" || uc.UserID == "" || uc.ChallengeID == "" {
		return false
	}

	if _, err := enum.ToEnum[entity.UserChallengeStatus](string(uc.Status)); err != nil {
		return false
	}

	return true
}
