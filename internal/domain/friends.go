package domain

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/strivelab/backend/internal/common"
	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type FriendsDomain interface {
	GetFriendsWithProgress(
		ctx context.Context, req *model.GetFriendsWithProgressRequest,
	) (*model.GetFriendsWithProgressResponse, error)
	GetFriendsGrid(
		ctx context.Context, req *model.GetFriendsGridRequest,
	) (*model.GetFriendsGridResponse, error)
	GetActivityFeed(
		ctx context.Context, req *model.GetActivityFeedRequest,
	) (*model.GetActivityFeedResponse, error)
	Subscribe(ctx context.Context, userID string) (*FriendsSubscription, error)
}

type friendsDomain struct {
	gateway gateway.Gateway

	registryMutex sync.Mutex
	subscriptions *xsync.MapOf[string, *FriendsSubscription]
}

func NewFriendsDomain(gw gateway.Gateway) *friendsDomain {
	return &friendsDomain{
		gateway:       gw,
		subscriptions: xsync.NewMapOf[*FriendsSubscription](),
	}
}

// aggregation is one full flattened load of a user's friends.
type aggregation struct {
	friends []model.FriendWithProgress
	skipped int
	failed  int
}

func (d *friendsDomain) GetFriendsWithProgress(
	ctx context.Context, req *model.GetFriendsWithProgressRequest,
) (*model.GetFriendsWithProgressResponse, error) {
	userID, err := resolveUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	agg, err := d.aggregate(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate friends of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.GetFriendsWithProgressResponse{
		Friends:        agg.friends,
		SkippedRecords: agg.skipped,
		FailedFriends:  agg.failed,
	}, nil
}

// GetFriendsGrid keeps one entry per friend, preferring an entry with an
// active enrollment, ordered by display name.
func (d *friendsDomain) GetFriendsGrid(
	ctx context.Context, req *model.GetFriendsGridRequest,
) (*model.GetFriendsGridResponse, error) {
	userID, err := resolveUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	agg, err := d.aggregate(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate friends of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	byUser := map[string]model.FriendWithProgress{}
	for _, record := range agg.friends {
		current, ok := byUser[record.User.ID]
		if !ok || (!current.IsActive() && record.IsActive()) {
			byUser[record.User.ID] = record
		}
	}

	grid := make([]model.FriendWithProgress, 0, len(byUser))
	for _, record := range byUser {
		grid = append(grid, record)
	}

	slices.SortFunc(grid, func(a, b model.FriendWithProgress) bool {
		if a.User.Name != b.User.Name {
			return a.User.Name < b.User.Name
		}

		return a.ID < b.ID
	})

	return &model.GetFriendsGridResponse{
		Friends:        grid,
		SkippedRecords: agg.skipped,
		FailedFriends:  agg.failed,
	}, nil
}

// GetActivityFeed keeps active-enrollment entries only, newest display time
// first.
func (d *friendsDomain) GetActivityFeed(
	ctx context.Context, req *model.GetActivityFeedRequest,
) (*model.GetActivityFeedResponse, error) {
	userID, err := resolveUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	agg, err := d.aggregate(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate friends of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	feed := make([]model.FriendWithProgress, 0, len(agg.friends))
	for _, record := range agg.friends {
		if record.IsActive() {
			feed = append(feed, record)
		}
	}

	slices.SortFunc(feed, func(a, b model.FriendWithProgress) bool {
		if !a.DisplayTime.Equal(b.DisplayTime) {
			return a.DisplayTime.After(b.DisplayTime)
		}

		return a.ID < b.ID
	})

	return &model.GetActivityFeedResponse{
		Friends:        feed,
		SkippedRecords: agg.skipped,
		FailedFriends:  agg.failed,
	}, nil
}

func (d *friendsDomain) aggregate(ctx context.Context, userID string) (*aggregation, error) {
	friendIDs, err := d.gateway.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &aggregation{}

	var mutex sync.Mutex
	g := errgroup.Group{}
	if limit := xcontext.Configs(ctx).Feed.FanOutLimit; limit > 0 {
		g.SetLimit(limit)
	}

	for friendID := range friendIDs {
		friendID := friendID
		g.Go(func() error {
			// A friend whose load fails contributes nothing; siblings are
			// unaffected.
			records, skipped := d.loadFriend(ctx, friendID, now)

			mutex.Lock()
			defer mutex.Unlock()
			if records == nil {
				result.failed++
				common.PromCounters[common.FriendsAggregationFailures].WithLabelValues().Inc()
				return nil
			}

			result.friends = append(result.friends, records...)
			result.skipped += skipped
			return nil
		})
	}

	_ = g.Wait()
	return result, nil
}

// loadFriend produces the derived records of a single friend: one per
// joined active enrollment, or exactly one bare record when none resolve.
// A nil result means the friend's load failed entirely.
func (d *friendsDomain) loadFriend(
	ctx context.Context, friendID string, now time.Time,
) ([]model.FriendWithProgress, int) {
	if timeout := xcontext.Configs(ctx).Feed.GatewayTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var user *entity.User
	var enrollments []entity.UserChallenge
	skipped := 0

	g := errgroup.Group{}
	g.Go(func() error {
		u, err := d.gateway.GetUser(ctx, friendID)
		if err != nil {
			return err
		}

		user = u
		return nil
	})
	g.Go(func() error {
		list, s, err := d.gateway.GetUserChallenges(ctx, friendID)
		if err != nil {
			return err
		}

		enrollments, skipped = list, s
		return nil
	})

	if err := g.Wait(); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load friend %s: %v", friendID, err)
		return nil, 0
	}

	if user == nil {
		xcontext.Logger(ctx).Warnf("Friend %s has no readable profile", friendID)
		return nil, 0
	}

	var records []model.FriendWithProgress
	for _, uc := range enrollments {
		if uc.Status != entity.UserChallengeActive {
			continue
		}

		uc := uc
		challenge, err := d.gateway.GetChallenge(ctx, uc.ChallengeID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot load friend %s: %v", friendID, err)
			return nil, 0
		}

		if challenge == nil {
			skipped++
			xcontext.Logger(ctx).Warnf(
				"Dropped enrollment %s with absent challenge %s", uc.ID, uc.ChallengeID)
			continue
		}

		records = append(records, model.ConvertFriendWithProgress(user, challenge, &uc, now))
	}

	if len(records) == 0 {
		records = append(records, model.ConvertFriendWithProgress(user, nil, nil, now))
	}

	return records, skipped
}

func resolveUserID(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}

	if userID := xcontext.RequestUserID(ctx); userID != "" {
		return userID, nil
	}

	return "", errorx.New(errorx.Unauthenticated, "Require a user id")
}
