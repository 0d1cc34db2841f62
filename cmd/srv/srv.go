package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/strivelab/backend/config"
	"github.com/strivelab/backend/internal/domain"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/kafka"
	"github.com/strivelab/backend/pkg/logger"
	"github.com/strivelab/backend/pkg/pubsub"
	"github.com/strivelab/backend/pkg/router"
	"github.com/strivelab/backend/pkg/storage"
	"github.com/strivelab/backend/pkg/xcontext"
	"github.com/strivelab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs     *config.Configs
	logger      logger.Logger
	db          *gorm.DB
	redisClient *redis.Client

	publisher         pubsub.Publisher
	subscriberFactory gateway.SubscriberFactory
	fileStorage       storage.Storage

	userRepo          repository.UserRepository
	challengeRepo     repository.ChallengeRepository
	userChallengeRepo repository.UserChallengeRepository
	friendshipRepo    repository.FriendshipRepository

	gateway gateway.Gateway

	userDomain      domain.UserDomain
	challengeDomain domain.ChallengeDomain
	friendsDomain   domain.FriendsDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = &cfg
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" || s.configs.Env == "dev" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.New(mysql.Config{
		DSN:                       s.configs.Database.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadStorage() {
	s.fileStorage = storage.NewS3Storage(s.configs.Storage)
}

// loadPubsub wires the change-stream transport selected by configuration.
func (s *srv) loadPubsub() {
	topic := s.configs.PubSub.Topic

	switch s.configs.PubSub.Driver {
	case "kafka":
		addrs := []string{s.configs.Kafka.Addr}
		s.publisher = kafka.NewPublisher(uuid.NewString(), addrs)
		s.subscriberFactory = func(handler pubsub.SubscribeHandler) pubsub.Subscriber {
			return kafka.NewSubscriber(uuid.NewString(), addrs, []string{topic}, handler)
		}

	default:
		s.redisClient = xredis.NewClient(s.configs.Redis.Addr)
		s.publisher = xredis.NewPublisher(s.redisClient)
		s.subscriberFactory = func(handler pubsub.SubscribeHandler) pubsub.Subscriber {
			return xredis.NewSubscriber(s.redisClient, []string{topic}, handler)
		}
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.userChallengeRepo = repository.NewUserChallengeRepository()
	s.friendshipRepo = repository.NewFriendshipRepository()
}

func (s *srv) loadGateway() {
	s.gateway = gateway.NewDatastoreGateway(
		s.userRepo,
		s.challengeRepo,
		s.userChallengeRepo,
		s.friendshipRepo,
		s.subscriberFactory,
	)
}

func (s *srv) loadDomains() {
	s.userDomain = domain.NewUserDomain(s.gateway, s.userRepo, s.fileStorage)
	s.challengeDomain = domain.NewChallengeDomain(s.gateway, s.userChallengeRepo, s.publisher)
	s.friendsDomain = domain.NewFriendsDomain(s.gateway)
}
