package testutil

import (
	"context"
	"time"

	"github.com/strivelab/backend/config"
	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/logger"
	"github.com/strivelab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "test",
		Feed: config.FeedConfigs{
			FanOutLimit:    4,
			GatewayTimeout: time.Second,
		},
		PubSub: config.PubSubConfigs{
			Driver: "redis",
			Topic:  "user_challenges",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
