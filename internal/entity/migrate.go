package entity

import (
	"context"

	"github.com/strivelab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Challenge{},
		&UserChallenge{},
		&Friendship{},
	)
}
