package middleware

import (
	"context"

	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/router"
	"github.com/strivelab/backend/pkg/xcontext"
)

// Authenticate requires the caller to identify itself with the X-User-Id
// header, which the router already lifted into the context.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You must provide a user id")
		}

		return ctx, nil
	}
}
