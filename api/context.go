package api

import (
	"context"

	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
)

type keyType string

const (
	actorKey keyType = "actor"
)

// ctxWithActor adds the authenticated user to the context
func ctxWithActor(ctx context.Context, actor *models.User) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ctxActor retrieves the authenticated user from the context. It returns
// nil when the auth middleware did not run, which handlers treat as
// unauthenticated.
func ctxActor(ctx context.Context) *models.User {
	actor, _ := ctx.Value(actorKey).(*models.User)
	return actor
}
