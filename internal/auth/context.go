package auth

import (
	"context"

	"github.com/stacklok/donation-coordinator/internal/donation"
)

type actorKey struct{}

// WithActor returns a context carrying the authenticated actor
func WithActor(ctx context.Context, actor donation.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by the authentication middleware
func ActorFromContext(ctx context.Context) (donation.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(donation.Actor)
	return actor, ok
}
