package auth

import (
	"context"
)

type contextKey string

var actorClaimsKey contextKey = "actor_claims"

func SetActorClaims(ctx context.Context, claims ActorClaims) context.Context {
	return context.WithValue(ctx, actorClaimsKey, claims)
}

func GetActorClaims(ctx context.Context) ActorClaims {
	val := ctx.Value(actorClaimsKey)
	if claims, ok := val.(ActorClaims); ok {
		return claims
	}
	return nil
}
