package requestdata

import "context"

type actorKey struct{}

// Actor identifies who performs a mutation. The auth middleware extracts it
// from the verified request token and stores it on the request context; the
// audit recorder stamps it onto every audit row.
type Actor struct {
	UserID   string
	UserName string
	Role     string
	IP       string
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func GetActor(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
