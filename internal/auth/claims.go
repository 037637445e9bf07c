package auth

// ActorClaims identifies who is invoking an import. The engine only needs a
// stable actor id for audit entries plus a display name for presentation;
// permission checks live outside this service.
type ActorClaims interface {
	ActorID() string
	DisplayName() string
	Source() string
}

type JWTActorClaims struct {
	Subject string
	Name    string
}

func (c *JWTActorClaims) ActorID() string     { return c.Subject }
func (c *JWTActorClaims) DisplayName() string { return c.Name }
func (c *JWTActorClaims) Source() string      { return "JWT" }
