package api

// Handlers bundles the HTTP handlers with their dependencies
type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new Handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}
