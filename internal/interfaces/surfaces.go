package interfaces

// Surfaces is the rendering capability the poller writes through: a set of
// addressable text sinks identified by opaque string IDs. A surface may or
// may not exist in the current rendering context.
type Surfaces interface {
	// Set writes text to the surface with the given id. It reports false if
	// no such surface exists; callers treat an absent surface as optional.
	Set(id, text string) bool

	// Get reads the current text of a surface. ok is false if the surface
	// does not exist.
	Get(id string) (text string, ok bool)
}
