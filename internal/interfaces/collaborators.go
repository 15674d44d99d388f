package interfaces

// Analytics records product events fire-and-forget. Implementations must
// never block the caller or return errors into core flows; delivery failures
// are logged and dropped.
type Analytics interface {
	// Track records a named event with optional parameters.
	Track(event string, params map[string]any)

	// Identify associates subsequent events with a user and a fixed set of
	// user properties.
	Identify(userID string, props map[string]string)

	// ClearIdentity removes the user association after sign-out.
	ClearIdentity()
}
