// Package analytics records product events fire-and-forget: delivery is
// asynchronous and best-effort, and no failure ever reaches a caller.
package analytics

// Event names recorded by the application.
const (
	EventLogin                    = "login"
	EventLogout                   = "logout"
	EventPageView                 = "page_view"
	EventCategorySelection        = "category_selection"
	EventNotificationChannelSetup = "notification_channel_setup"
	EventError                    = "error"
)

// Noop discards all events. Used when analytics is disabled.
type Noop struct{}

// NewNoop creates a Noop recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) Track(string, map[string]any)       {}
func (Noop) Identify(string, map[string]string) {}
func (Noop) ClearIdentity()                     {}
