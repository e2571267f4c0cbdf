package interfaces

// Severity classifies a transient user notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notifier delivers transient, auto-dismissing user notifications (toasts).
// Implementations decide presentation: a log line, a WebSocket broadcast to
// connected dashboards, or anything else. Notify must not block the caller.
type Notifier interface {
	Notify(severity Severity, message string)
}
