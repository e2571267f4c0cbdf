// Package notify implements the transient-notification (toast) channel.
// A toast is fire-and-forget: implementations never block and never return
// errors to the code that raised the notification.
package notify

import (
	"github.com/raysh454/fraudwatch/internal/interfaces"
	"github.com/raysh454/fraudwatch/internal/logging"
)

// LogNotifier renders toasts as structured log lines. This is the watcher's
// default presentation when no dashboard client is connected.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier creates a LogNotifier. logger must not be nil.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(logging.Field{Key: "component", Value: "toast"})}
}

func (n *LogNotifier) Notify(severity interfaces.Severity, message string) {
	field := logging.Field{Key: "severity", Value: string(severity)}
	switch severity {
	case interfaces.SeverityError:
		n.logger.Error(message, field)
	case interfaces.SeverityWarning:
		n.logger.Warn(message, field)
	default:
		n.logger.Info(message, field)
	}
}

// Fanout delivers every toast to all wrapped notifiers in order.
type Fanout []interfaces.Notifier

func (f Fanout) Notify(severity interfaces.Severity, message string) {
	for _, n := range f {
		if n != nil {
			n.Notify(severity, message)
		}
	}
}
