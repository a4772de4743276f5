package notify

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/redact"
)

// LogNotifier only logs the message. Useful in development.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only sink.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

// Notify logs the assignment and always succeeds.
func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	n.logger.InfoContext(ctx, "task assignment notification",
		"task_id", msg.TaskID,
		"subject", Subject(msg),
		"recipient", redact.Email(msg.AssigneeEmail))
	return nil
}
