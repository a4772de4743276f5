package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the mail server settings for SMTPNotifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username when empty.
	From    string
	Timeout time.Duration
}

// SMTPNotifier emails the assignee through an authenticated SMTP relay.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// Ensure SMTPNotifier implements Notifier interface
var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates an SMTP sink. Missing credentials are not an error
// here: every Notify call then reports ErrNotConfigured.
func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger.With("component", "smtp_notifier"),
	}
}

// Configured reports whether credentials are present.
func (n *SMTPNotifier) Configured() bool {
	return n.cfg.Username != "" && n.cfg.Password != ""
}

// Notify sends the assignment email.
func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if !n.Configured() {
		return fmt.Errorf("%w: smtp username or password missing", ErrNotConfigured)
	}

	body, err := RenderHTML(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotification, err)
	}

	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return fmt.Errorf("%w: invalid from address: %v", ErrNotification, err)
	}
	if err := m.To(msg.AssigneeEmail); err != nil {
		return fmt.Errorf("%w: invalid recipient address: %v", ErrNotification, err)
	}
	m.Subject(Subject(msg))
	m.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
	}
	if n.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(n.cfg.Timeout))
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: smtp client init failed: %v", ErrNotification, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: smtp send failed: %s", ErrNotification, redact.Error(err))
	}

	n.logger.Debug("assignment email sent",
		"task_id", msg.TaskID,
		"recipient", redact.Email(msg.AssigneeEmail))
	return nil
}
