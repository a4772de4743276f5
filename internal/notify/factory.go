package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewFromConfig builds the sink selected by cfg.Driver. The returned closer
// releases transport resources and is never nil.
func NewFromConfig(cfg config.NotifyConfig, logger *slog.Logger) (Notifier, io.Closer, error) {
	switch cfg.Driver {
	case config.NotifySMTP:
		n := NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.SendTimeout,
		}, logger)
		if !n.Configured() {
			logger.Warn("smtp credentials not set, task notifications will be skipped")
		}
		return n, nopCloser{}, nil
	case config.NotifyAMQP:
		n, err := DialAMQP(AMQPConfig{
			URL:        cfg.AMQPURL,
			Exchange:   cfg.AMQPExchange,
			RoutingKey: cfg.AMQPRoutingKey,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return n, n, nil
	case config.NotifyLog:
		return NewLogNotifier(logger), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
	}
}
