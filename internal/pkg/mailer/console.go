package mailer

import (
	"context"

	"newznepal/internal/pkg/logger"
)

// ConsoleMailer writes messages to the log instead of sending them. It is
// used whenever SMTP is not configured.
type ConsoleMailer struct {
	verbose bool
}

func NewConsoleMailer(verbose bool) *ConsoleMailer {
	return &ConsoleMailer{verbose: verbose}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	ev := logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject)
	if m.verbose {
		ev = ev.Str("text", msg.Text)
	}
	ev.Msg("[DEV-EMAIL] email not sent: SMTP is not configured")
	return nil
}
