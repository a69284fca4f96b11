package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	log    *slog.Logger
	client *resend.Client
	from   string
}

func NewResendSender(log *slog.Logger, apiKey, from string) *ResendSender {
	return NewResendSenderWithClient(log, resend.NewClient(apiKey), from)
}

func NewResendSenderWithClient(log *slog.Logger, client *resend.Client, from string) *ResendSender {
	return &ResendSender{
		log:    log,
		client: client,
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	const op = "email.ResendSender.Send"

	log := s.log.With(slog.String("op", op))

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			log.Warn("resend rate limit exceeded",
				slog.String("limit", rateLimitErr.Limit),
				slog.String("remaining", rateLimitErr.Remaining),
				slog.String("reset", rateLimitErr.Reset),
			)
			return fmt.Errorf("%s: rate limit exceeded, resets in %ss: %w", op, rateLimitErr.Reset, err)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent", slog.String("email_id", sent.Id))

	return nil
}

// LogSender only logs outgoing mail. Used when delivery is disabled.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.log.Info("email delivery disabled, skipping",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_size", len(htmlBody)),
	)

	return nil
}
