package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/metrics"
)

const (
	templateResetCode = "reset_code.html"
	templateContact   = "contact.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Service struct {
	log            *slog.Logger
	sender         Sender
	templates      *template.Template
	contactAddress string
	timeout        time.Duration
}

func NewService(log *slog.Logger, sender Sender, contactAddress string, timeout time.Duration) (*Service, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("email.NewService: parse templates: %w", err)
	}

	return &Service{
		log:            log,
		sender:         sender,
		templates:      templates,
		contactAddress: contactAddress,
		timeout:        timeout,
	}, nil
}

type resetCodeData struct {
	Username string
	Code     string
	Minutes  int
}

func (s *Service) SendResetCode(ctx context.Context, to, username, code string, ttl time.Duration) error {
	data := resetCodeData{
		Username: username,
		Code:     code,
		Minutes:  int(ttl.Minutes()),
	}

	return s.send(ctx, templateResetCode, to, "Your password reset code", data)
}

func (s *Service) SendContact(ctx context.Context, msg models.ContactMessage) error {
	if s.contactAddress == "" {
		return errs.New(errs.KindDelivery, "contact address is not configured")
	}

	return s.send(ctx, templateContact, s.contactAddress, "New contact message from "+msg.Name, msg)
}

func (s *Service) send(ctx context.Context, name, to, subject string, data any) error {
	const op = "email.Service.send"

	log := s.log.With(slog.String("op", op), slog.String("template", name))

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		log.Error("failed to render template", sl.Err(err))
		metrics.EmailsTotal.WithLabelValues(name, metrics.ResultError).Inc()

		return fmt.Errorf("%s: render %s: %w", op, name, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.sender.Send(ctx, to, subject, body.String())
	metrics.EmailsTotal.WithLabelValues(name, metrics.Result(err)).Inc()

	if err != nil {
		log.Error("failed to deliver email", sl.Err(err))

		return errs.Wrap(errs.KindDelivery, err, "failed to deliver email")
	}

	return nil
}
