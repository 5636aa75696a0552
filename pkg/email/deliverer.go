package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/email/templates"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

const otpTag = "one-time-code"

// CodeDeliverer renders the one-time code email and hands it to an EmailSender.
type CodeDeliverer struct {
	sender   EmailSender
	product  string
	subject  string
	validFor time.Duration
}

var (
	_ mfa.Deliverer = (*CodeDeliverer)(nil)
	_ mfa.Deliverer = (*LogDeliverer)(nil)
)

// NewCodeDeliverer creates a CodeDeliverer. validFor is shown in the email body.
func NewCodeDeliverer(sender EmailSender, cfg Config, validFor time.Duration) *CodeDeliverer {
	return &CodeDeliverer{
		sender:   sender,
		product:  cfg.ProductName,
		subject:  cfg.Subject,
		validFor: validFor,
	}
}

func (d *CodeDeliverer) Deliver(ctx context.Context, destination, code string) error {
	body, err := templates.Render(ctx, templates.OTPEmail(templates.OTPEmailData{
		ProductName: d.product,
		Code:        code,
		ValidFor:    d.validFor,
	}))
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	return d.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   destination,
		Subject:  d.subject,
		BodyHTML: body,
		Tag:      otpTag,
	})
}

// LogDeliverer writes codes to the logger. Development only.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(log *slog.Logger) *LogDeliverer {
	if log == nil {
		log = slog.Default()
	}
	return &LogDeliverer{logger: log.With(logger.Component("email"))}
}

func (d *LogDeliverer) Deliver(ctx context.Context, destination, code string) error {
	d.logger.WarnContext(ctx, "one-time code (log delivery, do not use in production)",
		slog.String("to", destination),
		slog.String("code", code),
	)
	return nil
}

// NewDeliverer builds the Deliverer selected by cfg.Driver.
func NewDeliverer(cfg Config, validFor time.Duration, log *slog.Logger) (mfa.Deliverer, error) {
	switch cfg.Driver {
	case DriverPostmark:
		sender, err := NewPostmarkClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewCodeDeliverer(sender, cfg, validFor), nil
	case DriverFile:
		return NewCodeDeliverer(NewDevSender(cfg.DevDir), cfg, validFor), nil
	case DriverLog, "":
		return NewLogDeliverer(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
