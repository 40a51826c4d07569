package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/cmlabs-hris/workforce-attendance/internal/config"
)

// transport delivers a rendered message including its headers.
type transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

type smtpTransport struct {
	addr string
	auth smtp.Auth
}

func newSMTPTransport(cfg config.EmailConfig) smtpTransport {
	t := smtpTransport{addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)}
	if cfg.Username != "" {
		t.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return t
}

// Send ignores ctx; net/smtp has no cancellation.
func (t smtpTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	return smtp.SendMail(t.addr, t.auth, from, to, msg)
}

type sesAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type sesTransport struct {
	client sesAPI
}

func newSESTransport(ctx context.Context, region string) (sesTransport, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return sesTransport{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return sesTransport{client: ses.NewFromConfig(cfg)}, nil
}

func (t sesTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	out, err := t.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(from),
		Destinations: to,
		RawMessage:   &types.RawMessage{Data: msg},
	})
	if err != nil {
		return fmt.Errorf("ses send raw email: %w", err)
	}
	if out.MessageId != nil {
		slog.Debug("SES accepted email", "message_id", *out.MessageId)
	}
	return nil
}
