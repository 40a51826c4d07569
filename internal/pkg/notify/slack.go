package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier posts operational messages to the office chat.
type Notifier interface {
	// Info carries workflow events HR acts on, such as a signed review
	Info(ctx context.Context, message string) error
	// Error carries failures an operator should look at
	Error(ctx context.Context, message string) error
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

type Slack struct {
	client  *slack.Client
	options SlackOption
}

// New returns a Slack notifier, or Nop when token is empty.
func New(token string, options SlackOption, clientOpts ...slack.Option) Notifier {
	if token == "" {
		return Nop{}
	}
	return NewSlack(token, options, clientOpts...)
}

func NewSlack(token string, options SlackOption, clientOpts ...slack.Option) *Slack {
	return &Slack{client: slack.New(token, clientOpts...), options: options}
}

// postMessage skips channels that are not configured.
func (s *Slack) postMessage(ctx context.Context, channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessageContext(ctx,
		channelID,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.InfoChannelID, message)
}

func (s *Slack) Error(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.ErrorChannelID, message)
}

// Nop drops every message.
type Nop struct{}

func (Nop) Info(ctx context.Context, message string) error  { return nil }
func (Nop) Error(ctx context.Context, message string) error { return nil }
