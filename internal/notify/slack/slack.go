// Package slack delivers board alerts to a Slack channel.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/avelar/pitlane/internal/notify"
)

// severityColors maps alert severities to attachment sidebar colors.
var severityColors = map[notify.Severity]string{
	notify.SeverityInfo:    "#439fe0",
	notify.SeverityWarning: "#f2c744",
	notify.SeverityError:   "#d00000",
}

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Notifier implements notify.Notifier for Slack.
type Notifier struct {
	client    slackClient
	channelID string
}

// Opts holds parameters for creating a Slack Notifier.
type Opts struct {
	Token     string // xoxb-... bot token
	ChannelID string
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// New creates a Slack Notifier.
func New(opts Opts) (*Notifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel ID is required")
	}
	client := opts.Client
	if client == nil {
		if opts.Token == "" {
			return nil, fmt.Errorf("slack: bot token is required")
		}
		client = slackapi.New(opts.Token)
	}
	return &Notifier{client: client, channelID: opts.ChannelID}, nil
}

// Send posts the event as an attachment with a severity color.
func (n *Notifier) Send(ctx context.Context, evt notify.Event) error {
	attachment := slackapi.Attachment{
		Color: severityColors[evt.Severity],
		Title: evt.Title,
		Text:  evt.Body,
	}
	if evt.OrderID != "" {
		attachment.Fields = append(attachment.Fields, slackapi.AttachmentField{
			Title: "Order", Value: evt.OrderID, Short: true,
		})
	}
	if evt.Stage != "" {
		attachment.Fields = append(attachment.Fields, slackapi.AttachmentField{
			Title: "Stage", Value: string(evt.Stage), Short: true,
		})
	}

	_, _, err := n.client.PostMessageContext(ctx, n.channelID, slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post to %s: %w", n.channelID, err)
	}
	return nil
}

// Close is a no-op; the Slack web API client holds no connection.
func (n *Notifier) Close() error { return nil }
