// Package discord delivers board alerts to a Discord channel.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/avelar/pitlane/internal/notify"
)

// severityColors maps alert severities to embed colors.
var severityColors = map[notify.Severity]int{
	notify.SeverityInfo:    0x439fe0,
	notify.SeverityWarning: 0xf2c744,
	notify.SeverityError:   0xd00000,
}

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	Open() error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

// Notifier implements notify.Notifier for Discord.
type Notifier struct {
	session   session
	channelID string
}

// Opts holds parameters for creating a Discord Notifier.
type Opts struct {
	Token     string // bot token
	ChannelID string
	// For testing: inject a mock session instead of the real gateway.
	Session session
}

// New creates a Discord Notifier and opens the gateway session.
func New(opts Opts) (*Notifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel ID is required")
	}
	s := opts.Session
	if s == nil {
		if opts.Token == "" {
			return nil, fmt.Errorf("discord: bot token is required")
		}
		real, err := discordgo.New("Bot " + opts.Token)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		s = real
	}
	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("discord: open session: %w", err)
	}
	return &Notifier{session: s, channelID: opts.ChannelID}, nil
}

// Send posts the event as an embed with a severity color.
func (n *Notifier) Send(ctx context.Context, evt notify.Event) error {
	embed := &discordgo.MessageEmbed{
		Title:       evt.Title,
		Description: evt.Body,
		Color:       severityColors[evt.Severity],
	}
	if evt.OrderID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Order", Value: evt.OrderID, Inline: true,
		})
	}
	if evt.Stage != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Stage", Value: string(evt.Stage), Inline: true,
		})
	}

	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		return fmt.Errorf("discord: post to %s: %w", n.channelID, err)
	}
	return nil
}

// Close shuts the gateway session down.
func (n *Notifier) Close() error {
	return n.session.Close()
}
