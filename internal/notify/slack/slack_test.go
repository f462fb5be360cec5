package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"

	"github.com/avelar/pitlane/internal/notify"
	"github.com/avelar/pitlane/internal/pipeline"
)

// mockClient records posted messages.
type mockClient struct {
	channels []string
	options  [][]slackapi.MsgOption
	err      error
}

func (m *mockClient) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	m.options = append(m.options, options)
	if m.err != nil {
		return "", "", m.err
	}
	return channelID, "1234.5678", nil
}

func TestNew_RequiresChannel(t *testing.T) {
	_, err := New(Opts{Token: "xoxb-x"})
	if err == nil || !strings.Contains(err.Error(), "channel ID is required") {
		t.Fatalf("New() error = %v, want channel requirement", err)
	}
}

func TestNew_RequiresTokenWithoutClient(t *testing.T) {
	_, err := New(Opts{ChannelID: "C1"})
	if err == nil || !strings.Contains(err.Error(), "bot token is required") {
		t.Fatalf("New() error = %v, want token requirement", err)
	}
}

func TestSend_PostsToConfiguredChannel(t *testing.T) {
	client := &mockClient{}
	n, err := New(Opts{ChannelID: "C0AB12CD3", Client: client})
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	evt := notify.Event{
		Title:    "Failed to update order wo-abc12",
		Body:     "Move Diagnosis → Waiting Parts was rolled back",
		Severity: notify.SeverityError,
		OrderID:  "wo-abc12",
		Stage:    pipeline.StageDiagnosis,
	}
	if err := n.Send(context.Background(), evt); err != nil {
		t.Fatalf("Send(): %v", err)
	}
	if len(client.channels) != 1 || client.channels[0] != "C0AB12CD3" {
		t.Errorf("posted to %v, want [C0AB12CD3]", client.channels)
	}
	if len(client.options[0]) == 0 {
		t.Error("no message options attached")
	}
}

func TestSend_WrapsAPIError(t *testing.T) {
	client := &mockClient{err: errors.New("channel_not_found")}
	n, _ := New(Opts{ChannelID: "C404", Client: client})

	err := n.Send(context.Background(), notify.Event{Title: "x"})
	if err == nil {
		t.Fatal("Send() = nil, want error")
	}
	if !strings.Contains(err.Error(), "slack: post to C404") {
		t.Errorf("error = %q, want slack: post prefix", err)
	}
}

func TestClose_NoOp(t *testing.T) {
	n, _ := New(Opts{ChannelID: "C1", Client: &mockClient{}})
	if err := n.Close(); err != nil {
		t.Errorf("Close(): %v", err)
	}
}
