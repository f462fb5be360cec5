package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// sseEvent is one event queued for delivery to SSE clients.
type sseEvent struct {
	Event string
	Data  any
}

// eventHub fans board events out to connected SSE clients.
type eventHub struct {
	mu   sync.Mutex
	subs map[chan sseEvent]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[chan sseEvent]struct{})}
}

// subscribe registers a client channel.
func (h *eventHub) subscribe() chan sseEvent {
	ch := make(chan sseEvent, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// unsubscribe removes a client channel.
func (h *eventHub) unsubscribe(ch chan sseEvent) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// broadcast queues an event for every client. Slow clients drop events
// rather than block the board.
func (h *eventHub) broadcast(event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- sseEvent{Event: event, Data: data}:
		default:
		}
	}
}

// handleSSE streams board events to the browser: connected on open,
// heartbeats to keep proxies from cutting the stream, board_changed after
// reloads, transition_failed and fetch_failed for toasts.
func handleSSE(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"org": srv.org})
		c.Writer.Flush()

		ch := srv.hub.subscribe()
		defer srv.hub.unsubscribe(ch)

		ctx := c.Request.Context()
		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case evt := <-ch:
				writeSSE(c.Writer, evt.Event, evt.Data)
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
