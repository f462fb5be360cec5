package dashboard

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// refreshLoop reloads the board on the configured cron schedule until ctx
// is cancelled. Scheduled reconciliation is what keeps optimistic state
// honest: edits made by other sessions land here.
func (s *Server) refreshLoop(ctx context.Context, expr string) {
	for {
		d := nextCronDuration(expr)
		if d == 0 {
			// Unparseable expression; nothing to schedule.
			return
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.refresh(ctx)
		}
	}
}
