// Package filter narrows work orders by date range and free-text query.
package filter

import (
	"strings"
	"time"

	"github.com/avelar/pitlane/internal/models"
)

// Mode selects how the date range is computed.
type Mode string

const (
	ModeAll    Mode = "all"
	Mode7Days  Mode = "7days"
	Mode30Days Mode = "30days"
	ModeMonth  Mode = "month"
	ModeCustom Mode = "custom"
)

// Selection is the filter state owned by the UI layer. It is read-only
// input here and never persisted.
type Selection struct {
	Mode  Mode
	From  *time.Time // custom mode only
	To    *time.Time // custom mode only
	Query string
}

// Range is an inclusive date interval.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the inclusive range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// DateRange computes the active date interval for a selection, relative to
// now. A nil result means no date filtering: mode "all", an unknown mode,
// or a custom selection missing either bound. An incomplete custom range
// deliberately filters nothing rather than filtering everything out.
func DateRange(sel Selection, now time.Time) *Range {
	switch sel.Mode {
	case Mode7Days:
		return lastDays(now, 7)
	case Mode30Days:
		return lastDays(now, 30)
	case ModeMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return &Range{From: first, To: last}
	case ModeCustom:
		if sel.From == nil || sel.To == nil {
			return nil
		}
		return &Range{From: *sel.From, To: *sel.To}
	default:
		return nil
	}
}

// lastDays returns [midnight of now-n days, 23:59:59.999999999 of now].
func lastDays(now time.Time, n int) *Range {
	start := now.AddDate(0, 0, -n)
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return &Range{From: from, To: to}
}

// Apply filters orders by date range, then by free-text query. With an
// active range, orders missing both EntryDate and CreatedAt are excluded.
// The query matches case-insensitively against customer name and phone,
// vehicle brand, model and license plate, and the order description; any
// single matching field keeps the order. Relative order is preserved.
func Apply(orders []models.WorkOrder, r *Range, query string) []models.WorkOrder {
	out := make([]models.WorkOrder, 0, len(orders))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, o := range orders {
		if r != nil {
			d, ok := o.EffectiveDate()
			if !ok || !r.Contains(d) {
				continue
			}
		}
		if q != "" && !matchesQuery(o, q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// matchesQuery reports whether any searchable field contains q (lowercase).
func matchesQuery(o models.WorkOrder, q string) bool {
	fields := []string{
		o.Customer.Name,
		o.Customer.Phone,
		o.Vehicle.Brand,
		o.Vehicle.Model,
		o.Vehicle.LicensePlate,
		o.Description,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
