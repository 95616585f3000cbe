package recurrence

import (
	"sort"
	"time"
)

// series generates candidate start instants for one recurring definition.
// Candidates are produced in non-decreasing order, which makes stopping at
// the first instant past the window's upper edge safe.
type series struct {
	start time.Time
	rule  *normalized
}

// generate walks the logical series and calls yield for every candidate that
// falls inside the closed window [windowStart, windowEnd]. Candidates before
// windowStart are still generated so COUNT tracks the series position, not
// the windowed output. Termination: COUNT exhausted, UNTIL passed, or the
// window's upper edge passed.
func (s series) generate(windowStart, windowEnd time.Time, yield func(time.Time)) {
	generated := 0
	for k := 0; ; k++ {
		base, candidates := s.period(k)
		if base.After(windowEnd) {
			return
		}
		if !s.rule.until.IsZero() && base.After(s.rule.until) {
			return
		}
		for _, c := range candidates {
			// The series starts at the definition start; earlier days of the
			// first period are not part of it and do not consume COUNT.
			if c.Before(s.start) {
				continue
			}
			if s.rule.count > 0 && generated >= s.rule.count {
				return
			}
			if !s.rule.until.IsZero() && c.After(s.rule.until) {
				return
			}
			if c.After(windowEnd) {
				return
			}
			generated++
			if !c.Before(windowStart) {
				yield(c)
			}
		}
	}
}

// period returns the k-th period's earliest possible instant together with
// the sorted candidate starts inside it. The base instant lower-bounds every
// candidate of this and all later periods, so a base past the window ends
// the walk.
func (s series) period(k int) (time.Time, []time.Time) {
	step := k * s.rule.interval

	switch s.rule.freq {
	case freqDaily:
		c := s.start.AddDate(0, 0, step)
		return c, []time.Time{c}

	case freqWeekly:
		if len(s.rule.byDay) == 0 {
			c := s.start.AddDate(0, 0, 7*step)
			return c, []time.Time{c}
		}
		ws := s.start.AddDate(0, 0, -mondayOffset(s.start.Weekday())+7*step)
		var out []time.Time
		for _, sel := range s.rule.byDay {
			// Ordinals only apply to MONTHLY and YEARLY; a weekly selector
			// behaves as the bare weekday.
			out = append(out, ws.AddDate(0, 0, mondayOffset(sel.day)))
		}
		return ws, sortedUnique(out)

	case freqMonthly:
		y, m := addMonths(s.start.Year(), s.start.Month(), step)
		return s.atDay(y, m, 1), s.candidatesInMonth(y, m)

	default: // freqYearly
		y := s.start.Year() + step
		months := s.rule.byMonth
		if len(months) == 0 {
			months = []time.Month{s.start.Month()}
		}
		var out []time.Time
		for _, m := range months {
			out = append(out, s.candidatesInMonth(y, m)...)
		}
		return s.atDay(y, months[0], 1), out
	}
}

// candidatesInMonth resolves the day-selection constraints against one
// concrete month. A day that does not exist in the month (the 31st of a
// 30-day month, a fifth Friday that isn't there) is skipped, never replaced
// by an adjacent date.
func (s series) candidatesInMonth(year int, month time.Month) []time.Time {
	length := daysInMonth(year, month)
	var days []int

	switch {
	case len(s.rule.byMonthDay) > 0:
		for _, md := range s.rule.byMonthDay {
			d := md
			if md < 0 {
				d = length + md + 1
			}
			if d >= 1 && d <= length {
				days = append(days, d)
			}
		}

	case len(s.rule.byDay) > 0:
		for _, sel := range s.rule.byDay {
			if sel.ord == 0 {
				for d := 1; d <= length; d++ {
					if weekdayOf(year, month, d) == sel.day {
						days = append(days, d)
					}
				}
				continue
			}
			if d, ok := nthWeekdayOfMonth(year, month, sel.day, sel.ord); ok {
				days = append(days, d)
			}
		}

	default:
		if d := s.start.Day(); d <= length {
			days = append(days, d)
		}
	}

	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, s.atDay(year, month, d))
	}
	return sortedUnique(out)
}

// atDay builds an instant on the given calendar day carrying the definition
// start's time of day and location.
func (s series) atDay(year int, month time.Month, day int) time.Time {
	h, min, sec := s.start.Clock()
	return time.Date(year, month, day, h, min, sec, s.start.Nanosecond(), s.start.Location())
}

// nthWeekdayOfMonth resolves an ordinal weekday selector against a month.
// A negative ord counts back from the month's end. ok is false when the
// month has no such occurrence.
func nthWeekdayOfMonth(year int, month time.Month, day time.Weekday, ord int) (int, bool) {
	length := daysInMonth(year, month)
	if ord > 0 {
		first := weekdayOf(year, month, 1)
		d := 1 + int(day-first+7)%7 + 7*(ord-1)
		return d, d <= length
	}
	last := weekdayOf(year, month, length)
	d := length - int(last-day+7)%7 + 7*(ord+1)
	return d, d >= 1
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func weekdayOf(year int, month time.Month, day int) time.Weekday {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
}

// mondayOffset is the day offset from the start of an ISO week (Monday).
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func addMonths(year int, month time.Month, n int) (int, time.Month) {
	idx := year*12 + int(month) - 1 + n
	return idx / 12, time.Month(idx%12 + 1)
}

func sortedUnique(ts []time.Time) []time.Time {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	out := ts[:0]
	for i, t := range ts {
		if i == 0 || !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}
