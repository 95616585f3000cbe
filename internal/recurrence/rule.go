package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRule marks a rule the interpreter cannot turn into a generator
// configuration. The expansion driver converts it into a fallback occurrence
// rather than failing the batch.
var ErrMalformedRule = errors.New("recurrence: malformed rule")

// Rule is the declarative repetition pattern attached to an event definition.
// A nil Rule, or one with an empty Frequency, means the definition does not
// recur. Empty constraint slices are equivalent to omission.
type Rule struct {
	// Frequency is one of "DAILY", "WEEKLY", "MONTHLY" or "YEARLY".
	// Any other non-empty value is malformed and triggers the fallback
	// policy instead of an error to the caller.
	Frequency string

	// Interval is the step between repetitions in units of Frequency.
	// Values below 1 are treated as 1.
	Interval int

	// Count caps the total number of occurrences in the series, counted
	// from the definition start. 0 means no cap.
	Count int

	// Until bounds the series: no occurrence may start after it.
	// The zero time means no bound.
	Until time.Time

	// ByDay lists weekday selectors in RFC 5545 notation: a two-letter
	// weekday code optionally prefixed by a signed ordinal ("MO", "1MO",
	// "-1FR"). Ordinals select the n-th (or n-th from the end) matching
	// weekday of a month or year period.
	ByDay []string

	// ByMonthDay restricts occurrences to the listed days of the month
	// (1..31, or negative counting back from the month's end).
	ByMonthDay []int

	// ByMonth restricts occurrences to the listed months (1..12).
	ByMonth []int
}

type frequency int

const (
	freqDaily frequency = iota
	freqWeekly
	freqMonthly
	freqYearly
)

// weekdaySelector is a parsed ByDay entry. ord is 0 for a bare weekday,
// otherwise the signed ordinal within the month or year period.
type weekdaySelector struct {
	day time.Weekday
	ord int
}

// normalized is the canonical generator configuration produced by the rule
// interpreter. Selectors are parsed once here and never re-parsed per
// candidate.
type normalized struct {
	freq       frequency
	interval   int
	count      int
	until      time.Time
	byDay      []weekdaySelector
	byMonthDay []int
	byMonth    []time.Month
}

var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// normalize validates a rule and produces the generator configuration.
// It returns (nil, nil) for a definition that does not recur, and an error
// wrapping ErrMalformedRule for a rule that cannot be interpreted.
func normalize(r *Rule) (*normalized, error) {
	if r == nil || r.Frequency == "" {
		return nil, nil
	}

	n := &normalized{
		interval: r.Interval,
		count:    r.Count,
		until:    r.Until,
	}
	if n.interval < 1 {
		n.interval = 1
	}
	if n.count < 0 {
		n.count = 0
	}

	switch strings.ToUpper(r.Frequency) {
	case "DAILY":
		n.freq = freqDaily
	case "WEEKLY":
		n.freq = freqWeekly
	case "MONTHLY":
		n.freq = freqMonthly
	case "YEARLY":
		n.freq = freqYearly
	default:
		return nil, fmt.Errorf("%w: unrecognized frequency %q", ErrMalformedRule, r.Frequency)
	}

	for _, tok := range r.ByDay {
		sel, err := parseWeekdaySelector(tok)
		if err != nil {
			return nil, err
		}
		n.byDay = append(n.byDay, sel)
	}

	for _, md := range r.ByMonthDay {
		if md == 0 || md < -31 || md > 31 {
			return nil, fmt.Errorf("%w: day of month %d out of range", ErrMalformedRule, md)
		}
		n.byMonthDay = append(n.byMonthDay, md)
	}

	for _, m := range r.ByMonth {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("%w: month %d out of range", ErrMalformedRule, m)
		}
		n.byMonth = append(n.byMonth, time.Month(m))
	}
	sort.Slice(n.byMonth, func(i, j int) bool { return n.byMonth[i] < n.byMonth[j] })

	return n, nil
}

// parseWeekdaySelector parses a ByDay token such as "MO", "+1MO" or "-1FR".
// An explicit ordinal of 0 is malformed.
func parseWeekdaySelector(tok string) (weekdaySelector, error) {
	s := strings.ToUpper(strings.TrimSpace(tok))
	if len(s) < 2 {
		return weekdaySelector{}, fmt.Errorf("%w: weekday selector %q", ErrMalformedRule, tok)
	}

	day, ok := weekdayCodes[s[len(s)-2:]]
	if !ok {
		return weekdaySelector{}, fmt.Errorf("%w: weekday selector %q", ErrMalformedRule, tok)
	}

	prefix := s[:len(s)-2]
	if prefix == "" {
		return weekdaySelector{day: day}, nil
	}

	ord, err := strconv.Atoi(prefix)
	if err != nil || ord == 0 {
		return weekdaySelector{}, fmt.Errorf("%w: weekday selector %q", ErrMalformedRule, tok)
	}
	return weekdaySelector{day: day, ord: ord}, nil
}
