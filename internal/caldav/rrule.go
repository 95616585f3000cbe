package caldav

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/modelcal/caldav-mcp/internal/recurrence"
)

// freqNames maps rrule-go frequencies to their RFC 5545 tokens. Sub-daily
// frequencies are carried through verbatim; the expansion engine treats them
// as malformed and degrades the event to its fallback occurrence.
var freqNames = map[rrule.Frequency]string{
	rrule.YEARLY:   "YEARLY",
	rrule.MONTHLY:  "MONTHLY",
	rrule.WEEKLY:   "WEEKLY",
	rrule.DAILY:    "DAILY",
	rrule.HOURLY:   "HOURLY",
	rrule.MINUTELY: "MINUTELY",
	rrule.SECONDLY: "SECONDLY",
}

// weekdayCodes is indexed by rrule-go weekday numbers, which start at Monday.
var weekdayCodes = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// ParseRRule converts an RRULE property value into a recurrence rule. An
// empty value yields nil. A value that cannot be parsed still yields a
// non-nil rule whose frequency carries the raw value; the expansion engine
// rejects it and applies its fallback policy instead of the event
// disappearing or expanding with parts of the rule ignored.
func ParseRRule(value string) *recurrence.Rule {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	opt, err := rrule.StrToROption(value)
	if err != nil {
		return &recurrence.Rule{Frequency: "unparsable: " + value}
	}

	r := &recurrence.Rule{
		Frequency:  freqNames[opt.Freq],
		Interval:   opt.Interval,
		Count:      opt.Count,
		Until:      opt.Until,
		ByMonthDay: opt.Bymonthday,
		ByMonth:    opt.Bymonth,
	}
	for _, wd := range opt.Byweekday {
		day := wd.Day()
		if day < 0 || day >= len(weekdayCodes) {
			continue
		}
		tok := weekdayCodes[day]
		if n := wd.N(); n != 0 {
			tok = strconv.Itoa(n) + tok
		}
		r.ByDay = append(r.ByDay, tok)
	}
	return r
}

// RecurrenceInput is the recurrence portion of a create-event request.
type RecurrenceInput struct {
	Frequency  string
	Interval   int
	Count      int
	Until      time.Time
	ByDay      []string
	ByMonthDay []int
	ByMonth    []int
}

// BuildRRule assembles and validates an RRULE property value from a
// recurrence input. The zero input yields an empty value.
func BuildRRule(in RecurrenceInput) (string, error) {
	if in.Frequency == "" {
		return "", nil
	}

	freq := strings.ToUpper(strings.TrimSpace(in.Frequency))
	switch freq {
	case "DAILY", "WEEKLY", "MONTHLY", "YEARLY":
	default:
		return "", fmt.Errorf("unsupported frequency %q", in.Frequency)
	}

	parts := []string{"FREQ=" + freq}
	if in.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(in.Interval))
	}
	if in.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(in.Count))
	}
	if !in.Until.IsZero() {
		parts = append(parts, "UNTIL="+in.Until.UTC().Format("20060102T150405Z"))
	}
	if len(in.ByDay) > 0 {
		days := make([]string, len(in.ByDay))
		for i, d := range in.ByDay {
			days[i] = strings.ToUpper(strings.TrimSpace(d))
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	if len(in.ByMonthDay) > 0 {
		parts = append(parts, "BYMONTHDAY="+joinInts(in.ByMonthDay))
	}
	if len(in.ByMonth) > 0 {
		parts = append(parts, "BYMONTH="+joinInts(in.ByMonth))
	}

	value := strings.Join(parts, ";")
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return "", fmt.Errorf("invalid recurrence rule: %w", err)
	}
	if _, err := rrule.NewRRule(*opt); err != nil {
		return "", fmt.Errorf("invalid recurrence rule: %w", err)
	}
	return value, nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
