package caldav

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/modelcal/caldav-mcp/internal/recurrence"
)

// productID identifies this server in generated calendar objects.
const productID = "-//modelcal//caldav-mcp//EN"

// definitionsFromCalendar converts the VEVENT components of a calendar
// object into recurrence definitions. Components without a usable start
// time are reported as errors so the caller can log and skip them.
func definitionsFromCalendar(cal *ical.Calendar) ([]recurrence.Definition, []error) {
	var defs []recurrence.Definition
	var errs []error

	for _, event := range cal.Events() {
		def, err := definitionFromEvent(event)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, errs
}

func definitionFromEvent(event ical.Event) (recurrence.Definition, error) {
	uid, _ := event.Props.Text(ical.PropUID)

	startProp := event.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return recurrence.Definition{}, fmt.Errorf("event %s: missing DTSTART", uid)
	}
	start, err := startProp.DateTime(nil)
	if err != nil {
		return recurrence.Definition{}, fmt.Errorf("event %s: invalid DTSTART: %w", uid, err)
	}

	end, err := eventEnd(event, start)
	if err != nil {
		return recurrence.Definition{}, fmt.Errorf("event %s: %w", uid, err)
	}

	summary, _ := event.Props.Text(ical.PropSummary)
	description, _ := event.Props.Text(ical.PropDescription)
	location, _ := event.Props.Text(ical.PropLocation)

	def := recurrence.Definition{
		ID:          uid,
		Title:       summary,
		Description: description,
		Location:    location,
		Start:       start,
		End:         end,
	}
	if prop := event.Props.Get(ical.PropRecurrenceRule); prop != nil {
		def.Rule = ParseRRule(prop.Value)
	}
	return def, nil
}

// eventEnd resolves an event's end time from DTEND, then DURATION, then the
// defaults RFC 5545 prescribes: one day for all-day events, the start
// instant otherwise.
func eventEnd(event ical.Event, start time.Time) (time.Time, error) {
	if prop := event.Props.Get(ical.PropDateTimeEnd); prop != nil {
		end, err := prop.DateTime(nil)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid DTEND: %w", err)
		}
		return end, nil
	}

	if prop := event.Props.Get(ical.PropDuration); prop != nil {
		dur, err := prop.Duration()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid DURATION: %w", err)
		}
		return start.Add(dur), nil
	}

	if prop := event.Props.Get(ical.PropDateTimeStart); prop != nil && prop.ValueType() == ical.ValueDate {
		return start.AddDate(0, 0, 1), nil
	}
	return start, nil
}

// buildCalendar assembles the VCALENDAR object for a new event.
func buildCalendar(uid string, input EventInput, now time.Time) *ical.Calendar {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetText(ical.PropSummary, input.Summary)
	event.Props.SetDateTime(ical.PropDateTimeStart, input.Start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, input.End)
	if input.Description != "" {
		event.Props.SetText(ical.PropDescription, input.Description)
	}
	if input.Location != "" {
		event.Props.SetText(ical.PropLocation, input.Location)
	}
	if input.RRule != "" {
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.Value = input.RRule
		event.Props.Set(prop)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Children = append(cal.Children, event.Component)
	return cal
}
