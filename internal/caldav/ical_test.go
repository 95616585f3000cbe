package caldav

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(uid string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	return event
}

func wrapEvent(event *ical.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Children = append(cal.Children, event.Component)
	return cal
}

func TestDefinitionsFromCalendar(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	t.Run("timed event with dtend", func(t *testing.T) {
		event := newTestEvent("evt-1")
		event.Props.SetText(ical.PropSummary, "Standup")
		event.Props.SetText(ical.PropDescription, "Daily sync")
		event.Props.SetText(ical.PropLocation, "Room 1")
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(30*time.Minute))

		defs, errs := definitionsFromCalendar(wrapEvent(event))
		require.Empty(t, errs)
		require.Len(t, defs, 1)

		def := defs[0]
		assert.Equal(t, "evt-1", def.ID)
		assert.Equal(t, "Standup", def.Title)
		assert.Equal(t, "Daily sync", def.Description)
		assert.Equal(t, "Room 1", def.Location)
		assert.True(t, def.Start.Equal(start))
		assert.Equal(t, 30*time.Minute, def.End.Sub(def.Start))
		assert.Nil(t, def.Rule)
	})

	t.Run("end from duration", func(t *testing.T) {
		event := newTestEvent("evt-2")
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		dur := ical.NewProp(ical.PropDuration)
		dur.Value = "PT1H30M"
		event.Props.Set(dur)

		defs, errs := definitionsFromCalendar(wrapEvent(event))
		require.Empty(t, errs)
		require.Len(t, defs, 1)
		assert.Equal(t, 90*time.Minute, defs[0].End.Sub(defs[0].Start))
	})

	t.Run("all day event defaults to one day", func(t *testing.T) {
		event := newTestEvent("evt-3")
		dtstart := ical.NewProp(ical.PropDateTimeStart)
		dtstart.Value = "20250106"
		dtstart.SetValueType(ical.ValueDate)
		event.Props.Set(dtstart)

		defs, errs := definitionsFromCalendar(wrapEvent(event))
		require.Empty(t, errs)
		require.Len(t, defs, 1)
		assert.Equal(t, 24*time.Hour, defs[0].End.Sub(defs[0].Start))
	})

	t.Run("timed event without end is instantaneous", func(t *testing.T) {
		event := newTestEvent("evt-4")
		event.Props.SetDateTime(ical.PropDateTimeStart, start)

		defs, errs := definitionsFromCalendar(wrapEvent(event))
		require.Empty(t, errs)
		require.Len(t, defs, 1)
		assert.True(t, defs[0].End.Equal(defs[0].Start))
	})

	t.Run("rrule carried into rule", func(t *testing.T) {
		event := newTestEvent("evt-5")
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(time.Hour))
		rr := ical.NewProp(ical.PropRecurrenceRule)
		rr.Value = "FREQ=WEEKLY;BYDAY=MO,FR;COUNT=6"
		event.Props.Set(rr)

		defs, errs := definitionsFromCalendar(wrapEvent(event))
		require.Empty(t, errs)
		require.Len(t, defs, 1)
		require.NotNil(t, defs[0].Rule)
		assert.Equal(t, "WEEKLY", defs[0].Rule.Frequency)
		assert.Equal(t, []string{"MO", "FR"}, defs[0].Rule.ByDay)
		assert.Equal(t, 6, defs[0].Rule.Count)
	})

	t.Run("event without dtstart reported and skipped", func(t *testing.T) {
		broken := newTestEvent("evt-broken")
		good := newTestEvent("evt-good")
		good.Props.SetDateTime(ical.PropDateTimeStart, start)
		good.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(time.Hour))

		cal := ical.NewCalendar()
		cal.Props.SetText(ical.PropProductID, productID)
		cal.Props.SetText(ical.PropVersion, "2.0")
		cal.Children = append(cal.Children, broken.Component, good.Component)

		defs, errs := definitionsFromCalendar(cal)
		require.Len(t, errs, 1)
		require.Len(t, defs, 1)
		assert.Equal(t, "evt-good", defs[0].ID)
	})
}

func TestBuildCalendar(t *testing.T) {
	start := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	cal := buildCalendar("uid-123", EventInput{
		Summary:     "Planning",
		Description: "Quarterly planning",
		Location:    "HQ",
		Start:       start,
		End:         start.Add(2 * time.Hour),
		RRule:       "FREQ=MONTHLY;BYDAY=1MO",
	}, now)

	events := cal.Events()
	require.Len(t, events, 1)
	event := events[0]

	uid, err := event.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", uid)

	summary, err := event.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Planning", summary)

	gotStart, err := event.Props.DateTime(ical.PropDateTimeStart, nil)
	require.NoError(t, err)
	assert.True(t, gotStart.Equal(start))

	rr := event.Props.Get(ical.PropRecurrenceRule)
	require.NotNil(t, rr)
	assert.Equal(t, "FREQ=MONTHLY;BYDAY=1MO", rr.Value)

	stamp, err := event.Props.DateTime(ical.PropDateTimeStamp, nil)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(now))

	// Optional fields are omitted when empty.
	bare := buildCalendar("uid-456", EventInput{Summary: "One-off", Start: start, End: start.Add(time.Hour)}, now)
	bareEvent := bare.Events()[0]
	assert.Nil(t, bareEvent.Props.Get(ical.PropDescription))
	assert.Nil(t, bareEvent.Props.Get(ical.PropLocation))
	assert.Nil(t, bareEvent.Props.Get(ical.PropRecurrenceRule))
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "https url", in: "https://dav.example.com/calendars/alice/work/", want: "/calendars/alice/work/"},
		{name: "http url", in: "http://dav.example.com/cal/", want: "/cal/"},
		{name: "path unchanged", in: "/calendars/alice/work/", want: "/calendars/alice/work/"},
		{name: "relative unchanged", in: "calendars/alice", want: "calendars/alice"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}
