package caldav

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/modelcal/caldav-mcp/internal/logging"
	"github.com/modelcal/caldav-mcp/internal/recurrence"
)

// ListEvents fetches the VEVENTs of a calendar that may overlap the given
// range and returns them as recurrence definitions. The server-side
// time-range filter matches recurring events by their instances, so a series
// started before the range is still included; precise windowing is the
// expansion engine's job.
func (a *Account) ListEvents(ctx context.Context, calendarURL string, start, end time.Time) ([]recurrence.Definition, error) {
	path, err := a.requireCalendar(calendarURL)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{
				Name:     ical.CompEvent,
				AllProps: true,
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start,
				End:   end,
			}},
		},
	}

	objects, err := a.client.QueryCalendar(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var defs []recurrence.Definition
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		objDefs, errs := definitionsFromCalendar(obj.Data)
		for _, err := range errs {
			a.logger.Warn("skipping unparsable event",
				logging.KeyAccount, a.name,
				"calendar", path,
				logging.KeyError, err.Error())
		}
		defs = append(defs, objDefs...)
	}
	return defs, nil
}

// CreateEvent creates a new event in the calendar and returns its UID.
func (a *Account) CreateEvent(ctx context.Context, calendarURL string, input EventInput) (string, error) {
	path, err := a.requireCalendar(calendarURL)
	if err != nil {
		return "", err
	}

	uid := uuid.New().String()
	cal := buildCalendar(uid, input, time.Now())

	objectPath := strings.TrimSuffix(path, "/") + "/" + uid + ".ics"
	if _, err := a.client.PutCalendarObject(ctx, objectPath, cal); err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	a.logger.Info("created event",
		logging.KeyAccount, a.name,
		"calendar", path,
		"uid", uid)
	return uid, nil
}

// DeleteEvent removes the event with the given UID from the calendar.
func (a *Account) DeleteEvent(ctx context.Context, calendarURL, uid string) error {
	path, err := a.requireCalendar(calendarURL)
	if err != nil {
		return err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{
				Name:  ical.CompEvent,
				Props: []string{ical.PropUID},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name: ical.CompEvent,
				Props: []caldav.PropFilter{{
					Name:      ical.PropUID,
					TextMatch: &caldav.TextMatch{Text: uid},
				}},
			}},
		},
	}

	objects, err := a.client.QueryCalendar(ctx, path, query)
	if err != nil {
		return fmt.Errorf("failed to find event %s: %w", uid, err)
	}
	if len(objects) == 0 {
		return fmt.Errorf("event with UID %s not found in calendar", uid)
	}

	if err := a.client.RemoveAll(ctx, objects[0].Path); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", uid, err)
	}

	a.logger.Info("deleted event",
		logging.KeyAccount, a.name,
		"calendar", path,
		"uid", uid)
	return nil
}

func (a *Account) requireCalendar(calendarURL string) (string, error) {
	if a.client == nil {
		return "", fmt.Errorf("account %s is not connected", a.name)
	}
	path, ok := a.calendarPath(calendarURL)
	if !ok {
		return "", fmt.Errorf("calendar not found: %s", calendarURL)
	}
	return path, nil
}
