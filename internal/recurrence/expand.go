package recurrence

import (
	"sort"
	"time"
)

// Definition is a stored calendar event template supplied to the expansion
// driver. End must be after Start; the difference is the duration every
// generated occurrence preserves.
type Definition struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time

	// Rule is the optional recurrence pattern. Nil means the definition
	// occurs exactly once.
	Rule *Rule
}

// Occurrence is one concrete, time-bound instance produced from a
// definition.
type Occurrence struct {
	DefinitionID string
	Title        string
	Description  string
	Location     string
	Start        time.Time
	End          time.Time

	// Recurring is true iff the source definition carried an active
	// recurrence rule (including the degraded fallback case).
	Recurring bool

	// SeriesStart and SeriesID reference the origin series: the source
	// definition's own start (its first occurrence, even when that falls
	// outside the query window) and identifier. They are only set for
	// successfully expanded recurring definitions.
	SeriesStart time.Time
	SeriesID    string
}

// Outcome reports how one definition expanded. It is handed to an Observer
// so callers can log or record metrics; the engine itself never performs
// output.
type Outcome struct {
	DefinitionID string
	Generated    int
	Fallback     bool
}

// Observer receives the Outcome for each processed definition.
type Observer func(Outcome)

// Expand turns a batch of definitions into the time-sorted occurrences
// overlapping the closed window [windowStart, windowEnd].
//
// Both recurring and non-recurring definitions are filtered by the window: a
// non-recurring definition is emitted iff its own [start, end) interval
// overlaps it. A definition whose rule cannot be interpreted still yields
// one fallback occurrence, so a listing is never silently incomplete because
// of one bad rule. A window with windowEnd before windowStart yields an
// empty result.
//
// The result is stable-sorted by start; ties keep input and generation
// order. Calling Expand twice with identical inputs yields identical output.
func Expand(defs []Definition, windowStart, windowEnd time.Time) []Occurrence {
	return ExpandObserved(defs, windowStart, windowEnd, nil)
}

// ExpandObserved is Expand with a per-definition Outcome observer. A nil
// observer is allowed.
func ExpandObserved(defs []Definition, windowStart, windowEnd time.Time, obs Observer) []Occurrence {
	if windowEnd.Before(windowStart) {
		return nil
	}

	var out []Occurrence
	for _, def := range defs {
		occs, outcome := expandDefinition(def, windowStart, windowEnd)
		out = append(out, occs...)
		if obs != nil {
			obs(outcome)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func expandDefinition(def Definition, windowStart, windowEnd time.Time) (occs []Occurrence, outcome Outcome) {
	outcome.DefinitionID = def.ID

	// A generation fault must not escape the engine; the definition
	// degrades to its fallback occurrence like a malformed rule does.
	defer func() {
		if r := recover(); r != nil {
			occs = []Occurrence{fallback(def)}
			outcome.Generated = 0
			outcome.Fallback = true
		}
	}()

	rule, err := normalize(def.Rule)
	if err != nil {
		outcome.Fallback = true
		return []Occurrence{fallback(def)}, outcome
	}

	if rule == nil {
		if overlapsWindow(def, windowStart, windowEnd) {
			return []Occurrence{{
				DefinitionID: def.ID,
				Title:        def.Title,
				Description:  def.Description,
				Location:     def.Location,
				Start:        def.Start,
				End:          def.End,
			}}, outcome
		}
		return nil, outcome
	}

	duration := def.End.Sub(def.Start)
	s := series{start: def.Start, rule: rule}
	s.generate(windowStart, windowEnd, func(start time.Time) {
		occs = append(occs, Occurrence{
			DefinitionID: def.ID,
			Title:        def.Title,
			Description:  def.Description,
			Location:     def.Location,
			Start:        start,
			End:          start.Add(duration),
			Recurring:    true,
			SeriesStart:  def.Start,
			SeriesID:     def.ID,
		})
	})
	outcome.Generated = len(occs)
	return occs, outcome
}

// fallback is the single degraded occurrence for a definition whose rule
// could not be expanded: the definition's own interval, flagged recurring,
// with no origin fields.
func fallback(def Definition) Occurrence {
	return Occurrence{
		DefinitionID: def.ID,
		Title:        def.Title,
		Description:  def.Description,
		Location:     def.Location,
		Start:        def.Start,
		End:          def.End,
		Recurring:    true,
	}
}

// overlapsWindow reports whether the definition's half-open [start, end)
// interval intersects the closed query window.
func overlapsWindow(def Definition, windowStart, windowEnd time.Time) bool {
	return !def.Start.After(windowEnd) && def.End.After(windowStart)
}
