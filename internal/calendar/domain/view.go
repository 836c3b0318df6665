package domain

import "time"

type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDay   Granularity = "day"
)

// View tracks the operator's position on the calendar: the granularity, one
// anchor per granularity, and the month whose working set is loaded. It is
// session state, never persisted. Anchors survive granularity switches, so
// returning to a view restores where the operator left it.
type View struct {
	granularity Granularity
	loadedMonth string
	monthAnchor string
	weekAnchor  string
	dayAnchor   string
	selected    string
	now         func() time.Time
}

type ViewOption func(*View)

// WithNow fixes the view's clock; tests use it to pin "today".
func WithNow(now func() time.Time) ViewOption {
	return func(v *View) { v.now = now }
}

func NewView(loadedMonth string, opts ...ViewOption) *View {
	v := &View{
		granularity: GranularityMonth,
		loadedMonth: loadedMonth,
		monthAnchor: loadedMonth,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	today := v.now().Format(DateLayout)
	v.weekAnchor = today
	v.dayAnchor = today
	return v
}

func (v *View) Granularity() Granularity { return v.granularity }
func (v *View) LoadedMonth() string      { return v.loadedMonth }

// SetGranularity switches the display only; anchors and the month-view
// selection are left alone.
func (v *View) SetGranularity(g Granularity) {
	switch g {
	case GranularityMonth, GranularityWeek, GranularityDay:
		v.granularity = g
	}
}

// SelectedDate reports the month view's inline detail panel.
func (v *View) SelectedDate() (string, bool) {
	return v.selected, v.selected != ""
}

// SelectDate toggles the detail panel in month view; in week or day view it
// jumps to day granularity anchored at the date.
func (v *View) SelectDate(date string) {
	if v.granularity == GranularityMonth {
		if v.selected == date {
			v.selected = ""
		} else {
			v.selected = date
		}
		return
	}
	v.dayAnchor = date
	v.granularity = GranularityDay
}

// Anchor is the current granularity's position: a month for month view, a
// date otherwise.
func (v *View) Anchor() string {
	switch v.granularity {
	case GranularityWeek:
		return v.weekAnchor
	case GranularityDay:
		return v.dayAnchor
	default:
		return v.monthAnchor
	}
}

// Step moves the current anchor by delta units (months, weeks, or days). It
// returns the month the view now needs and whether that month differs from
// the loaded one — the signal to refetch before re-deriving.
func (v *View) Step(delta int) (string, bool) {
	switch v.granularity {
	case GranularityWeek:
		v.weekAnchor = shiftDate(v.weekAnchor, 7*delta)
		return v.reloadTarget(MonthOf(v.weekAnchor))
	case GranularityDay:
		v.dayAnchor = shiftDate(v.dayAnchor, delta)
		return v.reloadTarget(MonthOf(v.dayAnchor))
	default:
		v.monthAnchor = shiftMonth(v.monthAnchor, delta)
		return v.reloadTarget(v.monthAnchor)
	}
}

// Today resets all three anchors to the current date and closes the detail
// panel.
func (v *View) Today() (string, bool) {
	today := v.now().Format(DateLayout)
	v.weekAnchor = today
	v.dayAnchor = today
	v.monthAnchor = MonthOf(today)
	v.selected = ""
	return v.reloadTarget(v.monthAnchor)
}

// MonthLoaded records that the caller finished fetching month's working set.
func (v *View) MonthLoaded(month string) {
	v.loadedMonth = month
}

// VisibleDates is the date range the current view derives from.
func (v *View) VisibleDates() ([]string, error) {
	switch v.granularity {
	case GranularityWeek:
		return WeekDays(v.weekAnchor)
	case GranularityDay:
		return []string{v.dayAnchor}, nil
	default:
		return DaysInMonth(v.monthAnchor)
	}
}

func (v *View) reloadTarget(month string) (string, bool) {
	return month, month != v.loadedMonth
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

func shiftMonth(month string, months int) string {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return month
	}
	return t.AddDate(0, months, 0).Format(MonthLayout)
}
