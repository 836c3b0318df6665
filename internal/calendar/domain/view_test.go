package domain

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)
}

func testView() *View {
	return NewView("2024-06", WithNow(fixedNow))
}

func TestNewViewDefaults(t *testing.T) {
	v := testView()
	if v.Granularity() != GranularityMonth {
		t.Errorf("granularity = %s, want month", v.Granularity())
	}
	if v.Anchor() != "2024-06" {
		t.Errorf("anchor = %s, want 2024-06", v.Anchor())
	}
	if _, open := v.SelectedDate(); open {
		t.Error("detail panel open on fresh view")
	}
}

func TestSelectDateTogglesPanelInMonthView(t *testing.T) {
	v := testView()
	v.SelectDate("2024-06-03")
	if d, open := v.SelectedDate(); !open || d != "2024-06-03" {
		t.Fatalf("selected = %q open=%v", d, open)
	}
	v.SelectDate("2024-06-03")
	if _, open := v.SelectedDate(); open {
		t.Error("second select did not close the panel")
	}
	if v.Granularity() != GranularityMonth {
		t.Errorf("month-view selection changed granularity to %s", v.Granularity())
	}
}

func TestSelectDateInWeekViewJumpsToDay(t *testing.T) {
	v := testView()
	v.SetGranularity(GranularityWeek)
	v.SelectDate("2024-06-20")
	if v.Granularity() != GranularityDay {
		t.Fatalf("granularity = %s, want day", v.Granularity())
	}
	if v.Anchor() != "2024-06-20" {
		t.Errorf("day anchor = %s, want 2024-06-20", v.Anchor())
	}
}

func TestGranularityRoundTripRestoresState(t *testing.T) {
	v := testView()
	v.SelectDate("2024-06-03")
	v.SetGranularity(GranularityWeek)
	weekAnchor := v.Anchor()
	v.SetGranularity(GranularityMonth)

	if d, open := v.SelectedDate(); !open || d != "2024-06-03" {
		t.Errorf("detail panel lost across month->week->month: %q open=%v", d, open)
	}
	v.SetGranularity(GranularityWeek)
	if v.Anchor() != weekAnchor {
		t.Errorf("week anchor drifted: %s, want %s", v.Anchor(), weekAnchor)
	}
}

func TestStepWeekWithinMonthNoReload(t *testing.T) {
	v := testView()
	v.SetGranularity(GranularityWeek)
	if v.Anchor() != "2024-06-14" {
		t.Fatalf("week anchor = %s", v.Anchor())
	}
	month, reload := v.Step(1)
	if reload || month != "2024-06" {
		t.Errorf("step to 6/21: month=%s reload=%v", month, reload)
	}
	if v.Anchor() != "2024-06-21" {
		t.Errorf("anchor = %s, want 2024-06-21", v.Anchor())
	}
}

func TestStepWeekAcrossMonthSignalsReload(t *testing.T) {
	v := testView()
	v.SetGranularity(GranularityWeek)
	v.Step(1) // 6/21
	v.Step(1) // 6/28
	month, reload := v.Step(1)
	if !reload {
		t.Fatal("no reload signal crossing into July")
	}
	if month != "2024-07" {
		t.Errorf("month = %s, want 2024-07", month)
	}
	v.MonthLoaded(month)
	if v.LoadedMonth() != "2024-07" {
		t.Errorf("loaded month = %s", v.LoadedMonth())
	}
}

func TestStepDay(t *testing.T) {
	v := testView()
	v.SetGranularity(GranularityDay)
	month, reload := v.Step(-1)
	if reload || month != "2024-06" {
		t.Errorf("step back one day: month=%s reload=%v", month, reload)
	}
	if v.Anchor() != "2024-06-13" {
		t.Errorf("anchor = %s, want 2024-06-13", v.Anchor())
	}
}

func TestStepMonthAlwaysReloads(t *testing.T) {
	v := testView()
	month, reload := v.Step(1)
	if !reload || month != "2024-07" {
		t.Errorf("month step: month=%s reload=%v", month, reload)
	}
	month, reload = v.Step(-1)
	v.MonthLoaded("2024-07") // simulate caller having loaded July before stepping back
	if month != "2024-06" {
		t.Errorf("month = %s, want 2024-06", month)
	}
}

func TestTodayResetsAnchorsAndPanel(t *testing.T) {
	v := NewView("2024-03", WithNow(fixedNow))
	v.SelectDate("2024-03-02")
	v.SetGranularity(GranularityDay)
	v.Step(5)

	month, reload := v.Today()
	if month != "2024-06" || !reload {
		t.Errorf("Today: month=%s reload=%v, want 2024-06 true", month, reload)
	}
	if v.Anchor() != "2024-06-14" {
		t.Errorf("day anchor = %s, want 2024-06-14", v.Anchor())
	}
	v.SetGranularity(GranularityWeek)
	if v.Anchor() != "2024-06-14" {
		t.Errorf("week anchor = %s, want 2024-06-14", v.Anchor())
	}
	v.SetGranularity(GranularityMonth)
	if _, open := v.SelectedDate(); open {
		t.Error("detail panel still open after Today")
	}
}

func TestTodayInLoadedMonthNoReload(t *testing.T) {
	v := testView()
	if _, reload := v.Today(); reload {
		t.Error("reload signalled although today is in the loaded month")
	}
}

func TestVisibleDates(t *testing.T) {
	v := testView()
	dates, err := v.VisibleDates()
	if err != nil {
		t.Fatalf("VisibleDates: %v", err)
	}
	if len(dates) != 30 {
		t.Errorf("month view dates = %d, want 30", len(dates))
	}

	v.SetGranularity(GranularityWeek)
	dates, err = v.VisibleDates()
	if err != nil {
		t.Fatalf("VisibleDates: %v", err)
	}
	if len(dates) != 7 || dates[0] != "2024-06-09" {
		t.Errorf("week view dates = %v", dates)
	}

	v.SetGranularity(GranularityDay)
	dates, err = v.VisibleDates()
	if err != nil {
		t.Fatalf("VisibleDates: %v", err)
	}
	if len(dates) != 1 || dates[0] != "2024-06-14" {
		t.Errorf("day view dates = %v", dates)
	}
}

func TestSetGranularityIgnoresUnknown(t *testing.T) {
	v := testView()
	v.SetGranularity(Granularity("year"))
	if v.Granularity() != GranularityMonth {
		t.Errorf("granularity = %s after bogus value", v.Granularity())
	}
}
