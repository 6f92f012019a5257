package statistics

import (
	"fmt"
	"time"
)

// TimeWindow is a half-open analysis period (Start, End].
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return t.After(w.Start) && !t.After(w.End)
}

// WindowsFor derives the current analysis window and the immediately
// preceding comparison window of equal length. The two windows are
// contiguous and non-overlapping. The reference time is injected so the
// computation is deterministic under test.
func WindowsFor(now time.Time, timeframeDays int) (current, previous TimeWindow) {
	length := time.Duration(timeframeDays) * 24 * time.Hour

	current = TimeWindow{Start: now.Add(-length), End: now}
	previous = TimeWindow{Start: now.Add(-2 * length), End: current.Start}
	return current, previous
}

// WindowLabels are the human-readable names for a timeframe and its
// period-over-period comparison.
type WindowLabels struct {
	Window     string
	Comparison string
}

var knownTimeframeLabels = map[int]WindowLabels{
	7:   {Window: "last 7 days", Comparison: "week over week"},
	30:  {Window: "last month", Comparison: "month over month"},
	90:  {Window: "last quarter", Comparison: "quarter over quarter"},
	365: {Window: "this year", Comparison: "year over year"},
}

// LabelsFor maps a timeframe to its display labels, with a generic
// fallback for unrecognized values.
func LabelsFor(timeframeDays int) WindowLabels {
	if labels, ok := knownTimeframeLabels[timeframeDays]; ok {
		return labels
	}
	return WindowLabels{
		Window:     fmt.Sprintf("last %d days", timeframeDays),
		Comparison: "period over period",
	}
}
