package sim

import (
	"testing"
)

// sampleTimeline: P1 runs [0,4), switch [4,5), P2 runs [5,8),
// explicit idle [8,12), P1 runs [12,14).
func sampleTimeline() Timeline {
	return Timeline{
		{ProcessID: 1, Start: 0, End: 4},
		{ProcessID: IdlePID, Start: 4, End: 5, IsContextSwitch: true},
		{ProcessID: 2, Start: 5, End: 8},
		{ProcessID: IdlePID, Start: 8, End: 12},
		{ProcessID: 1, Start: 12, End: 14},
	}
}

func TestTimeline_BusyTime(t *testing.T) {
	if got := sampleTimeline().BusyTime(); got != 9 {
		t.Errorf("BusyTime: got %d, want 9", got)
	}
}

func TestTimeline_IdleTime_ExplicitEvents(t *testing.T) {
	// switch interval is overhead, not idle
	if got := sampleTimeline().IdleTime(); got != 4 {
		t.Errorf("IdleTime: got %d, want 4", got)
	}
}

func TestTimeline_IdleTime_UncoveredGap(t *testing.T) {
	// GIVEN a timeline with an unrecorded gap between process events
	tl := Timeline{
		{ProcessID: 1, Start: 0, End: 3},
		{ProcessID: 2, Start: 7, End: 9},
	}
	if got := tl.IdleTime(); got != 4 {
		t.Errorf("IdleTime: got %d, want 4", got)
	}
}

func TestTimeline_SwitchOverhead(t *testing.T) {
	if got := sampleTimeline().SwitchOverhead(); got != 1 {
		t.Errorf("SwitchOverhead: got %d, want 1", got)
	}
}

func TestTimeline_Accounting_CoversFullSpan(t *testing.T) {
	tl := sampleTimeline()
	span := tl[len(tl)-1].End - tl[0].Start
	if got := tl.BusyTime() + tl.IdleTime() + tl.SwitchOverhead(); got != span {
		t.Errorf("busy+idle+overhead = %d, want full span %d", got, span)
	}
}

func TestTimeline_IsMonotonic(t *testing.T) {
	if !sampleTimeline().IsMonotonic() {
		t.Error("well-formed timeline reported non-monotonic")
	}

	overlapping := Timeline{
		{ProcessID: 1, Start: 0, End: 5},
		{ProcessID: 2, Start: 3, End: 8},
	}
	if overlapping.IsMonotonic() {
		t.Error("overlapping timeline reported monotonic")
	}

	negative := Timeline{{ProcessID: 1, Start: 5, End: 2}}
	if negative.IsMonotonic() {
		t.Error("negative-duration event reported monotonic")
	}

	if !(Timeline{}).IsMonotonic() {
		t.Error("empty timeline reported non-monotonic")
	}
}

func TestExecutionEvent_Duration(t *testing.T) {
	ev := ExecutionEvent{ProcessID: 1, Start: 3, End: 10}
	if ev.Duration() != 7 {
		t.Errorf("Duration: got %d, want 7", ev.Duration())
	}
}
