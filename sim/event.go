package sim

// IdlePID marks timeline events that belong to no process: CPU idle gaps and
// context-switch placeholders.
const IdlePID = -1

// ExecutionEvent records one contiguous CPU allocation as a half-open
// interval [Start, End). The ordered sequence of events is the ground truth
// from which idle time and switch overhead are derived.
type ExecutionEvent struct {
	ProcessID       int
	Start           int64
	End             int64
	IsContextSwitch bool
	Description     string
}

// Duration returns the length of the event interval.
func (e ExecutionEvent) Duration() int64 {
	return e.End - e.Start
}

// Timeline is the temporally monotonic sequence of execution events produced
// by one run.
type Timeline []ExecutionEvent

// BusyTime sums the durations of process execution events, excluding idle
// intervals and context-switch markers. For a completed run this equals the
// total burst time of all processes.
func (tl Timeline) BusyTime() int64 {
	var busy int64
	for _, ev := range tl {
		if !ev.IsContextSwitch && ev.ProcessID >= 0 {
			busy += ev.Duration()
		}
	}
	return busy
}

// IdleTime sums the time the CPU spent neither executing a process nor paying
// switch overhead: explicit idle events plus any gap not covered by an event.
func (tl Timeline) IdleTime() int64 {
	var idle, lastEnd int64
	for _, ev := range tl {
		if ev.Start > lastEnd {
			idle += ev.Start - lastEnd
		}
		if !ev.IsContextSwitch && ev.ProcessID < 0 {
			idle += ev.Duration()
		}
		if ev.End > lastEnd {
			lastEnd = ev.End
		}
	}
	return idle
}

// SwitchOverhead sums the durations of context-switch marker events.
func (tl Timeline) SwitchOverhead() int64 {
	var overhead int64
	for _, ev := range tl {
		if ev.IsContextSwitch {
			overhead += ev.Duration()
		}
	}
	return overhead
}

// IsMonotonic reports whether every event has non-negative duration and no
// event starts before the previous one ended.
func (tl Timeline) IsMonotonic() bool {
	var lastEnd int64
	for i, ev := range tl {
		if ev.End < ev.Start {
			return false
		}
		if i > 0 && ev.Start < lastEnd {
			return false
		}
		lastEnd = ev.End
	}
	return true
}
