package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	sim "github.com/sched-sim/sched-sim/sim"
)

// maxGanttWidth caps the bar area so wide timelines stay readable.
const maxGanttWidth = 100

// RenderGantt draws the execution timeline as a text Gantt chart. Each event
// becomes a bar scaled to its duration; context switches render as hatching
// and idle spans as dots.
func RenderGantt(w io.Writer, name string, timeline sim.Timeline) {
	fmt.Fprintf(w, "\n%s timeline\n", name)
	if len(timeline) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}

	span := timeline[len(timeline)-1].End - timeline[0].Start
	scale := 1.0
	if span > maxGanttWidth {
		scale = float64(maxGanttWidth) / float64(span)
	}

	for _, ev := range timeline {
		width := int(float64(ev.Duration()) * scale)
		if width < 1 {
			width = 1
		}
		var label, bar string
		switch {
		case ev.IsContextSwitch:
			label = "switch"
			bar = strings.Repeat("/", width)
		case ev.ProcessID == sim.IdlePID:
			label = "idle"
			bar = strings.Repeat(".", width)
		default:
			label = fmt.Sprintf("P%d", ev.ProcessID)
			bar = strings.Repeat("#", width)
		}
		fmt.Fprintf(w, "  %-8s |%s| %d-%d\n", label, bar, ev.Start, ev.End)
	}
}

// RenderProcessTable prints per-process final statistics.
func RenderProcessTable(w io.Writer, procs []*sim.Process) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nPID\tName\tPriority\tBurst\tArrival\tWaiting\tTurnaround\tResponse\tCompletion")
	for _, p := range procs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			p.PID, p.Name, p.Priority, p.BurstTime, p.ArrivalTime,
			p.WaitingTime, p.TurnaroundTime, p.ResponseTime, p.CompletionTime)
	}
	tw.Flush()
}

// RenderComparisonTable prints one summary row per policy run.
func RenderComparisonTable(w io.Writer, results []sim.SimulationResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nAlgorithm\tAvgWait\tAvgTurnaround\tAvgResponse\tUtilization\tThroughput\tSwitches")
	for _, res := range results {
		m := res.Metrics
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f%%\t%.4f\t%d\n",
			res.Name, m.AvgWaitingTime, m.AvgTurnaroundTime, m.AvgResponseTime,
			m.CPUUtilization, m.Throughput, m.TotalContextSwitches)
	}
	tw.Flush()
}
