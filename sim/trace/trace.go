// Package trace records simulation outputs for offline analysis: per-run
// timeline and per-process CSV files, and a cross-policy comparison summary.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sched-sim/sched-sim/sim"
)

// RunRecord captures one policy run's outputs.
type RunRecord struct {
	Algorithm string
	Metrics   *sim.Metrics
	Timeline  sim.Timeline
	Processes []*sim.Process
}

// SimulationTrace collects run records across a comparison session.
type SimulationTrace struct {
	Runs []RunRecord
}

// NewSimulationTrace creates an empty trace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{Runs: make([]RunRecord, 0)}
}

// RecordRun appends one run's outputs.
func (st *SimulationTrace) RecordRun(record RunRecord) {
	st.Runs = append(st.Runs, record)
}

// RecordResult appends a comparison-driver result.
func (st *SimulationTrace) RecordResult(res sim.SimulationResult) {
	st.RecordRun(RunRecord{
		Algorithm: res.Name,
		Metrics:   res.Metrics,
		Timeline:  res.Timeline,
		Processes: res.Processes,
	})
}

// WriteTimelineCSV writes one run's ordered execution timeline.
func WriteTimelineCSV(w io.Writer, record RunRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"algorithm", "pid", "start", "end", "context_switch", "description"}); err != nil {
		return fmt.Errorf("write timeline header: %w", err)
	}
	for _, ev := range record.Timeline {
		row := []string{
			record.Algorithm,
			strconv.Itoa(ev.ProcessID),
			strconv.FormatInt(ev.Start, 10),
			strconv.FormatInt(ev.End, 10),
			strconv.FormatBool(ev.IsContextSwitch),
			ev.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write timeline row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProcessCSV writes one run's per-process final stats.
func WriteProcessCSV(w io.Writer, record RunRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"algorithm", "pid", "name", "priority", "burst", "arrival",
		"waiting", "turnaround", "response", "completion"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write process header: %w", err)
	}
	for _, p := range record.Processes {
		row := []string{
			record.Algorithm,
			strconv.Itoa(p.PID),
			p.Name,
			strconv.Itoa(p.Priority),
			strconv.FormatInt(p.BurstTime, 10),
			strconv.FormatInt(p.ArrivalTime, 10),
			strconv.FormatInt(p.WaitingTime, 10),
			strconv.FormatInt(p.TurnaroundTime, 10),
			strconv.FormatInt(p.ResponseTime, 10),
			strconv.FormatInt(p.CompletionTime, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write process row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one aggregate-metrics row per recorded run, for
// side-by-side policy comparison.
func (st *SimulationTrace) WriteSummaryCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"algorithm", "process_count", "avg_waiting", "avg_turnaround", "avg_response",
		"cpu_utilization", "throughput", "context_switches", "switch_overhead", "total_time", "idle_time"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, run := range st.Runs {
		m := run.Metrics
		row := []string{
			run.Algorithm,
			strconv.Itoa(m.ProcessCount),
			strconv.FormatFloat(m.AvgWaitingTime, 'f', 2, 64),
			strconv.FormatFloat(m.AvgTurnaroundTime, 'f', 2, 64),
			strconv.FormatFloat(m.AvgResponseTime, 'f', 2, 64),
			strconv.FormatFloat(m.CPUUtilization, 'f', 2, 64),
			strconv.FormatFloat(m.Throughput, 'f', 4, 64),
			strconv.Itoa(m.TotalContextSwitches),
			strconv.FormatInt(m.ContextSwitchOverhead, 10),
			strconv.FormatInt(m.TotalExecutionTime, 10),
			strconv.FormatInt(m.TotalIdleTime, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
