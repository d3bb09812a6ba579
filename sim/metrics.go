// Tracks per-run performance metrics derived from finished processes and the
// execution timeline: averages, CPU utilization, throughput, and the raw
// per-process arrays kept for variance and min/max reporting.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Metrics is a snapshot of one run's aggregate statistics. It is computed
// strictly after the run completes; every recompute goes through the same
// Calculate* path.
type Metrics struct {
	AvgWaitingTime    float64
	AvgTurnaroundTime float64
	AvgResponseTime   float64
	CPUUtilization    float64 // percent
	Throughput        float64 // processes per time unit

	TotalExecutionTime    int64
	TotalIdleTime         int64
	TotalContextSwitches  int
	ContextSwitchOverhead int64
	ProcessCount          int

	WaitingTimes    []int64
	TurnaroundTimes []int64
	ResponseTimes   []int64
}

// NewMetrics returns a zeroed metrics snapshot.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Reset clears all aggregates and collected per-process samples.
func (m *Metrics) Reset() {
	*m = Metrics{}
}

// AddWaitingTime records one process's waiting time.
func (m *Metrics) AddWaitingTime(t int64) {
	m.WaitingTimes = append(m.WaitingTimes, t)
}

// AddTurnaroundTime records one process's turnaround time.
func (m *Metrics) AddTurnaroundTime(t int64) {
	m.TurnaroundTimes = append(m.TurnaroundTimes, t)
}

// AddResponseTime records one process's response time.
func (m *Metrics) AddResponseTime(t int64) {
	m.ResponseTimes = append(m.ResponseTimes, t)
}

// CalculateAverages derives the per-run means from the collected arrays.
// The process count is the size of the waiting-time array.
func (m *Metrics) CalculateAverages() {
	m.ProcessCount = len(m.WaitingTimes)
	if m.ProcessCount == 0 {
		return
	}
	m.AvgWaitingTime = stat.Mean(toFloats(m.WaitingTimes), nil)
	m.AvgTurnaroundTime = stat.Mean(toFloats(m.TurnaroundTimes), nil)
	m.AvgResponseTime = stat.Mean(toFloats(m.ResponseTimes), nil)
}

// CalculateUtilization derives CPU utilization as the busy fraction of the
// total run: (total - idle - switch overhead) / total, as a percentage.
// A run of zero length has zero utilization.
func (m *Metrics) CalculateUtilization(totalTime, idleTime, switchOverhead int64) {
	m.TotalExecutionTime = totalTime
	m.TotalIdleTime = idleTime
	m.ContextSwitchOverhead = switchOverhead
	if totalTime > 0 {
		useful := totalTime - idleTime - switchOverhead
		m.CPUUtilization = float64(useful) / float64(totalTime) * 100.0
	}
}

// CalculateThroughput derives completed processes per time unit.
func (m *Metrics) CalculateThroughput(totalTime int64) {
	if totalTime > 0 {
		m.Throughput = float64(m.ProcessCount) / float64(totalTime)
	}
}

// WaitingTimeVariance returns the sample variance (N-1 denominator) of the
// collected waiting times, 0 with fewer than two samples.
func (m *Metrics) WaitingTimeVariance() float64 {
	return sampleVariance(m.WaitingTimes)
}

// TurnaroundTimeVariance returns the sample variance of the turnaround times.
func (m *Metrics) TurnaroundTimeVariance() float64 {
	return sampleVariance(m.TurnaroundTimes)
}

// MinWaitingTime returns the smallest collected waiting time, 0 when empty.
func (m *Metrics) MinWaitingTime() int64 {
	return minInt64s(m.WaitingTimes)
}

// MaxWaitingTime returns the largest collected waiting time, 0 when empty.
func (m *Metrics) MaxWaitingTime() int64 {
	return maxInt64s(m.WaitingTimes)
}

// Print displays the metrics report at the end of a run.
func (m *Metrics) Print(name string) {
	fmt.Printf("=== %s Metrics ===\n", name)
	fmt.Printf("Process Count           : %d\n", m.ProcessCount)
	fmt.Printf("Total Execution Time    : %d ticks\n", m.TotalExecutionTime)
	fmt.Printf("Average Waiting Time    : %.2f ticks\n", m.AvgWaitingTime)
	fmt.Printf("Average Turnaround Time : %.2f ticks\n", m.AvgTurnaroundTime)
	fmt.Printf("Average Response Time   : %.2f ticks\n", m.AvgResponseTime)
	fmt.Printf("CPU Utilization         : %.2f %%\n", m.CPUUtilization)
	fmt.Printf("Throughput              : %.4f proc/tick\n", m.Throughput)
	fmt.Printf("Context Switches        : %d\n", m.TotalContextSwitches)
	fmt.Printf("Switch Overhead         : %d ticks\n", m.ContextSwitchOverhead)
	fmt.Printf("Total Idle Time         : %d ticks\n", m.TotalIdleTime)
	if m.ProcessCount > 1 {
		fmt.Printf("Waiting Time            : min=%d max=%d variance=%.2f\n",
			m.MinWaitingTime(), m.MaxWaitingTime(), m.WaitingTimeVariance())
	}
}
