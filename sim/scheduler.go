package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// SchedulerType identifies a scheduling policy.
type SchedulerType string

const (
	RoundRobin              SchedulerType = "round-robin"
	PriorityPreemptive      SchedulerType = "priority-preemptive"
	PriorityNonPreemptive   SchedulerType = "priority-nonpreemptive"
	MultilevelQueue         SchedulerType = "multilevel-queue"
	MultilevelFeedbackQueue SchedulerType = "multilevel-feedback-queue"
)

// AllSchedulerTypes lists every policy, in comparison-run order.
var AllSchedulerTypes = []SchedulerType{
	RoundRobin,
	PriorityPreemptive,
	PriorityNonPreemptive,
	MultilevelQueue,
	MultilevelFeedbackQueue,
}

// Policy is a scheduling algorithm over a shared process arena. A policy
// drives its own run loop to completion: Run blocks until every process has
// terminated, populating the timeline and the metrics snapshot.
//
// Implementations are single-threaded; the policy owns its arena and timeline
// exclusively for the duration of Run.
type Policy interface {
	// Run executes the full simulation. With zero processes it returns
	// immediately, leaving an all-zero metrics snapshot.
	Run()
	// NextProcess returns the process the policy would dispatch next,
	// or nil when nothing is ready.
	NextProcess() *Process
	Name() string
	Type() SchedulerType
	// Reset restores the policy and every process to the pre-run state.
	Reset()

	AddProcess(p *Process)
	AddProcesses(procs []*Process)
	ClearProcesses()
	Processes() []*Process
	Timeline() Timeline
	Metrics() *Metrics
	CurrentTime() int64
	ContextSwitches() int
	ReadySnapshot() []*Process
}

// NewPolicy constructs a policy of the given type.
// The configuration is normalized; construction never fails on config values.
func NewPolicy(t SchedulerType, cfg SchedulerConfig) (Policy, error) {
	switch t {
	case RoundRobin:
		return NewRoundRobinScheduler(cfg), nil
	case PriorityPreemptive:
		return NewPriorityScheduler(true, cfg), nil
	case PriorityNonPreemptive:
		return NewPriorityScheduler(false, cfg), nil
	case MultilevelQueue:
		return NewMultilevelQueueScheduler(cfg), nil
	case MultilevelFeedbackQueue:
		return NewMultilevelFeedbackQueueScheduler(cfg), nil
	default:
		return nil, fmt.Errorf("unknown scheduler type %q", t)
	}
}

// schedulerCore holds the state and services shared by every policy: the
// process arena, the execution timeline, the virtual clock, and the
// context-switch accounting. Policies embed it and add their own queues.
//
// Queues always hold indices into the arena, never process copies.
type schedulerCore struct {
	procs    []*Process
	timeline Timeline
	config   SchedulerConfig
	metrics  *Metrics

	clock           int64
	contextSwitches int
	lastRunning     *Process
}

func newSchedulerCore(cfg SchedulerConfig) *schedulerCore {
	return &schedulerCore{
		config:  cfg.normalized(),
		metrics: NewMetrics(),
	}
}

// AddProcess appends a process to the arena.
func (c *schedulerCore) AddProcess(p *Process) {
	c.procs = append(c.procs, p)
}

// AddProcesses appends all given processes to the arena.
func (c *schedulerCore) AddProcesses(procs []*Process) {
	for _, p := range procs {
		c.AddProcess(p)
	}
}

// ClearProcesses empties the arena.
func (c *schedulerCore) ClearProcesses() {
	c.procs = nil
}

// Processes returns the arena.
func (c *schedulerCore) Processes() []*Process { return c.procs }

// Timeline returns the ordered execution timeline of the last run.
func (c *schedulerCore) Timeline() Timeline { return c.timeline }

// Metrics returns the metrics snapshot of the last run.
func (c *schedulerCore) Metrics() *Metrics { return c.metrics }

// CurrentTime returns the virtual clock value.
func (c *schedulerCore) CurrentTime() int64 { return c.clock }

// ContextSwitches returns the context-switch count of the last run.
func (c *schedulerCore) ContextSwitches() int { return c.contextSwitches }

// Config returns the normalized configuration.
func (c *schedulerCore) Config() SchedulerConfig { return c.config }

// resetCore restores the shared state and every process to pre-run condition.
func (c *schedulerCore) resetCore() {
	c.timeline = nil
	c.metrics.Reset()
	c.clock = 0
	c.contextSwitches = 0
	c.lastRunning = nil
	for _, p := range c.procs {
		p.Reset()
	}
}

// admitArrivals moves every NEW process whose arrival time has been reached
// into READY.
func (c *schedulerCore) admitArrivals(now int64) {
	for _, p := range c.procs {
		if p.State == StateNew && p.ArrivalTime <= now {
			p.State = StateReady
			logrus.Debugf("[tick %d] arrival: %s", now, p.Name)
		}
	}
}

// recordEvent appends one timeline event.
func (c *schedulerCore) recordEvent(pid int, start, end int64, isSwitch bool, desc string) {
	c.timeline = append(c.timeline, ExecutionEvent{
		ProcessID:       pid,
		Start:           start,
		End:             end,
		IsContextSwitch: isSwitch,
		Description:     desc,
	})
}

// chargeSwitchTime records a context-switch marker, advances the clock by the
// configured switch cost, and credits the elapsed time to every ready
// process. It does not touch the switch counter.
func (c *schedulerCore) chargeSwitchTime(desc string) {
	cost := c.config.ContextSwitchTime
	c.recordEvent(IdlePID, c.clock, c.clock+cost, true, desc)
	c.clock += cost
	c.creditWaiting(cost, nil)
}

// contextSwitch accounts one switch between two distinct processes: it
// increments the switch counter, records a marker event, and advances the
// clock by the configured switch cost. A nil endpoint or a switch to the
// same process is a no-op.
func (c *schedulerCore) contextSwitch(from, to *Process) {
	if from == nil || to == nil || from.PID == to.PID {
		return
	}
	c.contextSwitches++
	c.chargeSwitchTime("context switch")
	logrus.Debugf("[tick %d] context switch %s -> %s", c.clock, from.Name, to.Name)
}

// creditWaiting adds elapsed CPU time to the waiting total of every waiting
// process other than except. A NEW process that has already arrived counts as
// waiting even before its policy admits it, so arrivals that land inside a
// switch window lose nothing. The credit is clamped so a process that arrived
// mid-interval is only charged for the portion it actually spent waiting.
func (c *schedulerCore) creditWaiting(elapsed int64, except *Process) {
	if elapsed <= 0 {
		return
	}
	for _, p := range c.procs {
		if p == except || p.ArrivalTime > c.clock {
			continue
		}
		if p.State != StateReady && p.State != StateNew {
			continue
		}
		credit := minInt64(elapsed, c.clock-p.ArrivalTime)
		if credit > 0 {
			p.WaitingTime += credit
		}
	}
}

// markStarted records the response time on a process's first dispatch.
func (c *schedulerCore) markStarted(p *Process) {
	if !p.HasStarted {
		p.ResponseTime = c.clock - p.ArrivalTime
		p.HasStarted = true
	}
}

// finish terminates a process at the current clock, writing its completion
// and turnaround times exactly once.
func (c *schedulerCore) finish(p *Process) {
	p.State = StateTerminated
	p.CompletionTime = c.clock
	p.TurnaroundTime = c.clock - p.ArrivalTime
	logrus.Debugf("[tick %d] terminated: %s (turnaround %d)", c.clock, p.Name, p.TurnaroundTime)
}

// nextArrival returns the earliest arrival time strictly after the clock
// among processes that have not yet entered the system.
func (c *schedulerCore) nextArrival() (int64, bool) {
	var next int64
	found := false
	for _, p := range c.procs {
		if p.State != StateNew || p.ArrivalTime <= c.clock {
			continue
		}
		if !found || p.ArrivalTime < next {
			next = p.ArrivalTime
			found = true
		}
	}
	return next, found
}

// idleUntilNextArrival records an idle event and jumps the clock to the next
// pending arrival. It returns false when no future arrival exists.
func (c *schedulerCore) idleUntilNextArrival() bool {
	next, ok := c.nextArrival()
	if !ok {
		return false
	}
	c.recordEvent(IdlePID, c.clock, next, false, "CPU idle")
	logrus.Debugf("[tick %d] CPU idle until %d", c.clock, next)
	c.clock = next
	return true
}

// IsComplete reports whether every process in the arena has terminated.
func (c *schedulerCore) IsComplete() bool {
	for _, p := range c.procs {
		if p.State != StateTerminated {
			return false
		}
	}
	return true
}

// ReadySnapshot returns the currently-ready processes in natural priority
// order, for display during or after a run.
func (c *schedulerCore) ReadySnapshot() []*Process {
	var ready []*Process
	for _, p := range c.procs {
		if p.State == StateReady {
			ready = append(ready, p)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Less(ready[j])
	})
	return ready
}

// computeMetrics walks the arena and the timeline, collecting the per-process
// arrays and deriving utilization and throughput at the final clock value.
func (c *schedulerCore) computeMetrics() {
	c.metrics.Reset()
	for _, p := range c.procs {
		c.metrics.AddWaitingTime(p.WaitingTime)
		c.metrics.AddTurnaroundTime(p.TurnaroundTime)
		c.metrics.AddResponseTime(p.ResponseTime)
	}
	c.metrics.CalculateAverages()
	c.metrics.TotalContextSwitches = c.contextSwitches
	idle := c.timeline.IdleTime()
	// Overhead comes from the timeline, not switches*cost: some policies
	// count preemptions that consumed no switch time.
	overhead := c.timeline.SwitchOverhead()
	c.metrics.CalculateUtilization(c.clock, idle, overhead)
	c.metrics.CalculateThroughput(c.clock)
}
