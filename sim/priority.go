package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PriorityScheduler dispatches the ready process with the lowest priority
// value. In non-preemptive mode a dispatched process runs to completion in
// one slice; in preemptive mode it runs PreemptionSlice units at a time and
// yields whenever a strictly more urgent process becomes ready.
//
// Optional aging boosts the priority of processes that have waited beyond
// the configured threshold, preventing starvation.
type PriorityScheduler struct {
	*schedulerCore
	preemptive     bool
	agingEnabled   bool
	agingThreshold int64
	slice          int64

	waitingSince map[int]int64 // pid -> clock stamp of the current unboosted wait
	current      int           // arena index of the running process, -1 when none
}

// NewPriorityScheduler creates a priority policy in preemptive or
// non-preemptive mode.
func NewPriorityScheduler(preemptive bool, cfg SchedulerConfig) *PriorityScheduler {
	core := newSchedulerCore(cfg)
	return &PriorityScheduler{
		schedulerCore:  core,
		preemptive:     preemptive,
		agingEnabled:   core.config.AgingEnabled,
		agingThreshold: core.config.AgingThreshold,
		slice:          core.config.PreemptionSlice,
		waitingSince:   make(map[int]int64),
		current:        -1,
	}
}

func (ps *PriorityScheduler) Name() string {
	if ps.preemptive {
		return "Priority (Preemptive)"
	}
	return "Priority (Non-Preemptive)"
}

func (ps *PriorityScheduler) Type() SchedulerType {
	if ps.preemptive {
		return PriorityPreemptive
	}
	return PriorityNonPreemptive
}

// Reset restores the policy and all processes to the pre-run state.
func (ps *PriorityScheduler) Reset() {
	ps.resetCore()
	ps.waitingSince = make(map[int]int64)
	ps.current = -1
}

// NextProcess returns the ready process the policy would dispatch next.
func (ps *PriorityScheduler) NextProcess() *Process {
	if idx := ps.findHighestPriority(); idx != -1 {
		return ps.procs[idx]
	}
	return nil
}

// findHighestPriority scans the ready, arrived processes for the minimum
// priority value, breaking ties by earlier arrival and then lower PID.
func (ps *PriorityScheduler) findHighestPriority() int {
	best := -1
	for i, p := range ps.procs {
		if p.State != StateReady || p.ArrivalTime > ps.clock {
			continue
		}
		if best == -1 || p.Less(ps.procs[best]) {
			best = i
		}
	}
	return best
}

// applyAging boosts any ready process whose unboosted wait has reached the
// threshold: its priority value drops by one (floor 0) and its wait stamp
// resets.
func (ps *PriorityScheduler) applyAging() {
	if !ps.agingEnabled {
		return
	}
	for _, p := range ps.procs {
		if p.State != StateReady {
			continue
		}
		since, ok := ps.waitingSince[p.PID]
		if !ok {
			ps.waitingSince[p.PID] = ps.clock
			continue
		}
		if ps.clock-since >= ps.agingThreshold && p.Priority > 0 {
			p.Priority--
			ps.waitingSince[p.PID] = ps.clock
			logrus.Debugf("[tick %d] aging boost: %s now priority %d", ps.clock, p.Name, p.Priority)
		}
	}
}

// preemptCurrent returns the running process to READY and hands the CPU back
// to the selection loop. The switch counter records the preemption.
func (ps *PriorityScheduler) preemptCurrent() {
	p := ps.procs[ps.current]
	p.State = StateReady
	ps.waitingSince[p.PID] = ps.clock
	ps.contextSwitches++
	ps.current = -1
	logrus.Debugf("[tick %d] preempted: %s", ps.clock, p.Name)
}

// Run executes the priority simulation to completion.
func (ps *PriorityScheduler) Run() {
	ps.Reset()
	if len(ps.procs) == 0 {
		ps.computeMetrics()
		return
	}
	logrus.Infof("running %s over %d processes", ps.Name(), len(ps.procs))

	for !ps.IsComplete() {
		// Admit arrivals; in preemptive mode a more urgent arrival takes the CPU.
		for _, p := range ps.procs {
			if p.State != StateNew || p.ArrivalTime > ps.clock {
				continue
			}
			p.State = StateReady
			if ps.preemptive && ps.current != -1 && p.Priority < ps.procs[ps.current].Priority {
				ps.preemptCurrent()
			}
		}

		ps.applyAging()

		if ps.current == -1 {
			idx := ps.findHighestPriority()
			if idx == -1 {
				if !ps.idleUntilNextArrival() {
					break
				}
				continue
			}
			p := ps.procs[idx]
			if ps.lastRunning != nil && ps.lastRunning.PID != p.PID {
				ps.chargeSwitchTime("context switch")
			}
			ps.markStarted(p)
			p.State = StateRunning
			delete(ps.waitingSince, p.PID)
			ps.current = idx
		}

		cur := ps.procs[ps.current]
		sliceLen := cur.RemainingTime
		if ps.preemptive {
			sliceLen = ps.slice
		}
		start := ps.clock
		ran := cur.Execute(sliceLen)
		ps.clock += ran
		ps.recordEvent(cur.PID, start, ps.clock, false, fmt.Sprintf("run %s", cur.Name))

		ps.admitArrivals(ps.clock)
		ps.creditWaiting(ran, cur)
		ps.lastRunning = cur

		if cur.IsCompleted() {
			ps.finish(cur)
			ps.current = -1
		} else if ps.preemptive {
			// Re-evaluate: a strictly more urgent process may now be ready.
			if idx := ps.findHighestPriority(); idx != -1 && ps.procs[idx].Priority < cur.Priority {
				ps.preemptCurrent()
			}
		}
	}

	ps.computeMetrics()
}
