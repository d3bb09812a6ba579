package sim

import (
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/sirupsen/logrus"
)

// RoundRobinScheduler dispatches from a single FIFO queue, preempting each
// process after one quantum and requeueing it at the back. Simultaneous
// arrivals keep their insertion order.
type RoundRobinScheduler struct {
	*schedulerCore
	quantum int64
	queue   *linkedlistqueue.Queue // arena indices
}

// NewRoundRobinScheduler creates a Round Robin policy with the configured
// base quantum.
func NewRoundRobinScheduler(cfg SchedulerConfig) *RoundRobinScheduler {
	core := newSchedulerCore(cfg)
	return &RoundRobinScheduler{
		schedulerCore: core,
		quantum:       core.config.TimeQuantum,
		queue:         linkedlistqueue.New(),
	}
}

func (rr *RoundRobinScheduler) Name() string        { return "Round Robin" }
func (rr *RoundRobinScheduler) Type() SchedulerType { return RoundRobin }

// Reset restores the policy and all processes to the pre-run state.
func (rr *RoundRobinScheduler) Reset() {
	rr.resetCore()
	rr.queue.Clear()
}

// NextProcess returns the front of the ready queue without dequeueing it.
func (rr *RoundRobinScheduler) NextProcess() *Process {
	v, ok := rr.queue.Peek()
	if !ok {
		return nil
	}
	return rr.procs[v.(int)]
}

// inQueue reports whether the arena index is already enqueued.
func (rr *RoundRobinScheduler) inQueue(idx int) bool {
	for _, v := range rr.queue.Values() {
		if v.(int) == idx {
			return true
		}
	}
	return false
}

// fillQueue admits every ready, arrived, unfinished process that is not yet
// queued, skipping duplicates and the currently-dispatched index.
func (rr *RoundRobinScheduler) fillQueue(exclude int) {
	for i, p := range rr.procs {
		if i == exclude || p.State != StateReady || p.ArrivalTime > rr.clock || p.IsCompleted() {
			continue
		}
		if !rr.inQueue(i) {
			rr.queue.Enqueue(i)
		}
	}
}

// Run executes the Round Robin simulation to completion.
func (rr *RoundRobinScheduler) Run() {
	rr.Reset()
	if len(rr.procs) == 0 {
		rr.computeMetrics()
		return
	}
	logrus.Infof("running %s over %d processes (quantum %d)", rr.Name(), len(rr.procs), rr.quantum)

	rr.admitArrivals(rr.clock)
	rr.fillQueue(-1)

	for !rr.IsComplete() {
		rr.admitArrivals(rr.clock)
		rr.fillQueue(-1)

		if rr.queue.Empty() {
			if !rr.idleUntilNextArrival() {
				break
			}
			continue
		}

		v, _ := rr.queue.Dequeue()
		idx := v.(int)
		p := rr.procs[idx]
		if p.IsCompleted() {
			continue
		}

		rr.contextSwitch(rr.lastRunning, p)
		rr.markStarted(p)
		p.State = StateRunning

		start := rr.clock
		ran := p.Execute(minInt64(rr.quantum, p.RemainingTime))
		rr.clock += ran
		rr.recordEvent(p.PID, start, rr.clock, false, fmt.Sprintf("run %s", p.Name))

		rr.admitArrivals(rr.clock)
		rr.creditWaiting(ran, p)
		rr.fillQueue(idx)

		if p.IsCompleted() {
			rr.finish(p)
			// waiting is the exact ready-queue residence for a completed process
			p.WaitingTime = p.TurnaroundTime - p.BurstTime
		} else {
			p.State = StateReady
			rr.queue.Enqueue(idx)
		}
		rr.lastRunning = p
	}

	rr.computeMetrics()
}
