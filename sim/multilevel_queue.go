package sim

import (
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/sirupsen/logrus"
)

// QueueClass identifies the workload class of one multilevel queue level.
type QueueClass string

const (
	QueueSystem      QueueClass = "system"
	QueueInteractive QueueClass = "interactive"
	QueueBatch       QueueClass = "batch"
)

// LevelConfig describes one queue level of the multilevel scheduler: its
// class, quantum, and preemption flag. The flag is part of queue identity
// but the execution loop itself is quantum-driven at every level.
type LevelConfig struct {
	Class      QueueClass
	Level      int
	Quantum    int64
	Preemptive bool
	Name       string
}

// MultilevelQueueScheduler assigns each process permanently to one queue by
// priority range at admission, runs strict priority across queues (a lower
// level must fully drain before a higher level runs), and round-robins within
// a queue at that queue's quantum.
type MultilevelQueueScheduler struct {
	*schedulerCore
	numQueues int
	levels    []LevelConfig
	queues    []*linkedlistqueue.Queue // per-level arena indices
}

// NewMultilevelQueueScheduler creates a multilevel queue policy. Level 0 is
// the system queue (half the base quantum), level 1 interactive (base
// quantum), and the remaining levels batch (double the base quantum,
// non-preemptive).
func NewMultilevelQueueScheduler(cfg SchedulerConfig) *MultilevelQueueScheduler {
	core := newSchedulerCore(cfg)
	n := core.config.NumQueues
	m := &MultilevelQueueScheduler{
		schedulerCore: core,
		numQueues:     n,
		levels:        make([]LevelConfig, n),
		queues:        make([]*linkedlistqueue.Queue, n),
	}

	base := core.config.TimeQuantum
	systemQuantum := base / 2
	if systemQuantum < 1 {
		systemQuantum = 1
	}
	m.levels[0] = LevelConfig{Class: QueueSystem, Level: 0, Quantum: systemQuantum, Preemptive: true, Name: "System"}
	if n > 1 {
		m.levels[1] = LevelConfig{Class: QueueInteractive, Level: 1, Quantum: base, Preemptive: true, Name: "Interactive"}
	}
	for i := 2; i < n; i++ {
		m.levels[i] = LevelConfig{Class: QueueBatch, Level: i, Quantum: base * 2, Preemptive: false, Name: fmt.Sprintf("Batch-%d", i-1)}
	}
	for i := range m.queues {
		m.queues[i] = linkedlistqueue.New()
	}
	return m
}

func (m *MultilevelQueueScheduler) Name() string        { return "Multilevel Queue" }
func (m *MultilevelQueueScheduler) Type() SchedulerType { return MultilevelQueue }

// Levels returns the per-queue configuration.
func (m *MultilevelQueueScheduler) Levels() []LevelConfig { return m.levels }

// Reset restores the policy and all processes to the pre-run state.
func (m *MultilevelQueueScheduler) Reset() {
	m.resetCore()
	for _, q := range m.queues {
		q.Clear()
	}
	for _, p := range m.procs {
		p.QueueLevel = m.assignQueue(p)
	}
}

// assignQueue maps a priority to its permanent queue: priority 0-2 system,
// 3-5 interactive, everything else batch (clamped to the last queue).
func (m *MultilevelQueueScheduler) assignQueue(p *Process) int {
	switch {
	case p.Priority <= 2:
		return 0
	case p.Priority <= 5 && m.numQueues > 1:
		return 1
	default:
		q := 2
		if q > m.numQueues-1 {
			q = m.numQueues - 1
		}
		return q
	}
}

// AddProcess appends a process and records its permanent queue assignment.
func (m *MultilevelQueueScheduler) AddProcess(p *Process) {
	m.schedulerCore.AddProcess(p)
	p.QueueLevel = m.assignQueue(p)
}

// AddProcesses appends all given processes with their queue assignments.
func (m *MultilevelQueueScheduler) AddProcesses(procs []*Process) {
	for _, p := range procs {
		m.AddProcess(p)
	}
}

// activeQueue returns the lowest-numbered non-empty queue, -1 when all are
// empty. Strict priority: no higher-numbered queue runs while this one holds
// any process.
func (m *MultilevelQueueScheduler) activeQueue() int {
	for i, q := range m.queues {
		if !q.Empty() {
			return i
		}
	}
	return -1
}

// NextProcess returns the front of the highest-priority non-empty queue.
func (m *MultilevelQueueScheduler) NextProcess() *Process {
	q := m.activeQueue()
	if q == -1 {
		return nil
	}
	v, _ := m.queues[q].Peek()
	return m.procs[v.(int)]
}

// enqueueArrivals admits NEW processes whose arrival time has been reached
// into their permanently assigned queue.
func (m *MultilevelQueueScheduler) enqueueArrivals() {
	for i, p := range m.procs {
		if p.State == StateNew && p.ArrivalTime <= m.clock {
			p.State = StateReady
			m.queues[p.QueueLevel].Enqueue(i)
			logrus.Debugf("[tick %d] arrival: %s -> %s queue", m.clock, p.Name, m.levels[p.QueueLevel].Name)
		}
	}
}

// Run executes the multilevel queue simulation to completion.
func (m *MultilevelQueueScheduler) Run() {
	m.Reset()
	if len(m.procs) == 0 {
		m.computeMetrics()
		return
	}
	logrus.Infof("running %s over %d processes (%d queues)", m.Name(), len(m.procs), m.numQueues)

	for !m.IsComplete() {
		m.enqueueArrivals()

		active := m.activeQueue()
		if active == -1 {
			if !m.idleUntilNextArrival() {
				break
			}
			continue
		}

		v, _ := m.queues[active].Dequeue()
		idx := v.(int)
		p := m.procs[idx]
		if p.State != StateReady {
			continue
		}

		m.contextSwitch(m.lastRunning, p)
		m.markStarted(p)
		p.State = StateRunning

		start := m.clock
		ran := p.Execute(m.levels[active].Quantum)
		m.clock += ran
		m.recordEvent(p.PID, start, m.clock, false, fmt.Sprintf("run %s [%s]", p.Name, m.levels[active].Name))

		m.enqueueArrivals()
		m.creditWaiting(ran, p)

		if p.IsCompleted() {
			m.finish(p)
		} else {
			// Quantum expired: back to the same queue, assignment never changes.
			p.State = StateReady
			m.queues[active].Enqueue(idx)
		}
		m.lastRunning = p
	}

	m.computeMetrics()
}
