package sim

import (
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/sirupsen/logrus"
)

// boostIntervalFactor scales the aging threshold into the MLFQ global boost
// period.
const boostIntervalFactor = 5

// MultilevelFeedbackQueueScheduler runs N queues with exponentially
// increasing quantums. Every process enters at queue 0; exhausting a full
// quantum without finishing demotes it one level (capped at the last queue).
// A periodic global priority boost returns every live process to queue 0 —
// the sole starvation-prevention mechanism.
type MultilevelFeedbackQueueScheduler struct {
	*schedulerCore
	numQueues     int
	quantums      []int64
	agingEnabled  bool
	boostInterval int64
	lastBoost     int64

	queues []*linkedlistqueue.Queue // per-level arena indices
	// set when the last dispatch ended in a quantum-expiry charge, so the
	// next dispatch does not charge the same scheduler pass twice
	expiryCharged bool
}

// NewMultilevelFeedbackQueueScheduler creates an MLFQ policy. Quantums
// default to quantum[0] = base and quantum[i] = quantum[i-1] * 2, with
// explicit per-level overrides from the configuration taking precedence.
func NewMultilevelFeedbackQueueScheduler(cfg SchedulerConfig) *MultilevelFeedbackQueueScheduler {
	core := newSchedulerCore(cfg)
	n := core.config.NumQueues
	m := &MultilevelFeedbackQueueScheduler{
		schedulerCore: core,
		numQueues:     n,
		quantums:      make([]int64, n),
		agingEnabled:  core.config.AgingEnabled,
		boostInterval: core.config.AgingThreshold * boostIntervalFactor,
		queues:        make([]*linkedlistqueue.Queue, n),
	}

	m.quantums[0] = core.config.TimeQuantum
	for i := 1; i < n; i++ {
		m.quantums[i] = m.quantums[i-1] * 2
	}
	for i := 0; i < n && i < len(core.config.Quantums); i++ {
		m.quantums[i] = core.config.Quantums[i]
	}
	for i := range m.queues {
		m.queues[i] = linkedlistqueue.New()
	}
	return m
}

func (m *MultilevelFeedbackQueueScheduler) Name() string        { return "Multilevel Feedback Queue" }
func (m *MultilevelFeedbackQueueScheduler) Type() SchedulerType { return MultilevelFeedbackQueue }

// QuantumForLevel returns the quantum of the given queue level, falling back
// to the base quantum for out-of-range levels.
func (m *MultilevelFeedbackQueueScheduler) QuantumForLevel(level int) int64 {
	if level >= 0 && level < len(m.quantums) {
		return m.quantums[level]
	}
	return m.config.TimeQuantum
}

// Reset restores the policy and all processes to the pre-run state.
func (m *MultilevelFeedbackQueueScheduler) Reset() {
	m.resetCore()
	for _, q := range m.queues {
		q.Clear()
	}
	m.lastBoost = 0
	m.expiryCharged = false
}

// NextProcess returns the front of the highest-priority non-empty queue.
func (m *MultilevelFeedbackQueueScheduler) NextProcess() *Process {
	q := m.highestNonEmpty()
	if q == -1 {
		return nil
	}
	v, _ := m.queues[q].Peek()
	return m.procs[v.(int)]
}

func (m *MultilevelFeedbackQueueScheduler) highestNonEmpty() int {
	for i, q := range m.queues {
		if !q.Empty() {
			return i
		}
	}
	return -1
}

// demote drops the process one queue level, capped at the last queue.
func (m *MultilevelFeedbackQueueScheduler) demote(p *Process) {
	if p.QueueLevel < m.numQueues-1 {
		p.QueueLevel++
		logrus.Debugf("[tick %d] demoted: %s -> queue %d", m.clock, p.Name, p.QueueLevel)
	}
}

// priorityBoost returns every non-terminated process to queue 0 and rebuilds
// the queues from the currently-ready processes, in arena order.
func (m *MultilevelFeedbackQueueScheduler) priorityBoost() {
	logrus.Debugf("[tick %d] global priority boost", m.clock)
	for _, p := range m.procs {
		if p.State != StateTerminated {
			p.QueueLevel = 0
		}
	}
	for _, q := range m.queues {
		q.Clear()
	}
	for i, p := range m.procs {
		if p.State == StateReady {
			m.queues[0].Enqueue(i)
		}
	}
	m.lastBoost = m.clock
}

// enqueueArrivals admits NEW processes whose arrival time has been reached.
// Arrivals always enter queue 0 regardless of boost timing.
func (m *MultilevelFeedbackQueueScheduler) enqueueArrivals() {
	for i, p := range m.procs {
		if p.State == StateNew && p.ArrivalTime <= m.clock {
			p.State = StateReady
			p.QueueLevel = 0
			m.queues[0].Enqueue(i)
			logrus.Debugf("[tick %d] arrival: %s -> queue 0", m.clock, p.Name)
		}
	}
}

// chargeQuantumExpiry accounts the scheduler pass forced by a quantum expiry:
// one context switch of overhead, charged even when the same process resumes.
func (m *MultilevelFeedbackQueueScheduler) chargeQuantumExpiry() {
	m.contextSwitches++
	m.chargeSwitchTime("quantum expiry")
	m.expiryCharged = true
}

// Run executes the MLFQ simulation to completion.
func (m *MultilevelFeedbackQueueScheduler) Run() {
	m.Reset()
	if len(m.procs) == 0 {
		m.computeMetrics()
		return
	}
	logrus.Infof("running %s over %d processes (quantums %v)", m.Name(), len(m.procs), m.quantums)

	for !m.IsComplete() {
		if m.agingEnabled && m.clock-m.lastBoost >= m.boostInterval {
			m.priorityBoost()
		}
		m.enqueueArrivals()

		active := m.highestNonEmpty()
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

		if !m.expiryCharged {
			m.contextSwitch(m.lastRunning, p)
		}
		m.expiryCharged = false
		m.markStarted(p)
		p.State = StateRunning

		quantum := m.QuantumForLevel(active)
		start := m.clock
		ran := p.Execute(quantum)
		m.clock += ran
		m.recordEvent(p.PID, start, m.clock, false, fmt.Sprintf("run %s [q%d]", p.Name, active))

		m.enqueueArrivals()
		m.creditWaiting(ran, p)

		if p.IsCompleted() {
			m.finish(p)
		} else {
			p.State = StateReady
			if ran >= quantum {
				// Full quantum consumed without finishing: demote and pay
				// for the forced trip through the scheduler.
				m.demote(p)
				m.chargeQuantumExpiry()
			}
			m.queues[p.QueueLevel].Enqueue(idx)
		}
		m.lastRunning = p
	}

	m.computeMetrics()
}
