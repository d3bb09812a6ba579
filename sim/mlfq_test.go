package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mlfqConfig() SchedulerConfig {
	return SchedulerConfig{TimeQuantum: 2, ContextSwitchTime: 1, NumQueues: 3}
}

func TestMLFQ_QuantumsDoublePerLevel(t *testing.T) {
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	assert.Equal(t, int64(2), m.QuantumForLevel(0))
	assert.Equal(t, int64(4), m.QuantumForLevel(1))
	assert.Equal(t, int64(8), m.QuantumForLevel(2))
	assert.Equal(t, int64(2), m.QuantumForLevel(7), "out-of-range falls back to base")
}

func TestMLFQ_ExplicitQuantumOverrides(t *testing.T) {
	cfg := mlfqConfig()
	cfg.Quantums = []int64{3, 9}
	m := NewMultilevelFeedbackQueueScheduler(cfg)
	assert.Equal(t, int64(3), m.QuantumForLevel(0))
	assert.Equal(t, int64(9), m.QuantumForLevel(1))
	assert.Equal(t, int64(8), m.QuantumForLevel(2), "unoverridden level keeps the doubled default")
}

func TestMLFQ_SingleLongProcessPaysExpiryOverhead(t *testing.T) {
	// GIVEN one CPU-bound process against quantums [2,4,8] and switch cost 1
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	m.AddProcess(NewProcess(1, 0, 20, 0, ""))

	m.Run()

	// run [0,2) expiry [2,3) run [3,7) expiry [7,8) run [8,16) expiry
	// [16,17) run [17,23): three quantum expiries, each a forced scheduler
	// pass, even with no other process to switch to
	p := m.Processes()[0]
	assert.Equal(t, int64(23), p.CompletionTime)
	assert.Equal(t, 3, m.ContextSwitches())
	assert.Equal(t, int64(20), m.Timeline().BusyTime())
	assert.Equal(t, int64(3), m.Timeline().SwitchOverhead())
	assert.Zero(t, m.Timeline().IdleTime())
	assert.Equal(t, int64(3), p.WaitingTime, "expiry passes count as waiting")
	assert.Equal(t, p.TurnaroundTime, p.WaitingTime+p.BurstTime)
	assert.Equal(t, 2, p.QueueLevel, "demotion caps at the last queue")
	assert.InDelta(t, 20.0/23.0*100.0, m.Metrics().CPUUtilization, 1e-9)
}

func TestMLFQ_ShortProcessFinishesInTopQueue(t *testing.T) {
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	m.AddProcess(NewProcess(1, 0, 2, 0, ""))

	m.Run()

	p := m.Processes()[0]
	assert.Equal(t, int64(2), p.CompletionTime)
	assert.Zero(t, m.ContextSwitches(), "finishing exactly at the quantum is not an expiry")
	assert.Zero(t, p.QueueLevel)
}

func TestMLFQ_DemotionFavorsShortJobs(t *testing.T) {
	// GIVEN a CPU hog and a short job arriving later
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	m.AddProcesses([]*Process{
		NewProcess(1, 0, 12, 0, ""),
		NewProcess(2, 0, 2, 3, ""),
	})

	m.Run()

	// P1 expires out of queue 0 while P2 arrives into it, so P2 jumps ahead
	byPID := processesByPID(m.Processes())
	assert.Less(t, byPID[2].CompletionTime, byPID[1].CompletionTime)
	assert.Greater(t, byPID[1].QueueLevel, byPID[2].QueueLevel)
}

func TestMLFQ_ArrivalsAlwaysEnterTopQueue(t *testing.T) {
	cfg := mlfqConfig()
	cfg.ContextSwitchTime = 0
	m := NewMultilevelFeedbackQueueScheduler(cfg)
	m.AddProcesses([]*Process{
		NewProcess(1, 7, 6, 0, ""), // high priority value still starts at queue 0
		NewProcess(2, 0, 4, 5, ""),
	})

	m.Run()

	// priority values are ignored by MLFQ; behaviour is history-driven
	require.True(t, m.IsComplete())
	var firstEvent *ExecutionEvent
	for i := range m.Timeline() {
		if !m.Timeline()[i].IsContextSwitch && m.Timeline()[i].ProcessID >= 0 {
			firstEvent = &m.Timeline()[i]
			break
		}
	}
	require.NotNil(t, firstEvent)
	assert.Equal(t, 1, firstEvent.ProcessID)
}

func TestMLFQ_PriorityBoostResetsLevels(t *testing.T) {
	// GIVEN a demoted process and boosting enabled
	cfg := mlfqConfig()
	cfg.AgingEnabled = true
	cfg.AgingThreshold = 2 // boost every 10 ticks
	m := NewMultilevelFeedbackQueueScheduler(cfg)
	long := NewProcess(1, 0, 30, 0, "")
	m.AddProcess(long)

	m.Run()

	require.True(t, m.IsComplete())
	// the process was demoted, then pulled back to queue 0 by the periodic
	// boost; it must end on a level it was re-demoted to, and the run
	// must still terminate
	assert.Equal(t, int64(30), m.Timeline().BusyTime())
	assert.True(t, m.Timeline().IsMonotonic())
}

func TestMLFQ_PriorityBoost_RequeuesReadyProcesses(t *testing.T) {
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	demoted := NewProcess(1, 0, 10, 0, "")
	m.AddProcess(demoted)
	m.Reset()
	demoted.State = StateReady
	demoted.QueueLevel = 2
	m.clock = 50

	m.priorityBoost()

	assert.Zero(t, demoted.QueueLevel)
	assert.Equal(t, int64(50), m.lastBoost)
	next := m.NextProcess()
	require.NotNil(t, next)
	assert.Equal(t, 1, next.PID)
}

func TestMLFQ_TurnaroundIdentity_StaggeredWorkload(t *testing.T) {
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	m.AddProcesses(staggeredWorkload())

	m.Run()

	require.True(t, m.IsComplete())
	for _, p := range m.Processes() {
		assert.Equal(t, p.TurnaroundTime, p.WaitingTime+p.BurstTime, "pid %d", p.PID)
	}
	assert.Equal(t, int64(23), m.Timeline().BusyTime())
	assert.True(t, m.Timeline().IsMonotonic())
}

func TestMLFQ_EmptyArena(t *testing.T) {
	m := NewMultilevelFeedbackQueueScheduler(mlfqConfig())
	m.Run()
	assert.Zero(t, m.CurrentTime())
	assert.Zero(t, m.Metrics().ProcessCount)
}
