package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// propertyWorkloads are the process mixes every policy is held against.
func propertyWorkloads() map[string][]*Process {
	return map[string][]*Process{
		"staggered": staggeredWorkload(),
		"simultaneous": {
			NewProcess(1, 5, 8, 0, ""),
			NewProcess(2, 1, 4, 0, ""),
			NewProcess(3, 3, 6, 0, ""),
			NewProcess(4, 3, 2, 0, ""),
		},
		"sparse arrivals": {
			NewProcess(1, 2, 3, 0, ""),
			NewProcess(2, 7, 5, 20, ""),
			NewProcess(3, 0, 1, 21, ""),
		},
		"single": {
			NewProcess(1, 0, 15, 4, ""),
		},
	}
}

func propertyConfigs() map[string]SchedulerConfig {
	return map[string]SchedulerConfig{
		"free switches": {TimeQuantum: 4, ContextSwitchTime: 0, NumQueues: 3, PreemptionSlice: 1},
		"costly switches": {TimeQuantum: 3, ContextSwitchTime: 2, NumQueues: 3,
			AgingEnabled: true, AgingThreshold: 5, PreemptionSlice: 1},
	}
}

// TestPolicies_Properties drives every policy over every workload/config pair
// and checks the invariants that must hold regardless of policy:
//
//   - conservation: timeline busy time equals the total burst demand
//   - monotonic timeline: events never overlap or run backwards
//   - completion: every process terminates at or after arrival+burst
//   - turnaround identity: turnaround = waiting + burst = completion - arrival
//   - response: 0 <= response <= waiting for every process
//   - utilization: within (0, 100] whenever any work was done
func TestPolicies_Properties(t *testing.T) {
	for cfgName, cfg := range propertyConfigs() {
		for wlName, workload := range propertyWorkloads() {
			for _, st := range AllSchedulerTypes {
				t.Run(cfgName+"/"+wlName+"/"+string(st), func(t *testing.T) {
					policy, err := NewPolicy(st, cfg)
					require.NoError(t, err)
					policy.AddProcesses(CloneProcesses(workload))

					policy.Run()

					require.True(t, policy.(interface{ IsComplete() bool }).IsComplete())

					var totalBurst int64
					for _, p := range workload {
						totalBurst += p.BurstTime
					}
					tl := policy.Timeline()
					assert.Equal(t, totalBurst, tl.BusyTime(), "conservation")
					assert.True(t, tl.IsMonotonic(), "monotonic timeline")

					for _, p := range policy.Processes() {
						assert.Equal(t, StateTerminated, p.State, "pid %d", p.PID)
						assert.GreaterOrEqual(t, p.CompletionTime, p.ArrivalTime+p.BurstTime, "pid %d", p.PID)
						assert.Equal(t, p.CompletionTime-p.ArrivalTime, p.TurnaroundTime, "pid %d", p.PID)
						assert.Equal(t, p.TurnaroundTime, p.WaitingTime+p.BurstTime, "identity, pid %d", p.PID)
						assert.GreaterOrEqual(t, p.ResponseTime, int64(0), "pid %d", p.PID)
						assert.LessOrEqual(t, p.ResponseTime, p.WaitingTime, "pid %d", p.PID)
					}

					m := policy.Metrics()
					assert.Greater(t, m.CPUUtilization, 0.0)
					assert.LessOrEqual(t, m.CPUUtilization, 100.0)
					assert.Greater(t, m.Throughput, 0.0)
					assert.Equal(t, len(workload), m.ProcessCount)

					// clock fully accounted for by the timeline
					assert.Equal(t, policy.CurrentTime(),
						tl.BusyTime()+tl.IdleTime()+tl.SwitchOverhead(), "clock accounting")
				})
			}
		}
	}
}

// TestPolicies_Determinism runs every policy twice over identical inputs and
// requires identical outputs.
func TestPolicies_Determinism(t *testing.T) {
	cfg := SchedulerConfig{TimeQuantum: 3, ContextSwitchTime: 1, NumQueues: 3,
		AgingEnabled: true, AgingThreshold: 4, PreemptionSlice: 1}
	workload := propertyWorkloads()["staggered"]

	for _, st := range AllSchedulerTypes {
		t.Run(string(st), func(t *testing.T) {
			a, err := NewPolicy(st, cfg)
			require.NoError(t, err)
			b, err := NewPolicy(st, cfg)
			require.NoError(t, err)
			a.AddProcesses(CloneProcesses(workload))
			b.AddProcesses(CloneProcesses(workload))

			a.Run()
			b.Run()

			assert.Equal(t, a.Timeline(), b.Timeline())
			assert.Equal(t, a.ContextSwitches(), b.ContextSwitches())
			assert.Equal(t, a.Metrics().AvgWaitingTime, b.Metrics().AvgWaitingTime)
		})
	}
}

// TestPolicies_RerunAfterReset checks that a second Run over the same policy
// instance reproduces the first: Run self-resets.
func TestPolicies_RerunAfterReset(t *testing.T) {
	for _, st := range AllSchedulerTypes {
		t.Run(string(st), func(t *testing.T) {
			policy, err := NewPolicy(st, SchedulerConfig{TimeQuantum: 4, ContextSwitchTime: 1, NumQueues: 3})
			require.NoError(t, err)
			policy.AddProcesses(staggeredWorkload())

			policy.Run()
			firstClock := policy.CurrentTime()
			firstSwitches := policy.ContextSwitches()

			policy.Run()

			assert.Equal(t, firstClock, policy.CurrentTime())
			assert.Equal(t, firstSwitches, policy.ContextSwitches())
		})
	}
}
