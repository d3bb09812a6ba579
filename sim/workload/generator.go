// Deterministic synthetic process generation: static batches and
// probability-driven dynamic arrivals. PID issuance is owned by the
// Generator, never by hidden package state.

package workload

import (
	"fmt"
	"math/rand"

	"github.com/sched-sim/sched-sim/sim"
)

// Generation defaults, matching typical classroom workloads.
const (
	DefaultMaxBurst           = 20
	DefaultMaxArrival         = 10
	DefaultMaxPriority        = 10
	DefaultArrivalProbability = 0.1
	DefaultDynamicMinBurst    = 5
	DefaultDynamicMaxBurst    = 20
	dynamicPIDBase            = 100
)

// Generator produces synthetic processes. It owns the PID counter and the
// RNG subsystems, so generation is deterministic given the same seed and
// call sequence.
type Generator struct {
	MaxBurst           int64
	MaxArrival         int64
	MaxPriority        int
	ArrivalProbability float64 // per-tick chance of one dynamic arrival

	static       *rand.Rand
	dynamic      *rand.Rand
	nextPID      int
	dynamicCount int
}

// NewGenerator creates a Generator with default parameters for the given seed.
func NewGenerator(seed int64) *Generator {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	return &Generator{
		MaxBurst:           DefaultMaxBurst,
		MaxArrival:         DefaultMaxArrival,
		MaxPriority:        DefaultMaxPriority,
		ArrivalProbability: DefaultArrivalProbability,
		static:             rng.ForSubsystem(sim.SubsystemWorkload),
		dynamic:            rng.ForSubsystem(sim.SubsystemArrivals),
		nextPID:            1,
	}
}

// Generate produces count processes with bursts in [1, MaxBurst], arrivals in
// [0, MaxArrival], and priorities in [0, MaxPriority]. PIDs are sequential
// from the generator's counter.
func (g *Generator) Generate(count int) []*sim.Process {
	procs := make([]*sim.Process, 0, count)
	for i := 0; i < count; i++ {
		pid := g.issuePID()
		burst := 1 + g.static.Int63n(g.MaxBurst)
		arrival := g.static.Int63n(g.MaxArrival + 1)
		priority := g.static.Intn(g.MaxPriority + 1)
		procs = append(procs, sim.NewProcess(pid, priority, burst, arrival, fmt.Sprintf("P%d", pid)))
	}
	return procs
}

// MaybeArrival rolls the per-tick arrival chance and, on success, returns a
// new process arriving now. Dynamic PIDs start at a high base so they never
// collide with a statically generated batch.
func (g *Generator) MaybeArrival(now int64) *sim.Process {
	if g.dynamic.Float64() >= g.ArrivalProbability {
		return nil
	}
	pid := dynamicPIDBase + g.issueDynamicPID()
	burst := DefaultDynamicMinBurst + g.dynamic.Int63n(DefaultDynamicMaxBurst-DefaultDynamicMinBurst+1)
	priority := g.dynamic.Intn(g.MaxPriority + 1)
	return sim.NewProcess(pid, priority, burst, now, "")
}

// StartPIDsAt moves the static PID counter so generated PIDs never collide
// with an explicit process list.
func (g *Generator) StartPIDsAt(pid int) {
	if pid > g.nextPID {
		g.nextPID = pid
	}
}

func (g *Generator) issuePID() int {
	pid := g.nextPID
	g.nextPID++
	return pid
}

func (g *Generator) issueDynamicPID() int {
	pid := g.dynamicCount
	g.dynamicCount++
	return pid
}
