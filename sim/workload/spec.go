package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sched-sim/sched-sim/sim"
)

// Scenario is the top-level YAML description of one simulation: scheduler
// parameters plus either an explicit process list, a random workload block,
// or both. Loaded via LoadScenario(path).
type Scenario struct {
	Name      string        `yaml:"name"`
	Seed      int64         `yaml:"seed"`
	Scheduler SchedulerSpec `yaml:"scheduler"`
	Processes []ProcessSpec `yaml:"processes,omitempty"`
	Random    *RandomSpec   `yaml:"random,omitempty"`
}

// SchedulerSpec mirrors sim.SchedulerConfig in YAML form. Zero values fall
// back to the engine defaults.
type SchedulerSpec struct {
	TimeQuantum       int64   `yaml:"time_quantum"`
	ContextSwitchTime *int64  `yaml:"context_switch_time,omitempty"`
	NumQueues         int     `yaml:"num_queues"`
	Quantums          []int64 `yaml:"quantums,omitempty"`
	AgingEnabled      *bool   `yaml:"aging_enabled,omitempty"`
	AgingThreshold    int64   `yaml:"aging_threshold"`
	PreemptionSlice   int64   `yaml:"preemption_slice"`
}

// ProcessSpec describes one explicit process.
type ProcessSpec struct {
	PID      int    `yaml:"pid"`
	Name     string `yaml:"name,omitempty"`
	Priority int    `yaml:"priority"`
	Burst    int64  `yaml:"burst"`
	Arrival  int64  `yaml:"arrival"`
}

// RandomSpec requests a generated workload appended to the explicit list.
type RandomSpec struct {
	Count       int   `yaml:"count"`
	MaxBurst    int64 `yaml:"max_burst,omitempty"`
	MaxArrival  int64 `yaml:"max_arrival,omitempty"`
	MaxPriority int   `yaml:"max_priority,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks the scenario for caller errors the engine does not defend
// against: duplicate PIDs, non-positive bursts, negative arrivals.
func (s *Scenario) Validate() error {
	seen := make(map[int]bool, len(s.Processes))
	for i, p := range s.Processes {
		if seen[p.PID] {
			return fmt.Errorf("process %d: duplicate pid %d", i, p.PID)
		}
		seen[p.PID] = true
		if p.Burst <= 0 {
			return fmt.Errorf("process %d (pid %d): burst must be positive, got %d", i, p.PID, p.Burst)
		}
		if p.Arrival < 0 {
			return fmt.Errorf("process %d (pid %d): arrival must be non-negative, got %d", i, p.PID, p.Arrival)
		}
	}
	if s.Random != nil && s.Random.Count < 0 {
		return fmt.Errorf("random workload: count must be non-negative, got %d", s.Random.Count)
	}
	return nil
}

// Config converts the scheduler spec to an engine configuration, filling
// engine defaults for zero values.
func (s *Scenario) Config() sim.SchedulerConfig {
	cfg := sim.DefaultConfig()
	if s.Scheduler.TimeQuantum > 0 {
		cfg.TimeQuantum = s.Scheduler.TimeQuantum
	}
	if s.Scheduler.ContextSwitchTime != nil {
		cfg.ContextSwitchTime = *s.Scheduler.ContextSwitchTime
	}
	if s.Scheduler.NumQueues > 0 {
		cfg.NumQueues = s.Scheduler.NumQueues
	}
	if len(s.Scheduler.Quantums) > 0 {
		cfg.Quantums = append([]int64(nil), s.Scheduler.Quantums...)
	}
	if s.Scheduler.AgingEnabled != nil {
		cfg.AgingEnabled = *s.Scheduler.AgingEnabled
	}
	if s.Scheduler.AgingThreshold > 0 {
		cfg.AgingThreshold = s.Scheduler.AgingThreshold
	}
	if s.Scheduler.PreemptionSlice > 0 {
		cfg.PreemptionSlice = s.Scheduler.PreemptionSlice
	}
	return cfg
}

// BuildProcesses materializes the scenario's process set: the explicit list
// first, then any requested random workload, generated deterministically
// from the scenario seed.
func (s *Scenario) BuildProcesses() []*sim.Process {
	procs := make([]*sim.Process, 0, len(s.Processes))
	for _, p := range s.Processes {
		procs = append(procs, sim.NewProcess(p.PID, p.Priority, p.Burst, p.Arrival, p.Name))
	}
	if s.Random != nil && s.Random.Count > 0 {
		gen := NewGenerator(s.Seed)
		for _, p := range s.Processes {
			gen.StartPIDsAt(p.PID + 1)
		}
		if s.Random.MaxBurst > 0 {
			gen.MaxBurst = s.Random.MaxBurst
		}
		if s.Random.MaxArrival > 0 {
			gen.MaxArrival = s.Random.MaxArrival
		}
		if s.Random.MaxPriority > 0 {
			gen.MaxPriority = s.Random.MaxPriority
		}
		procs = append(procs, gen.Generate(s.Random.Count)...)
	}
	return procs
}
