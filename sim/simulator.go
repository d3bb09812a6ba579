// The comparison driver: runs several policies back to back over the same
// base process set, strictly sequentially, with a fresh copy of the process
// set per run so no runtime state leaks between policy instances.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SimulationResult bundles one policy's outputs for display or export.
type SimulationResult struct {
	Type      SchedulerType
	Name      string
	Metrics   *Metrics
	Timeline  Timeline
	Processes []*Process
}

// Simulator owns a base process set and a list of policy instances and runs
// them to completion one after another.
type Simulator struct {
	config   SchedulerConfig
	policies []Policy
	base     []*Process
	results  []SimulationResult
}

// NewSimulator creates a driver with the given scheduler configuration.
func NewSimulator(cfg SchedulerConfig) *Simulator {
	return &Simulator{config: cfg}
}

// AddPolicy constructs and registers a policy of the given type.
func (s *Simulator) AddPolicy(t SchedulerType) error {
	p, err := NewPolicy(t, s.config)
	if err != nil {
		return fmt.Errorf("add policy: %w", err)
	}
	s.policies = append(s.policies, p)
	return nil
}

// AddAllPolicies registers every known policy, in comparison order.
func (s *Simulator) AddAllPolicies() {
	for _, t := range AllSchedulerTypes {
		// all types in AllSchedulerTypes are constructible
		_ = s.AddPolicy(t)
	}
}

// SetProcesses sets the base process set shared by all runs. The simulator
// keeps its own pre-run copy; the caller's processes are never mutated.
func (s *Simulator) SetProcesses(procs []*Process) {
	s.base = CloneProcesses(procs)
}

// PolicyNames returns the registered policy names in run order.
func (s *Simulator) PolicyNames() []string {
	names := make([]string, len(s.policies))
	for i, p := range s.policies {
		names[i] = p.Name()
	}
	return names
}

// RunAll runs every registered policy over a fresh copy of the base process
// set and returns the collected results.
func (s *Simulator) RunAll() []SimulationResult {
	s.results = s.results[:0]
	for _, policy := range s.policies {
		policy.ClearProcesses()
		policy.AddProcesses(CloneProcesses(s.base))
		logrus.Infof("comparison run: %s", policy.Name())
		policy.Run()
		s.results = append(s.results, SimulationResult{
			Type:      policy.Type(),
			Name:      policy.Name(),
			Metrics:   policy.Metrics(),
			Timeline:  policy.Timeline(),
			Processes: policy.Processes(),
		})
	}
	return s.results
}

// Run runs only the policy of the given type over a fresh copy of the base
// process set.
func (s *Simulator) Run(t SchedulerType) (*SimulationResult, error) {
	policy, err := NewPolicy(t, s.config)
	if err != nil {
		return nil, err
	}
	policy.AddProcesses(CloneProcesses(s.base))
	policy.Run()
	return &SimulationResult{
		Type:      policy.Type(),
		Name:      policy.Name(),
		Metrics:   policy.Metrics(),
		Timeline:  policy.Timeline(),
		Processes: policy.Processes(),
	}, nil
}

// Results returns the results of the last RunAll call.
func (s *Simulator) Results() []SimulationResult { return s.results }
