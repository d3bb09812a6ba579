package sim

import "github.com/sirupsen/logrus"

// Defaults applied by DefaultConfig and by normalization of malformed values.
const (
	DefaultTimeQuantum       int64 = 4
	DefaultContextSwitchTime int64 = 1
	DefaultNumQueues               = 3
	DefaultAgingThreshold    int64 = 10
	DefaultPreemptionSlice   int64 = 1
)

// SchedulerConfig holds the parameters that are immutable for the duration of
// a run. Zero or negative quantum-like values are clamped to sane defaults at
// policy construction rather than rejected, so a scheduler can never spin on
// a non-advancing clock.
type SchedulerConfig struct {
	TimeQuantum       int64   // base quantum for Round Robin and the multilevel policies
	ContextSwitchTime int64   // time units charged per context switch (0 = free switches)
	NumQueues         int     // queue count for the multilevel policies
	Quantums          []int64 // explicit per-level quantum overrides
	AgingEnabled      bool
	AgingThreshold    int64 // wait before a priority boost
	PreemptionSlice   int64 // execution granularity of the preemptive priority scheduler
}

// DefaultConfig returns the configuration used when the caller provides none.
func DefaultConfig() SchedulerConfig {
	return SchedulerConfig{
		TimeQuantum:       DefaultTimeQuantum,
		ContextSwitchTime: DefaultContextSwitchTime,
		NumQueues:         DefaultNumQueues,
		AgingEnabled:      true,
		AgingThreshold:    DefaultAgingThreshold,
		PreemptionSlice:   DefaultPreemptionSlice,
	}
}

// normalized returns a copy with malformed values clamped to defaults.
// Every clamp is logged so silently-corrected configs remain visible.
func (c SchedulerConfig) normalized() SchedulerConfig {
	if c.TimeQuantum <= 0 {
		logrus.Warnf("non-positive time quantum %d clamped to %d", c.TimeQuantum, DefaultTimeQuantum)
		c.TimeQuantum = DefaultTimeQuantum
	}
	if c.ContextSwitchTime < 0 {
		logrus.Warnf("negative context switch time %d clamped to 0", c.ContextSwitchTime)
		c.ContextSwitchTime = 0
	}
	if c.NumQueues <= 0 {
		logrus.Warnf("non-positive queue count %d clamped to %d", c.NumQueues, DefaultNumQueues)
		c.NumQueues = DefaultNumQueues
	}
	if c.AgingThreshold <= 0 {
		logrus.Warnf("non-positive aging threshold %d clamped to %d", c.AgingThreshold, DefaultAgingThreshold)
		c.AgingThreshold = DefaultAgingThreshold
	}
	if c.PreemptionSlice <= 0 {
		c.PreemptionSlice = DefaultPreemptionSlice
	}
	for i, q := range c.Quantums {
		if q <= 0 {
			logrus.Warnf("non-positive quantum override %d at level %d clamped to %d", q, i, c.TimeQuantum)
			c.Quantums[i] = c.TimeQuantum
		}
	}
	return c
}

// QuantumForLevel returns the explicit override for the given queue level, or
// the base quantum when the level has no override or is out of range.
func (c SchedulerConfig) QuantumForLevel(level int) int64 {
	if level >= 0 && level < len(c.Quantums) {
		return c.Quantums[level]
	}
	return c.TimeQuantum
}
