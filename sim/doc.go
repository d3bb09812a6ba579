// Package sim provides the core discrete-event CPU scheduling engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (NEW → READY → RUNNING → TERMINATED) and state machine
//   - scheduler.go: the Policy interface and the shared scheduler core (arena,
//     timeline, clock, arrival admission, context-switch accounting)
//   - metrics.go: metrics derivation from finished processes and the timeline
//
// # Architecture
//
// Each scheduling policy (Round Robin, Priority, Multilevel Queue, Multilevel
// Feedback Queue) owns its queue structures and drives its own run loop to
// completion over a shared process arena. Queues hold stable indices into the
// arena, never copies. Time is a virtual int64 tick counter that only moves
// forward: by one execution slice, one context-switch charge, or a jump to the
// next pending arrival when the CPU is idle.
//
// The engine is single-threaded and synchronous. A Run() call owns the process
// arena and timeline exclusively until it returns; re-running with unchanged
// inputs yields identical outputs.
//
// Sub-packages:
//   - sim/workload/: deterministic process generation and YAML scenario specs
//   - sim/trace/: timeline and metrics recording (CSV)
package sim
