// Defines the Process struct that models an individual simulated task.
// Tracks fixed timing parameters (priority, burst, arrival) and runtime state
// mutated by the scheduling policies (remaining time, waits, completion).

package sim

import "fmt"

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "NEW"
	StateReady      ProcessState = "READY"
	StateRunning    ProcessState = "RUNNING"
	StateWaiting    ProcessState = "WAITING" // modeled but never entered: the workload is CPU-burst-only
	StateTerminated ProcessState = "TERMINATED"
)

// ResponseUnset is the ResponseTime sentinel before first dispatch.
const ResponseUnset int64 = -1

// Process models a single task's identity, timing parameters, and runtime
// state. Identity and timing parameters are fixed at creation; everything
// else is mutated by the owning scheduler during a run and restored by Reset.
type Process struct {
	PID      int
	Name     string
	Priority int // lower value = more urgent; aging may lower it further, Reset restores
	BurstTime   int64
	ArrivalTime int64

	RemainingTime  int64
	WaitingTime    int64
	TurnaroundTime int64 // written once, at completion
	ResponseTime   int64 // written once, at first dispatch; ResponseUnset before
	CompletionTime int64
	QueueLevel     int // used only by the multilevel policies
	HasStarted     bool
	State          ProcessState

	basePriority int
}

// NewProcess creates a process with the given identity and timing parameters.
// An empty name defaults to "P<pid>".
func NewProcess(pid, priority int, burstTime, arrivalTime int64, name string) *Process {
	if name == "" {
		name = fmt.Sprintf("P%d", pid)
	}
	return &Process{
		PID:           pid,
		Name:          name,
		Priority:      priority,
		BurstTime:     burstTime,
		ArrivalTime:   arrivalTime,
		RemainingTime: burstTime,
		ResponseTime:  ResponseUnset,
		State:         StateNew,
		basePriority:  priority,
	}
}

// Execute consumes min(timeSlice, RemainingTime) units of CPU and returns the
// amount actually consumed. Calling it on a completed process is a no-op that
// returns 0. RemainingTime never goes below zero.
func (p *Process) Execute(timeSlice int64) int64 {
	if p.RemainingTime == 0 || timeSlice <= 0 {
		return 0
	}
	ran := timeSlice
	if p.RemainingTime < ran {
		ran = p.RemainingTime
	}
	p.RemainingTime -= ran
	p.HasStarted = true
	p.State = StateRunning
	if p.RemainingTime == 0 {
		p.State = StateTerminated
	}
	return ran
}

// IsCompleted reports whether the process has consumed its full burst.
func (p *Process) IsCompleted() bool {
	return p.RemainingTime == 0
}

// Reset restores the process to its pre-run state: full remaining time, all
// derived runtime fields cleared, priority back to its creation value.
func (p *Process) Reset() {
	p.RemainingTime = p.BurstTime
	p.WaitingTime = 0
	p.TurnaroundTime = 0
	p.ResponseTime = ResponseUnset
	p.CompletionTime = 0
	p.QueueLevel = 0
	p.HasStarted = false
	p.State = StateNew
	p.Priority = p.basePriority
}

// Less is the natural priority order used for deterministic tie-breaking:
// priority ascending, then arrival time ascending, then PID ascending.
func (p *Process) Less(other *Process) bool {
	if p.Priority != other.Priority {
		return p.Priority < other.Priority
	}
	if p.ArrivalTime != other.ArrivalTime {
		return p.ArrivalTime < other.ArrivalTime
	}
	return p.PID < other.PID
}

func (p *Process) String() string {
	return fmt.Sprintf("Process(PID: %d, Name: %s, Priority: %d, Burst: %d, Remaining: %d, Arrival: %d, State: %s)",
		p.PID, p.Name, p.Priority, p.BurstTime, p.RemainingTime, p.ArrivalTime, p.State)
}

// CloneProcesses returns fresh pre-run copies of the given processes.
// Used by the comparison driver so no runtime state leaks between policy runs.
func CloneProcesses(procs []*Process) []*Process {
	out := make([]*Process, len(procs))
	for i, p := range procs {
		out[i] = NewProcess(p.PID, p.basePriority, p.BurstTime, p.ArrivalTime, p.Name)
	}
	return out
}
