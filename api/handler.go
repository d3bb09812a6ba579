package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/sched-sim/sched-sim/sim"
)

// ScheduleRequest is the JSON body accepted by the schedule and compare
// endpoints.
type ScheduleRequest struct {
	Config    ConfigPayload    `json:"config"`
	Processes []ProcessPayload `json:"processes"`
}

// ConfigPayload mirrors sim.SchedulerConfig; zero values fall back to engine
// defaults.
type ConfigPayload struct {
	TimeQuantum       int64   `json:"time_quantum"`
	ContextSwitchTime *int64  `json:"context_switch_time,omitempty"`
	NumQueues         int     `json:"num_queues"`
	Quantums          []int64 `json:"quantums,omitempty"`
	AgingEnabled      *bool   `json:"aging_enabled,omitempty"`
	AgingThreshold    int64   `json:"aging_threshold"`
	PreemptionSlice   int64   `json:"preemption_slice"`
}

// ProcessPayload describes one process in a request.
type ProcessPayload struct {
	PID      int    `json:"pid"`
	Name     string `json:"name,omitempty"`
	Priority int    `json:"priority"`
	Burst    int64  `json:"burst"`
	Arrival  int64  `json:"arrival"`
}

// EventPayload is one timeline entry in a response.
type EventPayload struct {
	PID             int    `json:"pid"`
	Start           int64  `json:"start"`
	End             int64  `json:"end"`
	IsContextSwitch bool   `json:"context_switch"`
	Description     string `json:"description,omitempty"`
}

// ProcessResultPayload is one process's final stats in a response.
type ProcessResultPayload struct {
	PID        int    `json:"pid"`
	Name       string `json:"name"`
	Priority   int    `json:"priority"`
	Burst      int64  `json:"burst"`
	Arrival    int64  `json:"arrival"`
	Waiting    int64  `json:"waiting"`
	Turnaround int64  `json:"turnaround"`
	Response   int64  `json:"response"`
	Completion int64  `json:"completion"`
}

// MetricsPayload is the aggregate metrics snapshot in a response.
type MetricsPayload struct {
	ProcessCount          int     `json:"process_count"`
	AvgWaitingTime        float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime     float64 `json:"avg_turnaround_time"`
	AvgResponseTime       float64 `json:"avg_response_time"`
	CPUUtilization        float64 `json:"cpu_utilization"`
	Throughput            float64 `json:"throughput"`
	TotalExecutionTime    int64   `json:"total_execution_time"`
	TotalIdleTime         int64   `json:"total_idle_time"`
	ContextSwitches       int     `json:"context_switches"`
	ContextSwitchOverhead int64   `json:"context_switch_overhead"`
}

// ScheduleResponse is one policy run's outputs.
type ScheduleResponse struct {
	Algorithm string                 `json:"algorithm"`
	Timeline  []EventPayload         `json:"timeline"`
	Metrics   MetricsPayload         `json:"metrics"`
	Processes []ProcessResultPayload `json:"processes"`
}

// CompareResponse bundles one run per policy over the same workload.
type CompareResponse struct {
	Runs []ScheduleResponse `json:"runs"`
}

func (r *ScheduleRequest) config() sim.SchedulerConfig {
	cfg := sim.DefaultConfig()
	if r.Config.TimeQuantum > 0 {
		cfg.TimeQuantum = r.Config.TimeQuantum
	}
	if r.Config.ContextSwitchTime != nil {
		cfg.ContextSwitchTime = *r.Config.ContextSwitchTime
	}
	if r.Config.NumQueues > 0 {
		cfg.NumQueues = r.Config.NumQueues
	}
	if len(r.Config.Quantums) > 0 {
		cfg.Quantums = append([]int64(nil), r.Config.Quantums...)
	}
	if r.Config.AgingEnabled != nil {
		cfg.AgingEnabled = *r.Config.AgingEnabled
	}
	if r.Config.AgingThreshold > 0 {
		cfg.AgingThreshold = r.Config.AgingThreshold
	}
	if r.Config.PreemptionSlice > 0 {
		cfg.PreemptionSlice = r.Config.PreemptionSlice
	}
	return cfg
}

func (r *ScheduleRequest) processes() []*sim.Process {
	procs := make([]*sim.Process, 0, len(r.Processes))
	for _, p := range r.Processes {
		procs = append(procs, sim.NewProcess(p.PID, p.Priority, p.Burst, p.Arrival, p.Name))
	}
	return procs
}

func toScheduleResponse(res *sim.SimulationResult) ScheduleResponse {
	resp := ScheduleResponse{
		Algorithm: res.Name,
		Timeline:  make([]EventPayload, 0, len(res.Timeline)),
		Processes: make([]ProcessResultPayload, 0, len(res.Processes)),
	}
	for _, ev := range res.Timeline {
		resp.Timeline = append(resp.Timeline, EventPayload{
			PID:             ev.ProcessID,
			Start:           ev.Start,
			End:             ev.End,
			IsContextSwitch: ev.IsContextSwitch,
			Description:     ev.Description,
		})
	}
	for _, p := range res.Processes {
		resp.Processes = append(resp.Processes, ProcessResultPayload{
			PID:        p.PID,
			Name:       p.Name,
			Priority:   p.Priority,
			Burst:      p.BurstTime,
			Arrival:    p.ArrivalTime,
			Waiting:    p.WaitingTime,
			Turnaround: p.TurnaroundTime,
			Response:   p.ResponseTime,
			Completion: p.CompletionTime,
		})
	}
	m := res.Metrics
	resp.Metrics = MetricsPayload{
		ProcessCount:          m.ProcessCount,
		AvgWaitingTime:        m.AvgWaitingTime,
		AvgTurnaroundTime:     m.AvgTurnaroundTime,
		AvgResponseTime:       m.AvgResponseTime,
		CPUUtilization:        m.CPUUtilization,
		Throughput:            m.Throughput,
		TotalExecutionTime:    m.TotalExecutionTime,
		TotalIdleTime:         m.TotalIdleTime,
		ContextSwitches:       m.TotalContextSwitches,
		ContextSwitchOverhead: m.ContextSwitchOverhead,
	}
	return resp
}

// Algorithms handles GET /api/v1/algorithms.
func Algorithms(ctx *fiber.Ctx) error {
	names := make([]string, 0, len(sim.AllSchedulerTypes))
	for _, t := range sim.AllSchedulerTypes {
		names = append(names, string(t))
	}
	return ctx.JSON(fiber.Map{"algorithms": names})
}

// Schedule handles POST /api/v1/schedule/:algorithm.
func Schedule(ctx *fiber.Ctx) error {
	var req ScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}

	algorithm := sim.SchedulerType(ctx.Params("algorithm"))
	driver := sim.NewSimulator(req.config())
	driver.SetProcesses(req.processes())
	res, err := driver.Run(algorithm)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logrus.Infof("scheduled %d processes with %s", len(req.Processes), res.Name)
	return ctx.JSON(toScheduleResponse(res))
}

// Compare handles POST /api/v1/compare: every policy over the same workload.
func Compare(ctx *fiber.Ctx) error {
	var req ScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}

	driver := sim.NewSimulator(req.config())
	driver.AddAllPolicies()
	driver.SetProcesses(req.processes())

	var resp CompareResponse
	for _, res := range driver.RunAll() {
		resp.Runs = append(resp.Runs, toScheduleResponse(&res))
	}
	return ctx.JSON(resp)
}
