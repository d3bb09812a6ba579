package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sched-sim/sched-sim/sim"
)

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sampleRequest() ScheduleRequest {
	return ScheduleRequest{
		Config: ConfigPayload{TimeQuantum: 4},
		Processes: []ProcessPayload{
			{PID: 1, Priority: 2, Burst: 10, Arrival: 0},
			{PID: 2, Priority: 1, Burst: 5, Arrival: 1},
			{PID: 3, Priority: 3, Burst: 8, Arrival: 2},
		},
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	app := NewApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/algorithms", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Algorithms []string `json:"algorithms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Algorithms, len(sim.AllSchedulerTypes))
	assert.Contains(t, body.Algorithms, "round-robin")
}

func TestScheduleEndpoint_RoundRobin(t *testing.T) {
	app := NewApp()

	resp, err := app.Test(postJSON(t, "/api/v1/schedule/round-robin", sampleRequest()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body ScheduleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "Round Robin", body.Algorithm)
	assert.Equal(t, 3, body.Metrics.ProcessCount)
	assert.Len(t, body.Processes, 3)
	assert.NotEmpty(t, body.Timeline)
	for _, p := range body.Processes {
		assert.Equal(t, p.Turnaround, p.Waiting+p.Burst, "pid %d", p.PID)
	}
}

func TestScheduleEndpoint_UnknownAlgorithm(t *testing.T) {
	app := NewApp()

	resp, err := app.Test(postJSON(t, "/api/v1/schedule/lottery", sampleRequest()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScheduleEndpoint_MalformedBody(t *testing.T) {
	app := NewApp()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/round-robin", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareEndpoint_RunsAllPolicies(t *testing.T) {
	app := NewApp()

	resp, err := app.Test(postJSON(t, "/api/v1/compare", sampleRequest()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body CompareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Runs, len(sim.AllSchedulerTypes))
	for _, run := range body.Runs {
		assert.Equal(t, 3, run.Metrics.ProcessCount, "%s", run.Algorithm)
		// every policy performs the same 23 ticks of work
		var busy int64
		for _, ev := range run.Timeline {
			if !ev.IsContextSwitch && ev.PID >= 0 {
				busy += ev.End - ev.Start
			}
		}
		assert.Equal(t, int64(23), busy, "%s", run.Algorithm)
	}
}

func TestScheduleRequest_ConfigDefaults(t *testing.T) {
	req := ScheduleRequest{}
	assert.Equal(t, sim.DefaultConfig(), req.config())

	zero := int64(0)
	off := false
	req = ScheduleRequest{Config: ConfigPayload{
		TimeQuantum:       2,
		ContextSwitchTime: &zero,
		AgingEnabled:      &off,
	}}
	cfg := req.config()
	assert.Equal(t, int64(2), cfg.TimeQuantum)
	assert.Equal(t, int64(0), cfg.ContextSwitchTime, "explicit zero must stick")
	assert.False(t, cfg.AgingEnabled)
}

func TestHealthz(t *testing.T) {
	app := NewApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
