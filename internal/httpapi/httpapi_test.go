package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mslscheduler/internal/orchestrator"
)

func fullAvailability(hours int) []bool {
	out := make([]bool, hours)
	for i := range out {
		out[i] = true
	}
	return out
}

func sampleRequestBody(t *testing.T) []byte {
	t.Helper()
	body := `{
		"teachers": [{"id":"11111111-1111-1111-1111-111111111111","name":"Ada","levels":["high"],
			"availability":[[true,true,true,true,true,true],[true,true,true,true,true,true],[true,true,true,true,true,true],[true,true,true,true,true,true],[true,true,true,true,true,true]]}],
		"classrooms": [{"id":"22222222-2222-2222-2222-222222222222","name":"9A","level":"high"}],
		"subjects": [{"id":"33333333-3333-3333-3333-333333333333","name":"Math","weeklyHours":2,
			"assignedClassIds":["22222222-2222-2222-2222-222222222222"],"requiredTeacherCount":1}],
		"schoolHours": {"middle":[6,6,6,6,6],"high":[6,6,6,6,6]},
		"options": {"strategy":"repair"}
	}`
	return []byte(body)
}

func newTestHandler() *Handler {
	jobs := NewJobManager(2, nil, nil, nil, nil)
	cfg := orchestrator.DefaultConfig()
	cfg.Strategy = orchestrator.StrategyRepair
	return NewHandler(jobs, cfg)
}

func TestPostSolveAcceptsValidRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(sampleRequestBody(t)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.PostSolve(c)

	require.Equal(t, 202, w.Code)
	var resp SolveAcceptedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.NotEqual(t, "", resp.JobID.String())
}

func TestPostSolveRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader([]byte(`{"teachers": `)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.PostSolve(c)

	assert.Equal(t, 400, w.Code)
}

func TestGetSolveReturnsNotFoundForUnknownJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "jobId", Value: "44444444-4444-4444-4444-444444444444"}}
	req := httptest.NewRequest(http.MethodGet, "/v1/solve/44444444-4444-4444-4444-444444444444", nil)
	c.Request = req

	h.GetSolve(c)

	assert.Equal(t, 404, w.Code)
}

func TestPostSolveThenGetSolveReachesFeasible(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(sampleRequestBody(t)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h.PostSolve(c)
	require.Equal(t, 202, w.Code)

	var accepted SolveAcceptedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))

	var job Job
	var ok bool
	for i := 0; i < 50; i++ {
		job, ok = h.jobs.Get(accepted.JobID)
		if ok && job.Status != JobPending && job.Status != JobRunning {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.True(t, ok)
	assert.Equal(t, JobFeasible, job.Status)
	assert.NotNil(t, job.Report)
	assert.True(t, job.Report.Feasible)
}
