package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "mslscheduler/internal/pkg/errors"
	"mslscheduler/internal/pkg/response"
	"mslscheduler/internal/orchestrator"
)

// Handler serves the solver's HTTP surface.
type Handler struct {
	jobs       *JobManager
	defaultCfg orchestrator.Config
}

// NewHandler wires a request handler against a job manager and the
// server's default orchestrator.Config (spec §6 defaults, overridden
// per request by SolveOptionsDTO).
func NewHandler(jobs *JobManager, defaultCfg orchestrator.Config) *Handler {
	return &Handler{jobs: jobs, defaultCfg: defaultCfg}
}

// instanceHash derives a stable content hash for warm-start lookup and
// audit deduplication. crypto/sha256 is stdlib: the corpus carries no
// dedicated content-hashing library, and a cryptographic digest over
// the canonical request body is the simplest correct fit.
func instanceHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// PostSolve submits a new solve request and returns its job id
// (spec §5 "long-running strategies must not block the request").
func (h *Handler) PostSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.BadRequest(err.Error()))
		return
	}

	inst, err := req.ToInstance()
	if err != nil {
		apperrors.Abort(c, apperrors.BadRequest(err.Error()))
		return
	}

	canonical, err := json.Marshal(req)
	if err != nil {
		apperrors.AbortInternalError(c)
		return
	}

	cfg := ApplyOptions(h.defaultCfg, req.Options)
	job := h.jobs.Submit(inst, cfg, instanceHash(canonical))

	c.JSON(202, SolveAcceptedResponse{JobID: job.ID, Status: string(job.Status)})
}

// GetSolve reports a job's current status, and once finished, its
// report and schedule.
func (h *Handler) GetSolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		apperrors.Abort(c, apperrors.BadRequest("invalid job id"))
		return
	}

	job, ok := h.jobs.Get(id)
	if !ok {
		apperrors.AbortNotFound(c, "solve job")
		return
	}

	resp := JobResponse{
		JobID:    job.ID,
		Strategy: job.Strategy,
		Status:   string(job.Status),
		Error:    job.Error,
	}
	resp.CreatedAt = job.CreatedAt.Format(timeLayout)
	if !job.FinishedAt.IsZero() {
		resp.FinishedAt = job.FinishedAt.Format(timeLayout)
	}
	if job.Report != nil {
		resp.Report = job.Report
	}
	if job.Schedule != nil {
		resp.Schedule = toScheduleDTO(job.Schedule)
	}

	response.OK(c, resp)
}

// CancelSolve requests cooperative cancellation of a running job
// (spec §5 "cooperative cancellation").
func (h *Handler) CancelSolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		apperrors.Abort(c, apperrors.BadRequest("invalid job id"))
		return
	}
	if !h.jobs.Cancel(id) {
		apperrors.AbortNotFound(c, "solve job")
		return
	}
	c.Status(204)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}

// Readyz reports readiness. The handler itself has no external
// dependency to probe beyond the job manager's presence; a runstore/
// cache outage degrades audit/warm-start, not serving, by design (both
// are best-effort, see internal/runstore and internal/cache).
func (h *Handler) Readyz(c *gin.Context) {
	response.OK(c, gin.H{"status": "ready"})
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"
