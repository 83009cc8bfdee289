package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"mslscheduler/internal/cache"
	"mslscheduler/internal/metrics"
	"mslscheduler/internal/model"
	"mslscheduler/internal/orchestrator"
	"mslscheduler/internal/pkg/logger"
	"mslscheduler/internal/runstore"
)

// JobManager runs solves off the request goroutine over a bounded worker
// pool, grounded on this codebase's bulk-operation async-processing
// shape but adapted to hold jobs in memory (a solve's progress is not
// itself durable state; only its finished report is, via runstore).
type JobManager struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	sem  chan struct{}

	store   *runstore.Store
	cache   *cache.WarmStartCache
	metrics *metrics.Service
	log     *logger.Logger
}

// NewJobManager builds a job manager with the given worker concurrency.
// store, cache, and metrics may be nil; a nil store/cache just skips
// persistence/memoization, and metrics is nil-receiver-safe.
func NewJobManager(workers int, store *runstore.Store, c *cache.WarmStartCache, m *metrics.Service, log *logger.Logger) *JobManager {
	if workers <= 0 {
		workers = 4
	}
	return &JobManager{
		jobs:    make(map[uuid.UUID]*Job),
		sem:     make(chan struct{}, workers),
		store:   store,
		cache:   c,
		metrics: m,
		log:     log,
	}
}

// Submit registers a new job and runs it asynchronously, returning
// immediately with the job in JobPending or JobRunning state.
func (m *JobManager) Submit(inst *model.Instance, cfg orchestrator.Config, instanceHash string) *Job {
	job := &Job{
		ID:           uuid.New(),
		InstanceHash: instanceHash,
		Strategy:     string(cfg.Strategy),
		Status:       JobPending,
		CreatedAt:    time.Now(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.cancel = cancel

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.run(ctx, job, inst, cfg)

	return job
}

func (m *JobManager) run(ctx context.Context, job *Job, inst *model.Instance, cfg orchestrator.Config) {
	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	m.setStatus(job.ID, JobRunning)

	start := time.Now()
	outcome, err := orchestrator.Solve(ctx, inst, cfg)
	elapsed := time.Since(start)

	m.mu.Lock()
	job.FinishedAt = time.Now()
	if err != nil {
		var ve *orchestrator.ValidationErrors
		var ie *orchestrator.InfeasibleError
		var ce *orchestrator.CancelledError
		var be *orchestrator.BackendUnavailableError
		switch {
		case errors.As(err, &ve):
			job.Status = JobFailed
		case errors.As(err, &ie):
			job.Status = JobInfeasible
		case errors.As(err, &ce):
			job.Status = JobCancelled
		case errors.As(err, &be):
			job.Status = JobFailed
		default:
			job.Status = JobFailed
		}
		job.Error = err.Error()
		// The orchestrator assembles a report even on failure (attempts,
		// backtracks, failure histogram, hardest units) so the caller can
		// see why, not just that, the solve didn't reach feasibility.
		rep := outcome.Report
		job.Report = &rep
		m.mu.Unlock()
		if m.log != nil {
			m.log.Sugar().Warnw("solve finished with error", "jobId", job.ID, "status", job.Status, "error", err)
		}
		m.metrics.ObserveSolve(string(cfg.Strategy), false, elapsed.Seconds(), 0, 0, 0)
		if m.store != nil {
			if _, rerr := m.store.Record(context.Background(), job.InstanceHash, cfg, rep, nil); rerr != nil && m.log != nil {
				m.log.Sugar().Warnw("failed to persist solver run", "jobId", job.ID, "error", rerr)
			}
		}
		return
	}

	job.Status = JobFeasible
	rep := outcome.Report
	job.Report = &rep
	job.Schedule = outcome.Schedule
	m.mu.Unlock()

	m.metrics.ObserveSolve(string(cfg.Strategy), true, elapsed.Seconds(), rep.Attempts, rep.Backtracks, rep.ObjectiveValue)

	if m.store != nil {
		if _, err := m.store.Record(context.Background(), job.InstanceHash, cfg, rep, outcome.Schedule); err != nil && m.log != nil {
			m.log.Sugar().Warnw("failed to persist solver run", "jobId", job.ID, "error", err)
		}
	}
	if m.cache != nil {
		m.cache.PutSchedule(context.Background(), job.InstanceHash, outcome.Schedule)
	}
}

func (m *JobManager) setStatus(id uuid.UUID, status JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.Status = status
	}
}

// Get returns a snapshot of a job's current state.
func (m *JobManager) Get(id uuid.UUID) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Cancel requests cooperative cancellation of a running job. It returns
// false if the job is unknown or already finished.
func (m *JobManager) Cancel(id uuid.UUID) bool {
	m.mu.RLock()
	job, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	switch job.Status {
	case JobPending, JobRunning:
		job.cancel()
		return true
	default:
		return false
	}
}
