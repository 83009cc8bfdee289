// Package runstore persists solver runs for later lookup and warm-start
// memoization, grounded on the same GORM models/Connection layer used
// elsewhere in this codebase.
package runstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mslscheduler/internal/orchestrator"
	"mslscheduler/internal/pkg/database/models"
	"mslscheduler/internal/report"
)

// SolverRun is one recorded solve attempt: its configuration, the report it
// produced, and (if feasible) the resulting schedule, keyed by a hash of the
// input instance so repeat requests can be recognized. It embeds the same
// BaseModel every other table in this codebase uses for its id and
// timestamps.
type SolverRun struct {
	models.BaseModel
	InstanceHash string  `gorm:"type:varchar(64);not null;index" json:"instanceHash"`
	Strategy     string  `gorm:"type:varchar(20);not null" json:"strategy"`
	ConfigJSON   string  `gorm:"type:jsonb;not null" json:"configJson"`
	ReportJSON   string  `gorm:"type:jsonb;not null" json:"reportJson"`
	Schedule     *string `gorm:"type:jsonb" json:"schedule,omitempty"`
	Feasible     bool    `gorm:"not null" json:"feasible"`
	FinishedAt   time.Time `gorm:"not null" json:"finishedAt"`
}

// TableName returns the table name for SolverRun.
func (SolverRun) TableName() string {
	return "solver_runs"
}

// Store persists and retrieves SolverRun rows.
type Store struct {
	db *gorm.DB
}

// New wraps a GORM handle for solver-run persistence.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the solver_runs table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&SolverRun{})
}

// Record persists one completed solve, serializing its config/report/
// schedule to JSON. The stored cfg is the orchestrator.Config that produced
// the report, and schedule is nil when the solve did not reach feasibility.
func (s *Store) Record(ctx context.Context, instanceHash string, cfg orchestrator.Config, rep report.Report, schedule interface{}) (*SolverRun, error) {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	repBytes, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}

	run := &SolverRun{
		InstanceHash: instanceHash,
		Strategy:     string(cfg.Strategy),
		ConfigJSON:   string(cfgBytes),
		ReportJSON:   string(repBytes),
		Feasible:     rep.Feasible,
		FinishedAt:   time.Now(),
	}
	if rep.Feasible && schedule != nil {
		schedBytes, err := json.Marshal(schedule)
		if err != nil {
			return nil, err
		}
		s := string(schedBytes)
		run.Schedule = &s
	}

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// FindByID looks up a solver run by its ID.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*SolverRun, error) {
	var run SolverRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestFeasibleByHash returns the most recent feasible run for an instance
// hash, used to warm-start a new solve from a prior incumbent schedule.
func (s *Store) LatestFeasibleByHash(ctx context.Context, instanceHash string) (*SolverRun, error) {
	var run SolverRun
	err := s.db.WithContext(ctx).
		Where("instance_hash = ? AND feasible = ?", instanceHash, true).
		Order("created_at desc").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
