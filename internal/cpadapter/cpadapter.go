// Package cpadapter encodes a compiled model as a CP problem and
// delegates to an external CP-SAT backend over HTTP (spec §4.5).
package cpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mslscheduler/internal/model"
)

// ErrorCode mirrors the structured error codes the backend returns
// (spec §6 "Wire to CP backend").
type ErrorCode string

const (
	CodeInfeasible   ErrorCode = "infeasible"
	CodeTimedOut     ErrorCode = "timedOut"
	CodeInvalidInput ErrorCode = "invalidInput"
	CodeInternal     ErrorCode = "internal"
)

// BackendError is returned for any non-2xx or error-coded backend
// response.
type BackendError struct {
	Code    ErrorCode
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("cp backend: %s: %s", e.Code, e.Message)
}

// Preferences configures the CP objective (spec §6 "cpPrefs").
type Preferences struct {
	AllowSameDaySplit   bool
	EdgeWeight          float64
	TeacherGapWeight    float64
	NogapWeight         float64
	MaxTeacherGapHours  int // 1 or 2 (spec §9 open question)
	TeacherDailyMaxHours *int
}

// Request is the wire payload posted to the backend.
type Request struct {
	Problem     Problem     `json:"problem"`
	Preferences Preferences `json:"preferences"`
	TimeLimitS  int         `json:"timeLimitSeconds"`
	StopAtFirst bool        `json:"stopAtFirst"`
}

// wireResponse is the backend's raw JSON reply.
type wireResponse struct {
	Assignments []wireAssignment `json:"assignments"`
	TimedOut    bool             `json:"timedOut"`
	Error       *wireError       `json:"error"`
}

type wireError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type wireAssignment struct {
	ClassroomID int32   `json:"classroomId"`
	Day         int     `json:"day"`
	Start       int     `json:"start"`
	UnitID      int32   `json:"unitId"`
	SubjectID   int32   `json:"subjectId"`
	TeacherIDs  []int32 `json:"teacherIds"`
	LocationID  int32   `json:"locationId"`
	Span        int     `json:"span"`
}

// Result is the adapter's outcome.
type Result struct {
	Schedule  *model.Schedule
	TimedOut  bool
	Cancelled bool
}

// Client talks to an external CP-SAT backend over HTTP, grounded on the
// HTTP-client adapter pattern used elsewhere in this codebase's ambient
// stack for out-of-process health/state calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client against baseURL with a sane default timeout;
// the actual deadline for a single solve is still governed by the
// request's TimeLimitS via the context passed to Solve.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// Solve posts the encoded problem and decodes the backend's response into
// a working Schedule (spec §4.5, §4.6 "cp" strategy).
func (cl *Client) Solve(ctx context.Context, c *model.Compiled, prefs Preferences, timeLimitSeconds int, stopAtFirst bool) (Result, error) {
	req := Request{
		Problem:     Encode(c),
		Preferences: prefs,
		TimeLimitS:  timeLimitSeconds,
		StopAtFirst: stopAtFirst,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, &BackendError{Code: CodeInternal, Message: err.Error()}
	}

	deadline := time.Duration(timeLimitSeconds)*time.Second + 5*time.Second
	reqCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, cl.baseURL+"/v1/solve", bytes.NewReader(body))
	if err != nil {
		return Result{}, &BackendError{Code: CodeInternal, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := cl.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return Result{Cancelled: true}, ctx.Err()
		}
		return Result{}, &BackendError{Code: CodeInternal, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &BackendError{Code: CodeInternal, Message: err.Error()}
	}

	var wr wireResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return Result{}, &BackendError{Code: CodeInternal, Message: "malformed backend response"}
	}
	if wr.Error != nil {
		return Result{TimedOut: wr.TimedOut}, &BackendError{Code: wr.Error.Code, Message: wr.Error.Message}
	}

	sched := model.NewSchedule(c)
	for _, wa := range wr.Assignments {
		a := &model.Assignment{
			UnitID:     wa.UnitID,
			SubjectID:  wa.SubjectID,
			TeacherIDs: wa.TeacherIDs,
			LocationID: wa.LocationID,
			BlockID:    wa.UnitID,
			Span:       wa.Span,
		}
		sched.PlaceBlock(wa.ClassroomID, wa.Day, wa.Start, a)
	}
	return Result{Schedule: sched, TimedOut: wr.TimedOut}, nil
}
