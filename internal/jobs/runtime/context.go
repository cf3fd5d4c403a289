package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/playlake/internal/platform/logger"
)

/*
The execution contract between the job runner and all pipeline code.
runtime.Context is a capability-scoped execution handle for a single job run.
It wraps:
	- the run-scoped context.Context (timeouts, cancellation),
	- the mutable JobRun record,
	- and the only sanctioned ways to report progress or terminate execution.
Pipelines never mutate JobRun directly. They go through this object.
*/

type JobRun struct {
	ID         uuid.UUID
	Type       string
	Status     string
	Stage      string
	Progress   int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
	Result     map[string]any
}

type Context struct {
	Ctx context.Context
	Log *logger.Logger
	Job *JobRun

	failure error
}

func NewContext(ctx context.Context, log *logger.Logger, jobType string) *Context {
	job := &JobRun{
		ID:        uuid.New(),
		Type:      jobType,
		Status:    "running",
		StartedAt: time.Now(),
	}
	return &Context{
		Ctx: ctx,
		Log: log.With("job", jobType, "job_run_id", job.ID.String()),
		Job: job,
	}
}

/*
Progress publishes a non-terminal status update for this job run: it moves
the in-memory stage/progress fields and emits a log line. Terminal states
are never overwritten.
*/
func (c *Context) Progress(stage string, pct int, msg string) {
	if c == nil || c.Job == nil {
		return
	}
	if c.Job.Status != "running" {
		return
	}
	c.Job.Stage = stage
	c.Job.Progress = pct
	c.Log.Info("Job progress", "stage", stage, "progress", pct, "message", msg)
}

/*
Fail marks this job run as terminally failed for the given stage. The first
failure wins; later transitions are ignored so the original cause survives.
*/
func (c *Context) Fail(stage string, err error) {
	if c == nil || c.Job == nil {
		return
	}
	if c.Job.Status != "running" {
		return
	}
	now := time.Now()
	c.Job.Status = "failed"
	c.Job.Stage = stage
	if err != nil {
		c.Job.Error = err.Error()
	}
	c.Job.FinishedAt = &now
	c.failure = err
	c.Log.Error("Job failed", "stage", stage, "error", c.Job.Error)
}

/*
Succeed marks this job run as terminally succeeded and records a result
payload for the caller.
*/
func (c *Context) Succeed(finalStage string, result map[string]any) {
	if c == nil || c.Job == nil {
		return
	}
	if c.Job.Status != "running" {
		return
	}
	now := time.Now()
	c.Job.Status = "succeeded"
	c.Job.Stage = finalStage
	c.Job.Progress = 100
	c.Job.Result = result
	c.Job.FinishedAt = &now
	c.Log.Info("Job succeeded", "stage", finalStage, "elapsed", now.Sub(c.Job.StartedAt).String())
}

// Err returns the failure recorded by Fail, if any.
func (c *Context) Err() error {
	if c == nil {
		return nil
	}
	return c.failure
}
