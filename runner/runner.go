package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Out receives run outcome lines.
	Out io.Writer
	// Logging services.
	Logger logging.Logger
}

// Runner sequences thread creation, message posting and run processing.
type Runner struct {
	svc    core.AgentService
	out    io.Writer
	logger logging.Logger
}

// New constructs a Runner with optional overrides.
func New(svc core.AgentService, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Out:    io.Discard,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		svc:    svc,
		out:    opts.Out,
		logger: logging.OrNoOp(opts.Logger),
	}
}

// CreateThread opens an empty conversation thread.
func (r *Runner) CreateThread(ctx context.Context) (core.Thread, error) {
	th, err := r.svc.CreateThread(ctx)
	if err != nil {
		return core.Thread{}, fmt.Errorf("failed to create thread: %w", err)
	}
	r.logger.Info("Thread created", "thread_id", th.ID)
	return th, nil
}

// PostMessage appends text as a user message to the thread. Blank text is
// rejected with core.ErrEmptyPrompt before any remote call.
func (r *Runner) PostMessage(ctx context.Context, threadID, text string) (core.Message, error) {
	if strings.TrimSpace(text) == "" {
		return core.Message{}, core.ErrEmptyPrompt
	}
	msg, err := r.svc.CreateMessage(ctx, threadID, core.RoleUser, text)
	if err != nil {
		return core.Message{}, fmt.Errorf("failed to post message: %w", err)
	}
	r.logger.Debug("Message posted", "thread_id", threadID, "message_id", msg.ID)
	return msg, nil
}

// RunAndWait runs agentID on the thread and blocks until the run is terminal
// or ctx is done. A run ending in a non-completed status is reported, not
// returned as an error.
func (r *Runner) RunAndWait(ctx context.Context, threadID, agentID string) (core.Run, error) {
	run, err := r.svc.CreateAndProcessRun(ctx, threadID, agentID)
	if err != nil {
		return core.Run{}, fmt.Errorf("failed to process run: %w", err)
	}

	logger := logging.With(r.logger, "thread_id", threadID, "run_id", run.ID)
	switch {
	case run.Status == core.RunStatusCompleted:
		logger.Info("Run completed")
	case run.Failed():
		f := run.Failure()
		fmt.Fprintf(r.out, "Run failed: %s\n", f.Detail)
		logger.Error("Run failed", "error", f)
	default:
		detail := "none"
		if run.LastError != nil {
			detail = run.LastError.String()
		}
		logger.Warn("Run ended without completing", "status", string(run.Status), "last_error", detail)
	}

	return run, nil
}
