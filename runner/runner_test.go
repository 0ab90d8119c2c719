package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/logging"
	"github.com/hupe1980/agenttriage/service"
)

func newAgent(t *testing.T, svc *service.InMemoryService) core.Agent {
	t.Helper()
	a, err := svc.CreateAgent(context.Background(), core.AgentDefinition{Name: "triage-agent", Model: "gpt-stub", Instructions: "x"})
	require.NoError(t, err)
	return a
}

func TestRunner_Conversation(t *testing.T) {
	svc := service.NewInMemory()
	a := newAgent(t, svc)
	var out bytes.Buffer
	r := New(svc, func(o *Options) { o.Out = &out })

	ctx := context.Background()
	th, err := r.CreateThread(ctx)
	require.NoError(t, err)

	msg, err := r.PostMessage(ctx, th.ID, "Printer in room 204 is jammed")
	require.NoError(t, err)
	assert.Equal(t, core.RoleUser, msg.Role)
	assert.Equal(t, []string{"Printer in room 204 is jammed"}, msg.Texts())

	run, err := r.RunAndWait(ctx, th.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusCompleted, run.Status)
	assert.Nil(t, run.Failure())
	assert.Empty(t, out.String())

	assert.Equal(t, 1, svc.CallCount(core.OpCreateThread))
	assert.Equal(t, 1, svc.CallCount(core.OpCreateMessage))
	assert.Equal(t, 1, svc.CallCount(core.OpRunAndWait))
}

func TestRunner_PostMessage_EmptyPrompt(t *testing.T) {
	svc := service.NewInMemory()
	r := New(svc)

	_, err := r.PostMessage(context.Background(), "thread_001", " \n\t")
	assert.ErrorIs(t, err, core.ErrEmptyPrompt)
	assert.Zero(t, svc.CallCount(core.OpCreateMessage))
}

func TestRunner_FailedRunIsReported(t *testing.T) {
	svc := service.NewInMemory(func(o *service.InMemoryOptions) {
		o.RunStatus = core.RunStatusFailed
		o.RunError = &core.RunError{Code: "rate_limit_exceeded", Message: "quota"}
	})
	a := newAgent(t, svc)
	var out, logs bytes.Buffer
	r := New(svc, func(o *Options) {
		o.Out = &out
		o.Logger = logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "text", Output: &logs})
	})

	ctx := context.Background()
	th, err := r.CreateThread(ctx)
	require.NoError(t, err)

	run, err := r.RunAndWait(ctx, th.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, run.Failed())
	assert.Equal(t, "Run failed: rate_limit_exceeded: quota\n", out.String())
	assert.Contains(t, logs.String(), "Run failed")

	f := run.Failure()
	require.NotNil(t, f)
	assert.Equal(t, run.ID, f.RunID)
}

func TestRunner_IncompleteRunIsWarned(t *testing.T) {
	svc := service.NewInMemory(func(o *service.InMemoryOptions) { o.RunStatus = core.RunStatusExpired })
	a := newAgent(t, svc)
	var out, logs bytes.Buffer
	r := New(svc, func(o *Options) {
		o.Out = &out
		o.Logger = logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelWarn, Format: "text", Output: &logs})
	})

	th, err := r.CreateThread(context.Background())
	require.NoError(t, err)
	run, err := r.RunAndWait(context.Background(), th.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusExpired, run.Status)
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "status=expired")
	assert.Contains(t, logs.String(), "thread_id="+th.ID)
	assert.Contains(t, logs.String(), "run_id="+run.ID)
}

func TestRunner_RemoteErrorsAreWrapped(t *testing.T) {
	boom := errors.New("unavailable")
	svc := service.NewInMemory(func(o *service.InMemoryOptions) {
		o.Fail = func(op, _ string) error {
			if op == core.OpCreateThread {
				return boom
			}
			return nil
		}
	})
	r := New(svc)

	_, err := r.CreateThread(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var remote *core.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, core.OpCreateThread, remote.Op)
}

func TestRunner_UnknownThread(t *testing.T) {
	svc := service.NewInMemory()
	a := newAgent(t, svc)
	r := New(svc)

	_, err := r.RunAndWait(context.Background(), "thread_missing", a.ID)
	var remote *core.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 404, remote.StatusCode)
}
