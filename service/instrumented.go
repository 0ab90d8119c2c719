package service

import (
	"context"
	"iter"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/internal/tracer"
	"github.com/hupe1980/agenttriage/logging"
)

// Instrumented decorates a core.AgentService with one span and one log entry
// per remote operation. It adds no behaviour of its own.
type Instrumented struct {
	next   core.AgentService
	logger logging.Logger
}

var _ core.AgentService = (*Instrumented)(nil)

// NewInstrumented wraps next. A nil logger disables logging.
func NewInstrumented(next core.AgentService, logger logging.Logger) *Instrumented {
	return &Instrumented{next: next, logger: logging.OrNoOp(logger)}
}

func (s *Instrumented) start(ctx context.Context, op string, attrs ...string) (context.Context, trace.Span, func(error, ...any)) {
	ctx, span := tracer.StartSpan(ctx, op)
	for i := 0; i+1 < len(attrs); i += 2 {
		span.SetAttributes(tracer.StringAttr(attrs[i], attrs[i+1]))
	}
	began := time.Now()
	return ctx, span, func(err error, args ...any) {
		logging.LogRemoteCall(s.logger, op, time.Since(began), err, args...)
		tracer.End(span, err)
	}
}

// CreateAgent implements core.AgentService.
func (s *Instrumented) CreateAgent(ctx context.Context, def core.AgentDefinition) (core.Agent, error) {
	ctx, span, done := s.start(ctx, core.OpCreateAgent, "agent.name", def.Name, "agent.model", def.Model)
	span.SetAttributes(tracer.IntAttr("agent.tools", len(def.Tools)))
	a, err := s.next.CreateAgent(ctx, def)
	if err == nil {
		span.SetAttributes(tracer.StringAttr("agent.id", a.ID))
	}
	done(err, "agent_name", def.Name, "agent_id", a.ID)
	return a, err
}

// DeleteAgent implements core.AgentService.
func (s *Instrumented) DeleteAgent(ctx context.Context, agentID string) error {
	ctx, _, done := s.start(ctx, core.OpDeleteAgent, "agent.id", agentID)
	err := s.next.DeleteAgent(ctx, agentID)
	done(err, "agent_id", agentID)
	return err
}

// CreateThread implements core.AgentService.
func (s *Instrumented) CreateThread(ctx context.Context) (core.Thread, error) {
	ctx, span, done := s.start(ctx, core.OpCreateThread)
	th, err := s.next.CreateThread(ctx)
	if err == nil {
		span.SetAttributes(tracer.StringAttr("thread.id", th.ID))
	}
	done(err, "thread_id", th.ID)
	return th, err
}

// CreateMessage implements core.AgentService.
func (s *Instrumented) CreateMessage(ctx context.Context, threadID string, role core.MessageRole, text string) (core.Message, error) {
	ctx, _, done := s.start(ctx, core.OpCreateMessage, "thread.id", threadID, "message.role", string(role))
	msg, err := s.next.CreateMessage(ctx, threadID, role, text)
	done(err, "thread_id", threadID, "message_id", msg.ID)
	return msg, err
}

// CreateAndProcessRun implements core.AgentService.
func (s *Instrumented) CreateAndProcessRun(ctx context.Context, threadID, agentID string) (core.Run, error) {
	ctx, span, done := s.start(ctx, core.OpRunAndWait, "thread.id", threadID, "agent.id", agentID)
	run, err := s.next.CreateAndProcessRun(ctx, threadID, agentID)
	if err == nil {
		span.SetAttributes(tracer.StringAttr("run.id", run.ID), tracer.StringAttr("run.status", string(run.Status)))
	}
	done(err, "thread_id", threadID, "run_id", run.ID, "status", string(run.Status))
	return run, err
}

// ListMessages implements core.AgentService. The span covers one full
// iteration of the sequence.
func (s *Instrumented) ListMessages(ctx context.Context, threadID string, order core.SortOrder) iter.Seq2[core.Message, error] {
	return func(yield func(core.Message, error) bool) {
		ctx, span, done := s.start(ctx, core.OpListMessages, "thread.id", threadID, "order", string(order))
		var (
			n      int
			result error
		)
		defer func() {
			span.SetAttributes(tracer.IntAttr("messages.count", n))
			done(result, "thread_id", threadID, "count", n)
		}()
		for msg, err := range s.next.ListMessages(ctx, threadID, order) {
			if err != nil {
				result = err
				yield(core.Message{}, err)
				return
			}
			n++
			if !yield(msg, nil) {
				return
			}
		}
	}
}
