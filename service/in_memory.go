package service

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agenttriage/core"
)

// Call records one remote operation issued against the InMemoryService.
type Call struct {
	Op  string
	Arg string
}

// InMemoryOptions configures the stub behaviour.
type InMemoryOptions struct {
	// RunStatus is the terminal status reported by CreateAndProcessRun.
	RunStatus core.RunStatus
	// RunError is attached to runs ending in a non-completed status.
	RunError *core.RunError
	// Reply produces the assistant text appended by a completed run.
	Reply func(agent core.Agent, prompt string) string
	// Fail, when set, may inject an error for an operation; arg is the agent
	// name for create_agent and the id for every other operation.
	Fail func(op, arg string) error
	// Clock supplies creation timestamps.
	Clock func() time.Time
}

// InMemoryService is a volatile core.AgentService that records every call.
// It performs no reasoning: completed runs append a canned reply. It is safe
// for concurrent access.
type InMemoryService struct {
	mu      sync.Mutex
	opts    InMemoryOptions
	seq     int
	agents  map[string]core.Agent
	threads map[string][]core.Message
	calls   []Call
}

var _ core.AgentService = (*InMemoryService)(nil)

// NewInMemory constructs an empty stub service.
func NewInMemory(optFns ...func(o *InMemoryOptions)) *InMemoryService {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	opts := InMemoryOptions{
		RunStatus: core.RunStatusCompleted,
		Reply: func(agent core.Agent, prompt string) string {
			return fmt.Sprintf("Mock response from %s to: %s", agent.Name, prompt)
		},
		Clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryService{
		opts:    opts,
		agents:  make(map[string]core.Agent),
		threads: make(map[string][]core.Message),
	}
}

// Calls returns a copy of the recorded call log.
func (s *InMemoryService) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallCount returns how often op was issued.
func (s *InMemoryService) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Agents returns the agents currently alive in the stub.
func (s *InMemoryService) Agents() []core.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b core.Agent) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

// CreateAgent implements core.AgentService.
func (s *InMemoryService) CreateAgent(_ context.Context, def core.AgentDefinition) (core.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(core.OpCreateAgent, def.Name); err != nil {
		return core.Agent{}, err
	}
	if def.Model == "" {
		return core.Agent{}, &core.RemoteServiceError{Op: core.OpCreateAgent, StatusCode: http.StatusBadRequest, Code: "invalid_model", Err: fmt.Errorf("model is required")}
	}
	for _, t := range def.Tools {
		if _, ok := s.agents[t.AgentID]; !ok {
			return core.Agent{}, &core.RemoteServiceError{Op: core.OpCreateAgent, StatusCode: http.StatusBadRequest, Err: fmt.Errorf("connected agent %s not found", t.AgentID)}
		}
	}
	a := core.Agent{
		ID:           s.nextIDLocked("asst"),
		Name:         def.Name,
		Model:        def.Model,
		Instructions: def.Instructions,
		Tools:        slices.Clone(def.Tools),
		CreatedAt:    s.opts.Clock(),
	}
	s.agents[a.ID] = a
	return a, nil
}

// DeleteAgent implements core.AgentService.
func (s *InMemoryService) DeleteAgent(_ context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(core.OpDeleteAgent, agentID); err != nil {
		return err
	}
	if _, ok := s.agents[agentID]; !ok {
		return notFound(core.OpDeleteAgent, "agent", agentID)
	}
	delete(s.agents, agentID)
	return nil
}

// CreateThread implements core.AgentService.
func (s *InMemoryService) CreateThread(_ context.Context) (core.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(core.OpCreateThread, ""); err != nil {
		return core.Thread{}, err
	}
	th := core.Thread{ID: s.nextIDLocked("thread"), CreatedAt: s.opts.Clock()}
	s.threads[th.ID] = nil
	return th, nil
}

// CreateMessage implements core.AgentService.
func (s *InMemoryService) CreateMessage(_ context.Context, threadID string, role core.MessageRole, text string) (core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(core.OpCreateMessage, threadID); err != nil {
		return core.Message{}, err
	}
	if _, ok := s.threads[threadID]; !ok {
		return core.Message{}, notFound(core.OpCreateMessage, "thread", threadID)
	}
	return s.appendLocked(threadID, role, text), nil
}

// CreateAndProcessRun implements core.AgentService. The run terminates
// immediately with the configured status.
func (s *InMemoryService) CreateAndProcessRun(ctx context.Context, threadID, agentID string) (core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(core.OpRunAndWait, threadID); err != nil {
		return core.Run{}, err
	}
	if err := ctx.Err(); err != nil {
		return core.Run{}, core.NewRemoteServiceError(core.OpRunAndWait, err)
	}
	msgs, ok := s.threads[threadID]
	if !ok {
		return core.Run{}, notFound(core.OpRunAndWait, "thread", threadID)
	}
	agent, ok := s.agents[agentID]
	if !ok {
		return core.Run{}, notFound(core.OpRunAndWait, "agent", agentID)
	}

	run := core.Run{ID: s.nextIDLocked("run"), ThreadID: threadID, AgentID: agentID, Status: s.opts.RunStatus}
	if run.Status != core.RunStatusCompleted {
		run.LastError = s.opts.RunError
		return run, nil
	}

	var prompt string
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == core.RoleUser {
			prompt = strings.Join(msgs[i].Texts(), "\n")
			break
		}
	}
	s.appendLocked(threadID, core.RoleAssistant, s.opts.Reply(agent, prompt))
	return run, nil
}

// ListMessages implements core.AgentService. Each range over the returned
// sequence snapshots the thread and counts as one list call.
func (s *InMemoryService) ListMessages(_ context.Context, threadID string, order core.SortOrder) iter.Seq2[core.Message, error] {
	return func(yield func(core.Message, error) bool) {
		s.mu.Lock()
		err := s.recordLocked(core.OpListMessages, threadID)
		msgs, ok := s.threads[threadID]
		msgs = slices.Clone(msgs)
		s.mu.Unlock()

		if err == nil && !ok {
			err = notFound(core.OpListMessages, "thread", threadID)
		}
		if err != nil {
			yield(core.Message{}, err)
			return
		}
		if order == core.Descending {
			slices.Reverse(msgs)
		}
		for _, m := range msgs {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (s *InMemoryService) recordLocked(op, arg string) error {
	s.calls = append(s.calls, Call{Op: op, Arg: arg})
	if s.opts.Fail == nil {
		return nil
	}
	return core.NewRemoteServiceError(op, s.opts.Fail(op, arg))
}

func (s *InMemoryService) appendLocked(threadID string, role core.MessageRole, text string) core.Message {
	msg := core.NewTextMessage(threadID, role, text)
	msg.ID = s.nextIDLocked("msg")
	msg.CreatedAt = s.opts.Clock()
	s.threads[threadID] = append(s.threads[threadID], msg)
	return msg
}

func (s *InMemoryService) nextIDLocked(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%03d", prefix, s.seq)
}

func notFound(op, kind, id string) error {
	return &core.RemoteServiceError{Op: op, StatusCode: http.StatusNotFound, Code: "not_found", Err: fmt.Errorf("%s %s not found", kind, id)}
}
