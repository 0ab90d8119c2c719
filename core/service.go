package core

import (
	"context"
	"iter"
)

// Remote operation names used in errors, logs and spans.
const (
	OpCreateAgent   = "create_agent"
	OpDeleteAgent   = "delete_agent"
	OpCreateThread  = "create_thread"
	OpCreateMessage = "create_message"
	OpRunAndWait    = "run_and_wait"
	OpListMessages  = "list_messages"
)

// AgentService is the contract of the hosted agent platform. Every method is
// a blocking remote call issued exactly once; implementations must not retry.
type AgentService interface {
	CreateAgent(ctx context.Context, def AgentDefinition) (Agent, error)
	DeleteAgent(ctx context.Context, agentID string) error
	CreateThread(ctx context.Context) (Thread, error)
	CreateMessage(ctx context.Context, threadID string, role MessageRole, text string) (Message, error)

	// CreateAndProcessRun starts a run of agentID on threadID and blocks until
	// the run reaches a terminal status or ctx is done.
	CreateAndProcessRun(ctx context.Context, threadID, agentID string) (Run, error)

	// ListMessages returns a finite, lazy sequence over the thread's messages.
	// Ranging the sequence again re-queries the service.
	ListMessages(ctx context.Context, threadID string, order SortOrder) iter.Seq2[Message, error]
}
