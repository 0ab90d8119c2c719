package tool

import (
	"strings"

	"github.com/hupe1980/agenttriage/core"
)

// ConnectedAgentTool lets one agent delegate a sub-question to another,
// already created, agent. The callee is referenced by its remote id.
type ConnectedAgentTool struct {
	agentID     string
	name        string
	description string
}

var _ Tool = (*ConnectedAgentTool)(nil)

// NewConnectedAgentTool wraps a created agent. The agent's name becomes the
// tool name.
func NewConnectedAgentTool(a core.Agent, description string) (*ConnectedAgentTool, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, NewToolError(a.ID, "connected agent has no name", CodeMissingName)
	}
	if strings.TrimSpace(a.ID) == "" {
		return nil, NewToolError(a.Name, "connected agent has not been created", CodeMissingAgentID)
	}
	return &ConnectedAgentTool{
		agentID:     a.ID,
		name:        a.Name,
		description: description,
	}, nil
}

// Name returns the callee's agent name.
func (t *ConnectedAgentTool) Name() string { return t.name }

// Description returns the guidance text.
func (t *ConnectedAgentTool) Description() string { return t.description }

// AgentID returns the callee's remote id.
func (t *ConnectedAgentTool) AgentID() string { return t.agentID }

// Definition returns the connected_agent tool definition.
func (t *ConnectedAgentTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		Type:        core.ToolTypeConnectedAgent,
		AgentID:     t.agentID,
		Name:        t.name,
		Description: t.description,
	}
}
