package core

import "time"

// Agent is a remote, instruction-configured conversational resource. The ID
// is assigned by the remote service and is the only handle used after
// creation.
type Agent struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Model        string           `json:"model"`
	Instructions string           `json:"instructions"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AgentDefinition is the creation request for an Agent.
type AgentDefinition struct {
	Name         string
	Model        string
	Instructions string
	Tools        []ToolDefinition
}

// ToolTypeConnectedAgent identifies a tool that delegates to another agent.
const ToolTypeConnectedAgent = "connected_agent"

// ToolDefinition exposes another agent to a coordinating agent so that it may
// delegate sub-tasks. It is read-only after construction.
type ToolDefinition struct {
	Type        string `json:"type"`
	AgentID     string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WireFormat returns the JSON shape expected by the agents API for a tool
// entry on an agent definition.
func (t ToolDefinition) WireFormat() map[string]any {
	typ := t.Type
	if typ == "" {
		typ = ToolTypeConnectedAgent
	}
	return map[string]any{
		"type": typ,
		typ: map[string]any{
			"id":          t.AgentID,
			"name":        t.Name,
			"description": t.Description,
		},
	}
}
