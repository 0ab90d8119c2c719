// Package tool exposes remote agents as callable capabilities of other agents.
// A tool carries a name and description that guide the calling agent's
// decision to invoke it, plus the wire definition the agent service stores on
// the calling agent.
package tool

import (
	"fmt"

	"github.com/hupe1980/agenttriage/core"
)

// Tool defines a capability that can be attached to an agent at creation time.
//
// Tools are passive descriptions: invocation happens inside the remote
// service when the calling agent decides to delegate.
type Tool interface {
	// Name returns the identifier the calling agent sees.
	Name() string

	// Description returns the guidance text for when to use the tool.
	Description() string

	// Definition returns the tool as stored on the calling agent.
	Definition() core.ToolDefinition
}

// ToolError represents errors that occur while constructing or binding a tool.
type ToolError struct {
	Tool    string      `json:"tool"`              // Name of the tool that failed
	Message string      `json:"message"`           // Error message
	Code    string      `json:"code"`              // Error code for categorization
	Details interface{} `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Error codes.
const (
	CodeMissingAgentID = "missing_agent_id"
	CodeMissingName    = "missing_name"
	CodeDuplicateName  = "duplicate_name"
)

// Bind converts tools into the definitions attached to a calling agent,
// preserving order. Tool names must be unique within one agent.
func Bind(tools ...Tool) ([]core.ToolDefinition, error) {
	defs := make([]core.ToolDefinition, 0, len(tools))
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if seen[t.Name()] {
			return nil, NewToolError(t.Name(), "tool name bound twice", CodeDuplicateName)
		}
		seen[t.Name()] = true
		defs = append(defs, t.Definition())
	}
	return defs, nil
}
