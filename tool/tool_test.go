package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttriage/core"
)

// -------------------- Connected Agent Tool --------------------

func TestNewConnectedAgentTool(t *testing.T) {
	a := core.Agent{ID: "asst_001", Name: "priority_agent"}

	ct, err := NewConnectedAgentTool(a, "Assess the priority of a ticket")
	require.NoError(t, err)

	assert.Equal(t, "priority_agent", ct.Name())
	assert.Equal(t, "Assess the priority of a ticket", ct.Description())
	assert.Equal(t, "asst_001", ct.AgentID())
	assert.Equal(t, core.ToolDefinition{
		Type:        core.ToolTypeConnectedAgent,
		AgentID:     "asst_001",
		Name:        "priority_agent",
		Description: "Assess the priority of a ticket",
	}, ct.Definition())
}

func TestNewConnectedAgentTool_Invalid(t *testing.T) {
	_, err := NewConnectedAgentTool(core.Agent{Name: "team_agent"}, "x")
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeMissingAgentID, toolErr.Code)
	assert.Equal(t, "team_agent", toolErr.Tool)

	_, err = NewConnectedAgentTool(core.Agent{ID: "asst_002"}, "x")
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeMissingName, toolErr.Code)
}

// -------------------- Binding --------------------

func TestBind(t *testing.T) {
	p, _ := NewConnectedAgentTool(core.Agent{ID: "a1", Name: "priority_agent"}, "p")
	tm, _ := NewConnectedAgentTool(core.Agent{ID: "a2", Name: "team_agent"}, "t")
	e, _ := NewConnectedAgentTool(core.Agent{ID: "a3", Name: "effort_agent"}, "e")

	defs, err := Bind(p, tm, e)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "a1", defs[0].AgentID)
	assert.Equal(t, "a2", defs[1].AgentID)
	assert.Equal(t, "a3", defs[2].AgentID)

	wire := defs[1].WireFormat()
	assert.Equal(t, core.ToolTypeConnectedAgent, wire["type"])
	assert.Contains(t, wire, core.ToolTypeConnectedAgent)
}

func TestBind_Empty(t *testing.T) {
	defs, err := Bind()
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestBind_DuplicateName(t *testing.T) {
	a, _ := NewConnectedAgentTool(core.Agent{ID: "a1", Name: "team_agent"}, "t")
	b, _ := NewConnectedAgentTool(core.Agent{ID: "a2", Name: "team_agent"}, "t")

	_, err := Bind(a, b)
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeDuplicateName, toolErr.Code)
}

// -------------------- ToolError Formatting --------------------

func TestToolErrorFormatting(t *testing.T) {
	assert.Equal(t, "tool error [bad] in x: boom", NewToolError("x", "boom", "bad").Error())
	assert.Equal(t, "tool error in x: boom", NewToolError("x", "boom", "").Error())
}
