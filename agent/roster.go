package agent

import (
	"github.com/hupe1980/agenttriage/config"
	"github.com/hupe1980/agenttriage/core"
)

// Role identifies an agent's function within the pipeline.
type Role string

// Pipeline roles.
const (
	RolePriority Role = "priority"
	RoleTeam     Role = "team"
	RoleEffort   Role = "effort"
	RoleTriage   Role = "triage"
)

// Spec describes how a role is provisioned.
type Spec struct {
	Role            Role
	Name            string // remote agent name, also the exposed tool name
	InstructionFile string
	ToolDescription string // empty for the coordinator
}

var roster = map[Role]Spec{
	RolePriority: {
		Role:            RolePriority,
		Name:            "priority_agent",
		InstructionFile: config.PriorityInstructionsFile,
		ToolDescription: "Assess the priority of a ticket",
	},
	RoleTeam: {
		Role:            RoleTeam,
		Name:            "team_agent",
		InstructionFile: config.TeamInstructionsFile,
		ToolDescription: "Determines which team should take the ticket",
	},
	RoleEffort: {
		Role:            RoleEffort,
		Name:            "effort_agent",
		InstructionFile: config.EffortInstructionsFile,
		ToolDescription: "Determines the effort required to complete the ticket",
	},
	RoleTriage: {
		Role:            RoleTriage,
		Name:            "triage-agent",
		InstructionFile: config.TriageInstructionsFile,
	},
}

// Lookup returns the roster entry for a role.
func Lookup(r Role) (Spec, bool) {
	s, ok := roster[r]
	return s, ok
}

// SpecialistRoles returns the roles exposed as tools, in creation order.
func SpecialistRoles() []Role { return []Role{RolePriority, RoleTeam, RoleEffort} }

// CleanupOrder returns the fixed deletion order.
func CleanupOrder() []Role { return []Role{RoleTriage, RolePriority, RoleTeam, RoleEffort} }

// Definition builds the creation request for a role from the loaded
// configuration.
func (s Spec) Definition(cfg *config.Config, tools ...core.ToolDefinition) core.AgentDefinition {
	instructions, _ := cfg.Instructions.ForFile(s.InstructionFile)
	return core.AgentDefinition{
		Name:         s.Name,
		Model:        cfg.ModelDeployment,
		Instructions: instructions,
		Tools:        tools,
	}
}
