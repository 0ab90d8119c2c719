// Package agent provisions the remote agents of the triage pipeline and
// guarantees their removal. The package focuses on two concerns:
//
//  1. The roster: the four agent roles (priority, team, effort, triage) with
//     their names, instruction files and tool descriptions
//  2. The Provisioner: creates agents through a core.AgentService, records
//     every successfully created id and deletes the recorded agents in a fixed
//     order during Cleanup
//
// The Provisioner never retries: the first failed creation is returned to the
// caller, and only agents that were actually created are deleted.
package agent
