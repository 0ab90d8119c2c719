// Package core provides the foundational domain types and interfaces used by
// the triage pipeline. It defines:
//
//   - Agents and agent definitions (remote, instruction-configured resources)
//   - Tool definitions (connected agents exposed to a coordinator)
//   - Threads, messages and runs (one conversation per pipeline execution)
//   - The AgentService contract consumed by every higher level package
//   - The error taxonomy shared by configuration, session and service layers
//
// Remote resources are opaque: the package holds no durable state and never
// interprets agent output. Implementations of AgentService live in the
// service packages.
package core
