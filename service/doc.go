// Package service contains implementations and decorators of
// core.AgentService that are independent of any vendor SDK:
//
//   - InMemoryService: a deterministic stub of the remote agent API for tests
//   - Instrumented: a decorator adding OpenTelemetry spans and structured logs
//
// The vendor backed implementation lives in service/openai.
package service
