// Package session provides the authenticated handle to the hosted agent
// service. A Session is acquired once per process with Open (or the scoped
// With helper), resolves ambient Azure credentials and exposes a
// core.AgentService whose requests carry bearer tokens. After Close every
// operation fails with core.ErrSessionClosed.
package session
