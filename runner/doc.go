// Package runner drives the conversation side of a triage: it opens a thread,
// posts the user's ticket and runs the coordinator agent against it until the
// service reports a terminal status.
//
// The Runner holds no conversation state of its own. Threads and messages live
// in the remote service; the Runner only sequences the blocking calls and
// reports run outcomes on the console.
//
// A failed run is not an error from the Runner's point of view: the failure
// is printed and the run returned so the caller can still list whatever the
// thread accumulated. Callers wanting the failure as a value use
// core.Run.Failure.
package runner
