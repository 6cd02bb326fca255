// Package watchdog supervises the plugin process from the companion.
//
// A Monitor combines two detection paths: an event-driven exit watcher
// bound to the plugin's PID (pidfd on Linux, kqueue on Darwin) and a polling
// check of the heartbeat record's age. Both feed the same per-identity
// LivenessState and both request revival through a Guard, which coalesces
// requests that arrive within the cooldown window into no-ops.
//
// Nothing in this package terminates the process on failure. Probe errors
// mean "cannot determine liveness" and are retried on the next tick; revival
// errors are logged.
package watchdog
