// Package daemon ties the queue store, the two workers, and the HTTP API
// into a single lifecycle with flock-based locking to prevent multiple
// daemon instances from draining the same queue.
package daemon
