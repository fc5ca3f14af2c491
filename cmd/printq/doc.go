// Command printq is the operator CLI for the print queue daemon. Submission
// commands talk to the daemon over its HTTP API; inspection and maintenance
// commands open the queue database directly so they work whether or not the
// daemon is up.
package main
