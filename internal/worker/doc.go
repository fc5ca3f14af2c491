// Package worker runs the polling loops that drain the print queue. Each
// worker claims one job at a time, hands it to its handler, and persists
// the resulting status before looking for the next job. A failure in one
// job is recorded on that job alone and never stops the loop.
package worker
